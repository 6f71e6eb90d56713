package lib

import (
	"io"
	"log/slog"
	"path/filepath"
)

func ParseSLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// NiceLogger is a text logger that prints only the base name of the source file.
func NiceLogger(w io.Writer, level slog.Level) *slog.Logger {
	// https://www.reddit.com/r/golang/comments/15nwnkl/achieve_lshortfile_with_slog/jy8emik/
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     &level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}))
}

// LoggerFor builds a NiceLogger from a level name such as "debug" or "warn". An empty
// name means info.
func LoggerFor(w io.Writer, levelName string) (*slog.Logger, error) {
	if levelName == "" {
		return NiceLogger(w, slog.LevelInfo), nil
	}
	level, err := ParseSLogLevel(levelName)
	if err != nil {
		return nil, err
	}
	return NiceLogger(w, level), nil
}

// Discard is a logger for tests and callers that don't care.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
