package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/psidex/convgraph/internal/graph"
)

// meeting is the input file format.
type meeting struct {
	Title    string         `json:"title"`
	Entities []graph.Entity `json:"entities" validate:"dive"`
}

var validate = validator.New()

func decodeMeeting(r io.Reader) (meeting, error) {
	m := meeting{}
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return m, fmt.Errorf("decode input: %w", err)
	}
	if err := validate.Struct(m); err != nil {
		return m, fmt.Errorf("invalid input: %w", err)
	}
	return m, nil
}

// readMeeting reads the input file at path, or stdin if path is "-".
func readMeeting(path string) (meeting, error) {
	if path == "-" {
		return decodeMeeting(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return meeting{}, err
	}
	defer file.Close()

	return decodeMeeting(file)
}
