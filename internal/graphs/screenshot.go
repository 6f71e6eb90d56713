package graphs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/html"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/psidex/convgraph/internal/graph"
)

// ScreenshotInfo describes a finished screenshot.
type ScreenshotInfo struct {
	Path            string
	Title           string
	DownloadedBytes int64
	Duration        time.Duration
}

// Screenshot opens the rendered HTML file at htmlPath in headless Chrome, sized to dim,
// and writes a PNG of the page to pngPath. A browser must be installed.
func Screenshot(ctx context.Context, htmlPath, pngPath string, dim graph.Dimensions, timeout time.Duration) (ScreenshotInfo, error) {
	startTime := time.Now()

	if !dim.Valid() {
		dim = graph.Dimensions{Width: defaultSVGWidth, Height: defaultSVGHeight}
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return ScreenshotInfo{}, err
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	ctx, cancel := chromedp.NewContext(timeoutCtx)
	defer cancel()

	var downloadedBytes atomic.Int64

	countBytesAction := func(ctx context.Context) error {
		chromedp.ListenTarget(ctx, func(ev interface{}) {
			switch ev := ev.(type) {
			case *network.EventLoadingFinished:
				downloadedBytes.Add(int64(ev.EncodedDataLength))
			}
		})
		return nil
	}

	var (
		pageSource string
		png        []byte
	)
	err = chromedp.Run(ctx,
		network.Enable(),
		chromedp.ActionFunc(countBytesAction),
		chromedp.EmulateViewport(int64(dim.Width), int64(dim.Height)),
		chromedp.Navigate("file://"+filepath.ToSlash(abs)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			pageSource, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			png, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return ScreenshotInfo{}, fmt.Errorf("screenshot %s: %w", htmlPath, err)
	}

	if err := os.WriteFile(pngPath, png, 0o644); err != nil {
		return ScreenshotInfo{}, err
	}

	return ScreenshotInfo{
		Path:            pngPath,
		Title:           pageTitle(pageSource),
		DownloadedBytes: downloadedBytes.Load(),
		Duration:        time.Since(startTime),
	}, nil
}

// pageTitle returns the text of the first title element in source, or "" if it has none.
func pageTitle(source string) string {
	parsed, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return ""
	}

	var find func(*html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title := find(c); title != "" {
				return title
			}
		}
		return ""
	}

	return find(parsed)
}
