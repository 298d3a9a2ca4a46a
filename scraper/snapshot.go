package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
)

// snapshot writes a screenshot of the result page for diagnostics.
// It never fails the search: errors are logged and dropped.
func (s *Scraper) snapshot(ctx context.Context, page *rod.Page) {
	path := s.scraperCfg.SnapshotPath
	if path == "" {
		return
	}

	img, err := page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		slog.Warn("snapshot capture failed", "path", path, "error", err)
		return
	}
	if err := utils.OutputFile(path, img); err != nil {
		slog.Warn("snapshot write failed", "path", path, "error", err)
		return
	}
	slog.Debug("snapshot saved", "path", path)
}
