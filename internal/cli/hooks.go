package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridtile/pkg/observability"
)

// logHooks writes observability events to the debug log, so --verbose
// shows cache traffic and per-stage timings.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.ServerHooks   = (*logHooks)(nil)
)

func (h *logHooks) OnRenderStart(_ context.Context, puzzleID string) {
	h.logger.Debug("render start", "puzzle", puzzleID)
}

func (h *logHooks) OnRenderComplete(_ context.Context, puzzleID string, side int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "puzzle", puzzleID, "error", err)
		return
	}
	h.logger.Debug("render done", "puzzle", puzzleID, "side", side, "duration", d)
}

func (h *logHooks) OnStaleMarkup(_ context.Context, puzzleID string, indices []int) {
	h.logger.Debug("stale markup", "puzzle", puzzleID, "count", len(indices))
}

func (h *logHooks) OnEncodeComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("encode done", "format", format, "bytes", size, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}
