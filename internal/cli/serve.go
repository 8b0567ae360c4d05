package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtile/pkg/buildinfo"
	gterrors "github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/io"
	"github.com/matzehuels/gridtile/pkg/observability"
	"github.com/matzehuels/gridtile/pkg/pipeline"
	"github.com/matzehuels/gridtile/pkg/raster/sink"
)

const (
	// maxPuzzleBytes bounds a POST /render body.
	maxPuzzleBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Response headers set by POST /render.
const (
	headerRenderID = "X-Render-ID"
	headerCache    = "X-Cache"
	headerSide     = "X-Image-Side"
	headerStale    = "X-Stale-Markup"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render server",
		Long: `Run an HTTP server that renders puzzles on demand.

  POST /render    puzzle JSON in, image out (?format=png|bmp|tiff&scale=N)
  GET  /healthz   liveness check
  GET  /version   build information

With [cache] backend = "redis" several servers share one image cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			return c.runServer(cmd.Context(), addr, newServer(runner, c.pipelineOptions(), c.Logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServer(ctx context.Context, addr string, s *server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	printSuccess("Listening on %s", addr)
	printKeyValue("cache", c.Config.Cache.Backend)
	printKeyValue("format", c.Config.Output.Format)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// server - HTTP handlers
// =============================================================================

// server renders puzzles over HTTP. Each request runs its own pipeline;
// the runner and its cache are shared.
type server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
}

func newServer(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *server {
	return &server{runner: runner, opts: opts, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/render", s.handleRender)
	return r
}

type renderIDKey struct{}

// observe assigns a render ID, attaches a request logger and reports the
// request to the server hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set(headerRenderID, id)

		ctx := context.WithValue(r.Context(), renderIDKey{}, id)
		ctx = withLogger(ctx, s.logger.With("render_id", id[:8]))
		hooks := observability.Server()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())
	id, _ := r.Context().Value(renderIDKey{}).(string)

	p, err := io.ReadJSON(http.MaxBytesReader(w, r.Body, maxPuzzleBytes))
	if err != nil {
		s.writeError(w, logger, err)
		return
	}
	if p.ID == "" {
		p.ID = id
	}

	opts := s.opts
	opts.Logger = logger
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Format = strings.ToLower(f)
	}
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, logger, gterrors.New(gterrors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}

	res, err := s.runner.Execute(r.Context(), p, opts)
	if err != nil {
		s.writeError(w, logger, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", sink.ContentType(opts.Format))
	h.Set("Content-Length", strconv.Itoa(len(res.Artifact)))
	h.Set(headerSide, strconv.Itoa(res.Side))
	if res.CacheHit {
		h.Set(headerCache, "HIT")
	} else {
		h.Set(headerCache, "MISS")
	}
	if len(res.Stale) > 0 {
		stale := make([]string, len(res.Stale))
		for i, v := range res.Stale {
			stale[i] = strconv.Itoa(v)
		}
		h.Set(headerStale, strings.Join(stale, ","))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifact)
}

// errorResponse is the JSON body of a failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps INVALID_* errors to 400 and everything else to 500.
func (s *server) writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := http.StatusInternalServerError
	code := string(gterrors.GetCode(err))
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
		code = string(gterrors.ErrCodeInvalidInput)
	case gterrors.IsInvalid(err):
		status = http.StatusBadRequest
	}
	if code == "" {
		code = string(gterrors.ErrCodeInternal)
	}

	if status >= 500 {
		logger.Error("render failed", "error", err)
	} else {
		logger.Warn("rejected request", "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: gterrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
