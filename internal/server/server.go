package server

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leofalp/wfextract/core/pipeline"
	"github.com/leofalp/wfextract/providers/observability"
	"github.com/leofalp/wfextract/providers/source"
)

// DefaultMaxBodyBytes limits request bodies when no other limit is set.
const DefaultMaxBodyBytes = 8 << 20

// Server serves the extraction endpoints.
type Server struct {
	pipeline     *pipeline.Pipeline
	observer     observability.Provider
	gatherer     prometheus.Gatherer
	maxBodyBytes int64
	chunkSize    int
}

// Option configures a [Server].
type Option func(*Server)

// WithObserver logs requests through observer.
func WithObserver(observer observability.Provider) Option {
	return func(s *Server) {
		s.observer = observer
	}
}

// WithGatherer serves gatherer's metrics on /metrics.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(limit int64) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxBodyBytes = limit
		}
	}
}

// WithChunkSize sets the read size for text bodies.
func WithChunkSize(size int) Option {
	return func(s *Server) {
		s.chunkSize = size
	}
}

// New creates a Server running every request through p.
func New(p *pipeline.Pipeline, opts ...Option) *Server {
	s := &Server{
		pipeline:     p,
		maxBodyBytes: DefaultMaxBodyBytes,
		chunkSize:    source.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router configures the Gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.observer))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	v1.POST("/extract", s.extract)
	v1.POST("/extract/stream", s.extractStream)

	return r
}

// stream wraps the request body as a chunk sequence in the requested format.
func (s *Server) stream(c *gin.Context) (iter.Seq2[string, error], error) {
	format, err := source.ParseFormat(c.Query("format"))
	if err != nil {
		return nil, err
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)
	return source.FromReader(format, c.Request.Body, s.chunkSize), nil
}

func (s *Server) extract(c *gin.Context) {
	chunks, err := s.stream(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, &APIError{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}

	result, err := s.pipeline.Run(c.Request.Context(), chunks, nil)
	if err != nil {
		status, apiErr := mapPipelineError(err)
		if isBodyTooLarge(err) {
			status, apiErr.Code = http.StatusRequestEntityTooLarge, "STREAM_TOO_LARGE"
		}
		respondError(c, status, apiErr)
		return
	}

	respondOK(c, result)
}

func (s *Server) extractStream(c *gin.Context) {
	chunks, err := s.stream(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, &APIError{Code: "BAD_REQUEST", Message: err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	onThought := func(thoughts string) {
		c.SSEvent("thought", thoughts)
		c.Writer.Flush()
	}

	result, err := s.pipeline.Run(c.Request.Context(), chunks, onThought)
	if err != nil {
		_, apiErr := mapPipelineError(err)
		c.SSEvent("error", APIResponse{Success: false, RequestID: c.GetString(requestIDKey), Error: apiErr})
		c.Writer.Flush()
		return
	}

	c.SSEvent("result", APIResponse{Success: true, RequestID: c.GetString(requestIDKey), Data: result})
	c.Writer.Flush()
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

// ListenAndServe serves the router on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
