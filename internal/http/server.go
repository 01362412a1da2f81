package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"hrtool/internal/log"
	"hrtool/internal/metrics"
	"hrtool/internal/middleware/ratelimit"
	"hrtool/internal/middleware/security"
	"hrtool/internal/middleware/trace"
	"hrtool/internal/services"
	appweb "hrtool/web"
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	PreviewRows    int
	UploadLimit    int64
	RateLimit      int
	TrustedProxies []string
	// DatasetLocation names where uploads end up, shown after an upload.
	DatasetLocation string
	Logger          *log.Logger
	// Now is the clock used for form defaults.
	Now func() time.Time
}

const (
	defaultPreviewRows = 20
	defaultUploadLimit = 200 << 20
	pdfUploadLimit     = 50 << 20
)

type Server struct {
	http.Server
	templates *template.Template
	svc       *services.EmployeeService
	opts      Options
	logger    *log.Logger

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	startTime   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, svc *services.EmployeeService, opts Options) (*Server, error) {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = defaultPreviewRows
	}
	if opts.UploadLimit <= 0 {
		opts.UploadLimit = defaultUploadLimit
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	detector, err := security.NewDetector(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}

	rlConfig := ratelimit.DefaultConfig()
	if opts.RateLimit > 0 {
		rlConfig.RequestsPerMinute = opts.RateLimit
	}

	s := &Server{
		svc:         svc,
		opts:        opts,
		logger:      opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(rlConfig),
		detector:    detector,
		startTime:   time.Now(),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	// Data tab
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /employees", s.handleAddEmployee)
	mux.HandleFunc("GET /ui/preview", s.handlePreview)
	mux.HandleFunc("GET /ui/entitlement", s.handleEntitlement)

	// Visualizations tab
	mux.HandleFunc("GET /visualizations", s.handleVisualizations)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboardAPI)

	// Exports
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /export.xlsx", s.handleExportXLSX)

	// Assistant tab
	mux.HandleFunc("GET /assistant", s.handleAssistant)
	mux.HandleFunc("POST /assistant/upload", s.handleAssistantUpload)
	mux.HandleFunc("POST /assistant/ask", s.handleAssistantAsk)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// middleware wraps the mux: tracing outermost, then probe detection,
// security headers and POST rate limiting.
func (s *Server) middleware(next http.Handler) http.Handler {
	tracer := trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
	})

	return tracer.Middleware(s.detector.Middleware(headers.Middleware(limit(next))))
}

// Shutdown stops background routines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		InternalServerError("templates not loaded").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name)
	}
}
