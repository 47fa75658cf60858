// Package httpserver exposes the knowledgehub services over HTTP: the public
// catalog API, the download redirect and the session-guarded admin area.
package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/knowledgehub/internal/logging"
	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
	"github.com/dmitrijs2005/knowledgehub/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authenticator is the admin credential flow.
type Authenticator interface {
	Login(ctx context.Context, in services.LoginInput) (string, error)
	UpdateCredentials(ctx context.Context, adminID int64, in services.CredentialsInput) error
}

// Catalog is the public read side.
type Catalog interface {
	Classes(ctx context.Context) ([]services.ClassView, error)
	ClassPage(ctx context.Context, classSlug string) (*services.ClassPage, error)
	SubjectPage(ctx context.Context, classSlug, subjectSlug string) (*services.SubjectPage, error)
	SubjectsByClass(ctx context.Context, classID int64) ([]*models.Subject, error)
}

// Notes is the note and file workflow.
type Notes interface {
	DownloadURL(ctx context.Context, noteID int64) (string, error)
	UploadURL(ctx context.Context, fileName string) (string, string, error)
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SaveMetadata(ctx context.Context, in services.NoteInput) (*models.Note, error)
	Update(ctx context.Context, in services.NoteUpdateInput) error
	Delete(ctx context.Context, id int64) error
	Dashboard(ctx context.Context) (*services.Dashboard, error)
	FilesPage(ctx context.Context) (*services.FilesPage, error)
	UploadPage(ctx context.Context, classID, subjectID int64) (*services.UploadPage, error)
}

// Pinger reports database liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Params wires a Server.
type Params struct {
	Addr          string
	Logger        logging.Logger
	Auth          Authenticator
	Sessions      SessionVerifier
	Catalog       Catalog
	Notes         Notes
	DB            Pinger
	Metrics       *Metrics
	Gatherer      prometheus.Gatherer
	MaxUploadSize int64
	LoginLimiter  *RateLimiter
}

type Server struct {
	address       string
	logger        logging.Logger
	auth          Authenticator
	sessions      SessionVerifier
	catalog       Catalog
	notes         Notes
	db            Pinger
	metrics       *Metrics
	gatherer      prometheus.Gatherer
	maxUploadSize int64
	loginLimiter  *RateLimiter
	router        *mux.Router
}

func New(p Params) *Server {
	s := &Server{
		address:       p.Addr,
		logger:        p.Logger.With("module", "http_server"),
		auth:          p.Auth,
		sessions:      p.Sessions,
		catalog:       p.Catalog,
		notes:         p.Notes,
		db:            p.DB,
		metrics:       p.Metrics,
		gatherer:      p.Gatherer,
		maxUploadSize: p.MaxUploadSize,
		loginLimiter:  p.LoginLimiter,
	}
	s.router = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(s.logger, s.metrics), PanicRecovery(s.logger, s.metrics))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.HandleFunc("/download/{note_id}", s.handleDownload).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/classes", s.handleClasses).Methods(http.MethodGet)
	api.HandleFunc("/classes/{class_slug}", s.handleClassPage).Methods(http.MethodGet)
	api.HandleFunc("/classes/{class_slug}/{subject_slug}", s.handleSubjectPage).Methods(http.MethodGet)
	api.HandleFunc("/subjects", s.handleSubjects).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(NewAuthGuard(s.sessions, s.logger).Middleware)

	var login http.Handler = http.HandlerFunc(s.handleLogin)
	if s.loginLimiter != nil {
		login = s.loginLimiter.Middleware(login)
	}
	admin.HandleFunc("", s.handleLoginPage).Methods(http.MethodGet)
	admin.Handle("/login", login).Methods(http.MethodPost)
	admin.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	admin.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/files", s.handleFiles).Methods(http.MethodGet)
	admin.HandleFunc("/files/update", s.handleUpdateNote).Methods(http.MethodPost)
	admin.HandleFunc("/files/delete", s.handleDeleteNote).Methods(http.MethodPost)
	admin.HandleFunc("/upload", s.handleUploadPage).Methods(http.MethodGet)
	admin.HandleFunc("/upload/metadata", s.handleSaveMetadata).Methods(http.MethodPost)
	admin.HandleFunc("/api/upload-url", s.handleUploadURL).Methods(http.MethodPost)
	admin.HandleFunc("/api/upload", s.handleUpload).Methods(http.MethodPost)
	admin.HandleFunc("/settings/credentials", s.handleUpdateCredentials).Methods(http.MethodPost)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
