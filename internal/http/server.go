package http

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// UserStore is the subset of the repository the server needs for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, fullName, email, passwordHash, profileImageURL string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	GetUserByID(ctx context.Context, id int64) (core.User, error)
}

// TransactionStore is the subset of the repository the server needs for
// income and expense records.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, kind core.Kind) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, id, requestingUserID int64) error
}

// Config carries the server-facing settings.
type Config struct {
	Addr               string
	UploadDir          string
	MaxUploadBytes     int64
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	users        UserStore
	transactions TransactionStore
	tokens       *auth.TokenManager
	logger       *log.Logger

	uploadDir      string
	maxUploadBytes int64
	rateLimiter    *rateLimiter

	// Per-user dashboard summary cache, invalidated on writes.
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, users UserStore, transactions TransactionStore, tokens *auth.TokenManager, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              cfg.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		users:          users,
		transactions:   transactions,
		tokens:         tokens,
		logger:         logger.WithComponent(log.ComponentHTTP),
		uploadDir:      cfg.UploadDir,
		maxUploadBytes: cfg.MaxUploadBytes,
		rateLimiter:    newRateLimiter(cfg.RateLimitPerMinute),
		summaryCache:   cache.NewLRUCache[core.Summary](100, 5*time.Minute),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		s.logger.Warn("Failed to create upload directory", log.FieldError, err, "dir", cfg.UploadDir)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Uploaded profile images are served back as static files.
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	mux.Handle("GET /uploads/", uploads)

	mux.HandleFunc("POST /api/v1/auth/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("POST /api/v1/auth/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("GET /api/v1/auth/getUser", s.withSecurityHeaders(s.requireAuth(s.handleGetUser)))
	mux.HandleFunc("POST /api/v1/auth/upload-image", s.withSecurityHeaders(s.requireAuth(s.handleUploadImage)))

	mux.HandleFunc("GET /api/v1/dashboard", s.withSecurityHeaders(s.requireAuth(s.handleDashboard)))

	for _, kind := range []core.Kind{core.KindIncome, core.KindExpense} {
		prefix := "/api/v1/" + string(kind)
		mux.HandleFunc("POST "+prefix+"/add", s.withSecurityHeaders(s.requireAuth(s.handleAddTransaction(kind))))
		mux.HandleFunc("GET "+prefix+"/get", s.withSecurityHeaders(s.requireAuth(s.handleListTransactions(kind))))
		mux.HandleFunc("GET "+prefix+"/all", s.withSecurityHeaders(s.requireAuth(s.handleListTransactions(kind))))
		mux.HandleFunc("DELETE "+prefix+"/{id}", s.withSecurityHeaders(s.requireAuth(s.handleDeleteTransaction(kind))))
		mux.HandleFunc("GET "+prefix+"/download-excel", s.withSecurityHeaders(s.requireAuth(s.handleDownloadExcel(kind))))
	}

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) summaryCacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *Server) invalidateSummary(userID int64) {
	s.summaryCache.Delete(s.summaryCacheKey(userID))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
