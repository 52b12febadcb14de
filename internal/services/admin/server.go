package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/identpanel/internal/platform/config"
	platformgrpc "github.com/louisbranch/identpanel/internal/platform/grpc"
	"github.com/louisbranch/identpanel/internal/platform/requestctx"
	"github.com/louisbranch/identpanel/internal/platform/timeouts"
	"github.com/louisbranch/identpanel/internal/services/admin/grant"
	"github.com/louisbranch/identpanel/internal/services/admin/static"
	"github.com/louisbranch/identpanel/internal/services/admin/storage"
	adminsqlite "github.com/louisbranch/identpanel/internal/services/admin/storage/sqlite"
	"github.com/louisbranch/identpanel/internal/services/admin/transport/httpmux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// adminServerEnv captures startup defaults for the admin process.
type adminServerEnv struct {
	DBPath string `env:"IDENTPANEL_ADMIN_DB_PATH"`
}

func loadAdminServerEnv() adminServerEnv {
	var cfg adminServerEnv
	_ = config.ParseEnv(&cfg)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "admin.db")
	}
	return cfg
}

// Config defines the inputs for the admin process.
type Config struct {
	HTTPAddr string
	// GRPCAddr serves the gRPC health endpoint; empty disables it.
	GRPCAddr string
	// DBPath overrides IDENTPANEL_ADMIN_DB_PATH.
	DBPath string
	// FixturePath seeds the store at startup when set.
	FixturePath string
	// Grant enables operator sign-in when set.
	Grant *grant.Config
	// LocalOperator acts on every request when Grant is nil.
	LocalOperator requestctx.Operator
}

// Server hosts the admin dashboard, its JSON API and the health endpoint.
type Server struct {
	httpAddr     string
	grpcAddr     string
	httpServer   *http.Server
	grpcServer   *grpc.Server
	healthServer *health.Server
	store        *adminsqlite.Store
}

// NewServer builds a configured admin server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		dbPath = loadAdminServerEnv().DBPath
	}
	store, err := openAdminStore(dbPath)
	if err != nil {
		return nil, err
	}
	if path := strings.TrimSpace(cfg.FixturePath); path != "" {
		if err := importFixtureFile(ctx, store, path); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	server := &Server{
		httpAddr: httpAddr,
		grpcAddr: strings.TrimSpace(cfg.GRPCAddr),
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           newRootHandler(store, cfg, time.Now),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}
	if server.grpcAddr != "" {
		server.grpcServer, server.healthServer = platformgrpc.NewHealthServer(platformgrpc.AdminHealthService)
	}
	return server, nil
}

// newRootHandler mounts static assets, the dashboard and the API behind
// sign-in or the local operator.
func newRootHandler(store Store, cfg Config, now func() time.Time) http.Handler {
	handler := newHandler(store, now)
	handler.grants = cfg.Grant

	wrap := func(next http.Handler) http.Handler {
		if cfg.Grant != nil {
			return requireAuth(next, *cfg.Grant)
		}
		return withOperator(next, cfg.LocalOperator)
	}

	rootMux := http.NewServeMux()
	httpmux.MountStatic(rootMux, static.FS)
	httpmux.MountAdminRoutes(rootMux, handler.routes(), wrap)
	return withTraceContext(rootMux)
}

// withTraceContext continues traces started by API clients.
func withTraceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ListenAndServe runs the HTTP server, and the health server when
// configured, until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 2)
	if s.grpcServer != nil {
		listener, err := net.Listen("tcp", s.grpcAddr)
		if err != nil {
			return fmt.Errorf("listen grpc health: %w", err)
		}
		log.Printf("admin health listening on %s", listener.Addr())
		go func() {
			if err := s.grpcServer.Serve(listener); err != nil {
				serveErr <- fmt.Errorf("serve grpc health: %w", err)
			}
		}()
		s.healthServer.SetServingStatus(platformgrpc.AdminHealthService, s.storeStatus(ctx))
	}

	log.Printf("admin listening on %s", s.httpAddr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("serve http: %w", err)
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-serveErr:
		if shutdownErr := s.shutdown(); err == nil {
			err = shutdownErr
		}
		return err
	}
}

// storeStatus reports SERVING only when the store answers a ping.
func (s *Server) storeStatus(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.StoreQuery)
	defer cancel()
	if err := s.store.Ping(pingCtx); err != nil {
		log.Printf("admin store ping: %v", err)
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func (s *Server) shutdown() error {
	if s.healthServer != nil {
		s.healthServer.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close releases the store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close admin store: %v", err)
		}
	}
}

func openAdminStore(path string) (*adminsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := adminsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open admin sqlite store: %w", err)
	}
	return store, nil
}

func importFixtureFile(ctx context.Context, store storage.FixtureStore, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()

	fixture, err := storage.ParseFixture(file)
	if err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}
	result, err := store.ImportFixture(ctx, fixture)
	if err != nil {
		return fmt.Errorf("import fixture %s: %w", path, err)
	}
	log.Printf("admin fixture %s: %d players, %d actions created", path, result.Players, result.Actions)
	return nil
}
