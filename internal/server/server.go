package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/itsatony/sensorhub/api"
	"github.com/itsatony/sensorhub/api/resources"
	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/config"
	"github.com/itsatony/sensorhub/internal/database"
	"github.com/itsatony/sensorhub/internal/monitoring"
	"github.com/itsatony/sensorhub/internal/repository"
	"github.com/itsatony/sensorhub/internal/repository/postgres"
	"github.com/itsatony/sensorhub/internal/repository/redis"
	"github.com/itsatony/sensorhub/internal/repository/timescale"
	"github.com/itsatony/sensorhub/internal/service"
	goredis "github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	redis      *goredis.Client
	service    *service.Service
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start prepares the store, wires the services and serves until SIGINT/SIGTERM
func (s *Server) Start() error {
	ctx := context.Background()
	defer s.close()

	if err := s.initStore(ctx); err != nil {
		return err
	}
	if err := s.initService(ctx); err != nil {
		return err
	}

	s.monitoring = monitoring.NewService(monitoring.Config{})
	s.setupEventHandlers()

	router := api.NewRouter(s.service, resources.Options{
		MaxUploadSize: s.config.Importer.MaxUploadSize,
		Monitoring:    s.monitoring,
	})
	s.srv.Handler = s.wrap(router)

	errCh := make(chan error, 1)
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return s.waitForShutdown(errCh)
}

// initStore opens the pool, waits for the database, applies migrations and
// converts sensor_data to a hypertable when TimescaleDB is enabled.
func (s *Server) initStore(ctx context.Context) error {
	dbCfg := s.config.Database
	db, err := database.Open(dbCfg)
	if err != nil {
		return err
	}
	s.db = db

	if err := database.WaitForDB(ctx, db, dbCfg.StartupAttempts, dbCfg.StartupInterval); err != nil {
		return err
	}
	if err := database.Migrate(dbCfg.URL()); err != nil {
		return err
	}
	if dbCfg.Timescale {
		if err := database.EnableTimescale(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) initService(ctx context.Context) error {
	var sensorData repository.SensorDataRepository
	if s.db.Timescale() {
		repo, err := timescale.NewSensorDataRepository(s.db)
		if err != nil {
			return err
		}
		sensorData = repo
	} else {
		sensorData = postgres.NewSensorDataRepository(s.db)
	}
	users := postgres.NewUserRepository(s.db)

	var leases repository.TokenStore
	if s.config.Redis.Enabled {
		s.redis = redis.NewClient(s.config.Redis)
		store := redis.NewTokenStore(s.redis)
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("redis not reachable: %w", err)
		}
		nuts.L.Infof("[Server] Token leases stored in redis at %s", s.config.Redis.Addr())
		leases = store
	}

	authCfg := s.config.Auth
	gate := auth.NewGate(users, leases, auth.Options{
		SecretKey:         authCfg.SecretKey,
		AccessTokenExpire: authCfg.AccessTokenExpire,
		ResetTokenExpire:  authCfg.ResetTokenExpire,
	})

	s.service = service.New(sensorData, users, gate, service.Options{
		ImportBatchSize:  s.config.Importer.BatchSize,
		OpenRegistration: authCfg.OpenRegistration,
	}).WithHealthCheck(s.db)
	if err := s.service.Validate(); err != nil {
		return err
	}

	if authCfg.FirstSuperuser != "" {
		if err := s.service.EnsureSuperuser(ctx, authCfg.FirstSuperuser, authCfg.FirstSuperuserPassword); err != nil {
			return fmt.Errorf("failed to create first superuser: %w", err)
		}
	}
	return nil
}

// wrap adds CORS, panic recovery and access logging around the router
func (s *Server) wrap(h http.Handler) http.Handler {
	h = handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}), handlers.PrintRecoveryStack(true))(h)
	return handlers.CustomLoggingHandler(io.Discard, h, logAccess)
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("error starting server: %w", err)
	case <-quit:
	}

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			nuts.L.Warnf("[Server] Failed to close redis client: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Failed to close database: %v", err)
		}
	}
}

func (s *Server) setupEventHandlers() {
	record := func(event, label string) {
		s.service.OnEvent(event, "monitoring", func(args ...interface{}) {
			labels := map[string]string{}
			if len(args) > 0 {
				labels[label] = fmt.Sprint(args[0])
			}
			s.monitoring.RecordEvent(event, labels)
		})
	}

	record(service.EventSensorDataCreated, "id")
	record(service.EventSensorDataUpdated, "id")
	record(service.EventSensorDataDeleted, "id")
	record(service.EventSensorDataImported, "rows")
	record(service.EventUserDeleted, "user_id")
}

type recoveryLogger struct{}

func (recoveryLogger) Println(args ...interface{}) {
	nuts.L.Errorf("[Server] Recovered from panic: %s", fmt.Sprint(args...))
}

func logAccess(_ io.Writer, p handlers.LogFormatterParams) {
	nuts.L.Infof("[HTTP] %s %s %d %dB %s",
		p.Request.Method, p.URL.Path, p.StatusCode, p.Size, time.Since(p.TimeStamp).Round(time.Microsecond))
}
