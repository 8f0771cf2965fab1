// Command server runs the evidence custody engine: local capture storage,
// the sync pipeline, integrity verification, and the synced mirror, all
// behind one HTTP surface. Every remote dependency has an in-process
// fallback so the engine runs fully offline.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"veritas/internal/audit"
	"veritas/internal/blob"
	"veritas/internal/custody"
	"veritas/internal/hashing"
	"veritas/internal/jwttoken"
	"veritas/internal/ledger"
	"veritas/internal/platform/config"
	"veritas/internal/platform/httpserver"
	"veritas/internal/platform/logger"
	"veritas/internal/platform/metrics"
	platformredis "veritas/internal/platform/redis"
	"veritas/internal/records"
	"veritas/internal/remote"
	httptransport "veritas/internal/transport/http"
	"veritas/internal/verify"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogMode)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()
	m := metrics.New()
	engine := hashing.NewEngine()

	store, err := records.NewFileStore(cfg.StorePath)
	if err != nil {
		return err
	}

	uploader, closeUploader, err := buildUploader(cfg)
	if err != nil {
		return err
	}
	defer closeUploader()

	oracle := buildLedger(cfg, log)

	mirror, closeMirror, err := buildMirror(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeMirror()

	claims, closeClaims, err := buildClaimer(cfg, log)
	if err != nil {
		return err
	}
	defer closeClaims()

	trail := audit.NewInMemoryStore()
	publisher, closePublisher, err := buildPublisher(cfg, trail, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	captureSvc := records.NewService(store, engine, log, m)
	syncSvc := custody.NewService(custody.Deps{
		Store:       store,
		Hasher:      engine,
		Ledger:      oracle,
		Uploader:    uploader,
		Remote:      mirror,
		Claims:      claims,
		Audit:       publisher,
		Logger:      log,
		Metrics:     m,
		Concurrency: cfg.SyncConcurrency,
	})
	verifySvc := verify.NewService(oracle, engine, publisher, log, m)

	jwtSvc := jwttoken.NewJWTService(cfg.JWTSigningKey, "veritas", "veritas-api")

	router := httptransport.NewRouter(
		httptransport.RouterConfig{
			Logger:         log,
			JWTValidator:   jwtSvc,
			RequestTimeout: cfg.RemoteTimeout * 2,
		},
		httptransport.NewRecordsHandler(captureSvc, trail, publisher, log),
		httptransport.NewCustodyHandler(syncSvc, log),
		httptransport.NewVerifyHandler(verifySvc, log),
		httptransport.NewRemoteHandler(mirror, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting custody engine", "addr", cfg.Addr, "store_path", cfg.StorePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildUploader(cfg config.Config) (blob.Uploader, func(), error) {
	if cfg.BlobURL != "" {
		return blob.NewHTTPUploader(cfg.BlobURL, cfg.RemoteTimeout), func() {}, nil
	}
	uploader, err := blob.NewDirUploader(cfg.BlobDir)
	if err != nil {
		return nil, nil, err
	}
	return uploader, func() {}, nil
}

func buildLedger(cfg config.Config, log *slog.Logger) ledger.Client {
	if cfg.LedgerURL != "" {
		return ledger.NewHTTPClient(cfg.LedgerURL, cfg.RemoteTimeout)
	}
	log.Info("no ledger configured, using in-process anchoring oracle")
	return ledger.NewMemoryLedger()
}

func buildMirror(ctx context.Context, cfg config.Config, log *slog.Logger) (remote.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("no database configured, using in-memory record mirror")
		return remote.NewInMemoryStore(), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	store := remote.NewPostgres(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, func() { _ = db.Close() }, nil
}

func buildClaimer(cfg config.Config, log *slog.Logger) (custody.Claimer, func(), error) {
	client, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return custody.NewMemoryClaimer(), func() {}, nil
	}
	log.Info("using redis sync claims", "ttl", cfg.SyncClaimTTL.String())
	return custody.NewRedisClaimer(client.Client, cfg.SyncClaimTTL), func() { _ = client.Close() }, nil
}

func buildPublisher(cfg config.Config, trail audit.Store, log *slog.Logger) (audit.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewStorePublisher(trail, log), func() {}, nil
	}
	publisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("publishing custody trail to kafka", "topic", cfg.AuditTopic)
	return publisher, publisher.Close, nil
}
