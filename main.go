package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/miracle380301/cryptoguardian/config"
	"github.com/miracle380301/cryptoguardian/scoring"
	"github.com/miracle380301/cryptoguardian/server"
	"github.com/miracle380301/cryptoguardian/store/postgres"
	"github.com/miracle380301/cryptoguardian/store/rediscache"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}

	var cache *rediscache.Cache
	if cfg.RedisAddr != "" {
		cache, err = rediscache.New(cfg.RedisAddr, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache")
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	blacklist := postgres.NewBlacklist(db)
	exchanges := postgres.NewExchanges(db)
	reports := postgres.NewReports(db)

	vcfg := scoring.ValidatorConfig{
		Blacklist:       blacklist,
		Exchanges:       exchanges,
		Reports:         reports,
		Reputation:      scoring.NewReputationFeed(cfg.ReputationKey, scoring.DefaultReputationThresholds(), log),
		SafeBrowsing:    scoring.NewSafeBrowsingChecker(cfg.SafeBrowsingKey, log),
		CertProbe:       scoring.ProbeCertificate,
		DetectorTimeout: cfg.DetectorTimeout,
		Logger:          log,
	}
	if cache != nil {
		vcfg.Cache = cache
		vcfg.DomainAge = scoring.NewDomainAgeChecker(cache, log)
	} else {
		vcfg.DomainAge = scoring.NewDomainAgeChecker(nil, log)
	}
	validator := scoring.NewValidator(vcfg)

	srv := server.New(validator, reports, exchanges, log)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: r}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Info().Str("addr", cfg.ListenAddr).Msg("listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server error")
	}
}
