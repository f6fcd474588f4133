package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/gatewarden/internal/cache"
	"github.com/dropDatabas3/gatewarden/internal/claims"
	"github.com/dropDatabas3/gatewarden/internal/config"
	"github.com/dropDatabas3/gatewarden/internal/email"
	httpx "github.com/dropDatabas3/gatewarden/internal/http"
	authctrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/auth"
	emailctrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/email"
	healthctrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/health"
	presencectrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/presence"
	securityctrl "github.com/dropDatabas3/gatewarden/internal/http/controllers/security"
	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/http/router"
	"github.com/dropDatabas3/gatewarden/internal/i18n"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	"github.com/dropDatabas3/gatewarden/internal/presence"
	"github.com/dropDatabas3/gatewarden/internal/realtime"
	"github.com/dropDatabas3/gatewarden/internal/security/csrf"
	"github.com/dropDatabas3/gatewarden/internal/store"
	"github.com/dropDatabas3/gatewarden/internal/store/pg"
	"github.com/prometheus/client_golang/prometheus"
)

var version = "dev"

func main() {
	// .env si existe; las env vars del sistema siguen teniendo prioridad.
	_ = godotenv.Load()

	var cfgPath string

	root := &cobra.Command{
		Use:   "gatewarden",
		Short: "Capa de verificación de identidad y seguridad cross-transporte",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "Ruta del archivo de configuración")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP + websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgPath)
		},
	}
	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runServe(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "gatewarden",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()

	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Cache compartido ───
	cacheClient, err := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.MustDuration(cfg.Cache.Memory.DefaultTTL),
	})
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer func() { _ = cacheClient.Close() }()

	// ─── Claims: issuer + verifier ───
	issuer, err := buildIssuer(cfg)
	if err != nil {
		return fmt.Errorf("init issuer: %w", err)
	}
	verifier := claims.NewVerifier(issuer.PublicKey(), cfg.JWT.Issuer)

	// ─── Store de usuarios ───
	users, cleanup, err := buildUserStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer cleanup()

	// ─── Componentes de seguridad ───
	guard := csrf.NewGuard(cacheClient, config.MustDuration(cfg.Auth.CSRF.TokenTTL))
	registry := presence.NewRegistry(cacheClient)

	// ─── Email ───
	relay := email.NewSMTPRelay(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	if cfg.SMTP.TLS != "" {
		relay.TLSMode = cfg.SMTP.TLS
	}
	relay.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify

	tokens, err := email.NewTokenService(email.TokenServiceConfig{
		Issuer:    issuer,
		BaseURL:   cfg.Email.BaseURL,
		VerifyTTL: config.MustDuration(cfg.Auth.Verify.TTL),
		ResetTTL:  config.MustDuration(cfg.Auth.Reset.TTL),
	})
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}

	renderer, err := email.NewRenderer(email.RendererConfig{})
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	flows := email.NewFlows(tokens, renderer, email.NewDispatcher(relay))

	// ─── i18n ───
	httperrors.UseCatalog(i18n.NewCatalog(cfg.Email.DefaultLang))

	// ─── Métricas ───
	metricsHandler, err := httpx.RegisterMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	// ─── Gateway websocket ───
	gateway := realtime.NewGateway(verifier, registry, realtime.Config{
		OriginRequired: cfg.WS.OriginRequired,
		AllowedOrigins: cfg.WS.AllowedOrigins,
		SendQueueSize:  cfg.WS.SendQueueSize,
		WriteTimeout:   config.MustDuration(cfg.WS.WriteTimeout),
		ReadIdle:       config.MustDuration(cfg.WS.ReadIdle),
		HeartbeatEvery: config.MustDuration(cfg.WS.HeartbeatEvery),
	})

	// ─── Router ───
	handler := router.New(router.Deps{
		Verifier:       verifier,
		Guard:          guard,
		CSRFHeaderName: cfg.Auth.CSRF.HeaderName,

		Auth:     authctrl.NewControllers(users, issuer, guard),
		Email:    emailctrl.NewControllers(flows, users, verifier),
		Security: securityctrl.NewControllers(guard),
		Presence: presencectrl.NewControllers(registry),
		Health:   healthctrl.NewHealthController(cacheClient, relay, version),

		MetricsHandler: metricsHandler,
		WSHandler:      gateway,
	})

	log.Info("gatewarden starting",
		logger.String("env", cfg.App.Env),
		logger.String("addr", cfg.Server.Addr),
		logger.String("cache", cfg.Cache.Kind),
	)

	return httpx.Serve(ctx, httpx.ServerConfig{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: config.MustDuration(cfg.Server.ShutdownTimeout),
	}, handler)
}

// buildIssuer arma el issuer de claims desde GATEWARDEN_SIGNING_SEED
// (32 bytes hex). Sin seed configurada genera una clave efímera: los tokens
// no sobreviven reinicios, suficiente para dev.
func buildIssuer(cfg *config.Config) (*claims.Issuer, error) {
	sessionTTL := config.MustDuration(cfg.JWT.SessionTTL)

	seedHex := os.Getenv("GATEWARDEN_SIGNING_SEED")
	if seedHex == "" {
		logger.L().Warn("no signing seed configured, using ephemeral key")
		return claims.NewEphemeralIssuer(cfg.JWT.Issuer, sessionTTL)
	}

	seed, err := hex.DecodeString(seedHex)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("GATEWARDEN_SIGNING_SEED debe ser %d bytes hex", ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return claims.NewIssuer(cfg.JWT.Issuer, priv, sessionTTL), nil
}

// buildUserStore abre el repositorio de usuarios según el driver configurado.
func buildUserStore(ctx context.Context, cfg *config.Config) (store.UserRepository, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		var lifetime = cfg.Storage.Postgres.ConnMaxLifetime
		pgCfg := pg.Config{DSN: cfg.Storage.DSN, MaxConns: int32(cfg.Storage.Postgres.MaxOpenConns)}
		if lifetime != "" {
			pgCfg.ConnMaxLifetime = config.MustDuration(lifetime)
		}
		s, err := pg.Open(ctx, pgCfg)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		logger.L().Warn("using in-memory user store, accounts do not persist")
		return store.NewMemoryRepository(), func() {}, nil
	}
}
