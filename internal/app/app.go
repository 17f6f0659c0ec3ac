package app

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/vip-store/config"
	"github.com/niksmo/vip-store/internal/adapter"
	"github.com/niksmo/vip-store/internal/adapter/httphandler"
	"github.com/niksmo/vip-store/internal/adapter/kafka"
	"github.com/niksmo/vip-store/internal/adapter/ratelimit"
	"github.com/niksmo/vip-store/internal/adapter/token"
	"github.com/niksmo/vip-store/internal/adapter/uploads"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
	"github.com/niksmo/vip-store/internal/core/service"
	"github.com/niksmo/vip-store/pkg/schema"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/sr"
)

type coreService struct {
	orders   service.OrderService
	products service.ProductService
	auth     service.AuthService
}

type App struct {
	ctx         context.Context
	cfg         config.Config
	storage     Storage
	screenshots uploads.LocalStore
	events      *kafka.OrderEventsProducer
	redis       *redis.Client
	limiter     port.LoginLimiter
	service     coreService
	httpServer  httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	InitLogger(app.cfg.LogLevel)
}

// InitLogger installs the JSON stderr logger as the slog default.
func InitLogger(level slog.Leveler) {
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	storage, err := OpenStorage(app.ctx, app.cfg)
	if err != nil {
		app.fallDown(op, err)
	}
	app.storage = storage

	screenshots, err := uploads.NewLocalStore(app.cfg.Uploads.Dir, app.cfg.Uploads.MaxBytes)
	if err != nil {
		app.fallDown(op, err)
	}
	app.screenshots = screenshots

	app.initOrderEvents()
	app.initLoginLimiter()
}

func (app *App) initOrderEvents() {
	const op = "App.initOrderEvents"
	log := slog.With("op", op)

	bcfg := app.cfg.Broker
	if len(bcfg.SeedBrokers) == 0 {
		log.Info("order events are disabled")
		return
	}

	tlsConfig, err := BrokerTLSConfig(app.cfg)
	if err != nil {
		app.fallDown(op, err)
	}

	srClient, err := sr.NewClient(sr.URLs(bcfg.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeOrderStatusChangedV1(
		app.ctx,
		schema.SubjectOpt(bcfg.OrderEventsTopic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewRegistrar(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewOrderEventsProducer(
		kafka.ProducerClientOpt(app.ctx, bcfg.SeedBrokers, bcfg.OrderEventsTopic, tlsConfig),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.events = &producer
	log.Info("order events are enabled", "topic", bcfg.OrderEventsTopic)
}

func (app *App) initLoginLimiter() {
	const op = "App.initLoginLimiter"
	log := slog.With("op", op)

	rcfg := app.cfg.Redis
	if rcfg.Addr == "" {
		log.Info("login throttle is disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rcfg.Addr,
		Password: rcfg.Password,
		DB:       rcfg.DB,
	})
	if err := client.Ping(app.ctx).Err(); err != nil {
		log.Warn("redis is unavailable, login throttle fails open", "err", err)
	}

	app.redis = client
	app.limiter = ratelimit.NewRedisLimiter(
		client, app.cfg.Auth.LoginLimit, app.cfg.Auth.LoginWindow,
	)
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	policy, err := domain.ParseTransitionPolicy(app.cfg.Orders.TransitionPolicy)
	if err != nil {
		app.fallDown(op, err)
	}

	var events port.OrderEventsProducer
	if app.events != nil {
		events = app.events
	}

	app.service.orders = service.NewOrderService(
		app.storage,
		events,
		service.OrderServiceConfig{
			Policy:      policy,
			VerifyTotal: app.cfg.Orders.VerifyTotal,
		},
	)
	app.service.products = service.NewProductService(app.storage)

	secrets, err := ResolveAdminSecrets(app.cfg)
	if err != nil {
		app.fallDown(op, err)
	}

	issuer, err := token.NewJWTIssuer(secrets.JWTSecret, app.cfg.Auth.TokenTTL)
	if err != nil {
		app.fallDown(op, err)
	}

	auth, err := service.NewAuthService(service.AuthConfig{
		AdminUsername:     app.cfg.Auth.AdminUsername,
		AdminPasswordHash: secrets.PasswordHash,
	}, issuer)
	if err != nil {
		app.fallDown(op, err)
	}
	app.service.auth = auth
}

func (app *App) initInboundAdapters() {
	router := httphandler.NewRouter(httphandler.RouterDeps{
		Orders: httphandler.NewOrdersHandler(
			app.service.orders,
			app.service.orders,
			app.screenshots,
			app.cfg.Uploads.MaxBytes,
		),
		Products: httphandler.NewProductsHandler(
			app.service.products, app.service.products,
		),
		Auth:        httphandler.NewAuthHandler(app.service.auth),
		Health:      httphandler.NewHealthHandler(app.storage),
		Admin:       app.service.auth,
		Limiter:     app.limiter,
		UploadsDir:  app.screenshots.Dir(),
		CORSOrigins: app.cfg.HTTP.CORSOrigins,
	})

	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTP.Addr, router, app.cfg.HTTP.RequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.events != nil {
		app.events.Close()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			slog.Error("failed to close redis client", "err", err)
		}
	}
	app.storage.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}

// BrokerTLSConfig returns nil when no broker CA is configured.
func BrokerTLSConfig(cfg config.Config) (*tls.Config, error) {
	t := cfg.Broker.TLS
	if t.CA == "" {
		return nil, nil
	}
	return adapter.MakeTLSConfig(t.CA, t.Cert, t.Key)
}

// AdminSecrets are the credentials the auth service runs with.
type AdminSecrets struct {
	PasswordHash string
	JWTSecret    []byte
}

// ResolveAdminSecrets takes the configured secrets. Outside production a
// missing password is generated and logged once, and a missing signing key
// is replaced by a random one living until the process exits.
func ResolveAdminSecrets(cfg config.Config) (AdminSecrets, error) {
	const op = "ResolveAdminSecrets"
	log := slog.With("op", op)

	secrets := AdminSecrets{
		PasswordHash: cfg.Auth.AdminPasswordHash,
		JWTSecret:    []byte(cfg.Auth.JWTSecret),
	}

	if secrets.PasswordHash == "" {
		if cfg.IsProduction() {
			return AdminSecrets{}, fmt.Errorf("%s: admin password hash is required", op)
		}
		password, err := service.GeneratePassword()
		if err != nil {
			return AdminSecrets{}, fmt.Errorf("%s: %w", op, err)
		}
		hash, err := service.HashPassword(password)
		if err != nil {
			return AdminSecrets{}, fmt.Errorf("%s: %w", op, err)
		}
		secrets.PasswordHash = hash
		log.Warn(
			"admin password is not configured, generated one for this run",
			"username", cfg.Auth.AdminUsername,
			"password", password,
		)
	}

	if len(secrets.JWTSecret) == 0 {
		if cfg.IsProduction() {
			return AdminSecrets{}, fmt.Errorf("%s: jwt secret is required", op)
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return AdminSecrets{}, fmt.Errorf("%s: %w", op, err)
		}
		secrets.JWTSecret = key
		log.Warn("jwt secret is not configured, tokens will not survive a restart")
	}

	return secrets, nil
}
