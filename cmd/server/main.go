package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/univlive/platform/api"
	"github.com/univlive/platform/pkg/authz"
	"github.com/univlive/platform/pkg/billing"
	"github.com/univlive/platform/pkg/config"
	"github.com/univlive/platform/pkg/httpserver"
	"github.com/univlive/platform/pkg/identity"
	"github.com/univlive/platform/pkg/imagekit"
	"github.com/univlive/platform/pkg/insights"
	"github.com/univlive/platform/pkg/logger"
	"github.com/univlive/platform/pkg/mongo"
	"github.com/univlive/platform/pkg/profile"
	"github.com/univlive/platform/pkg/redis"
	"github.com/univlive/platform/pkg/tenant"
)

type appConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"platform-api"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
}

func main() {
	ctx := context.Background()

	var (
		appCfg   appConfig
		apiCfg   api.Config
		httpCfg  httpserver.Config
		mongoCfg mongo.Config
		redisCfg redis.Config
		idCfg    identity.Config
		billCfg  billing.Config
		ikCfg    imagekit.Config
		modelCfg insights.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&apiCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&idCfg)
	config.MustLoad(&billCfg)
	config.MustLoad(&ikCfg)
	config.MustLoad(&modelCfg)

	var level slog.Level
	if err := level.UnmarshalText([]byte(appCfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := logger.New(
		logger.WithService(appCfg.ServiceName),
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(appCfg.LogFormat)),
		logger.WithContextExtractors(
			tenant.LoggerExtractor(),
			authz.LoggerExtractor(),
		),
	)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg, mongoCfg.Database)
	if err != nil {
		log.ErrorContext(ctx, "mongo connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.ErrorContext(ctx, "redis connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	verifier, err := identity.NewTokenVerifier(idCfg)
	if err != nil {
		log.ErrorContext(ctx, "identity verifier init failed", logger.Error(err))
		os.Exit(1)
	}

	gate := authz.NewGate(verifier, profile.NewMongoStore(db))

	manager := billing.NewManager(
		billing.NewRazorpayProvider(billCfg.KeyID, billCfg.KeySecret),
		billing.NewMongoStore(db),
		billing.NewCatalog(billCfg.PlanIDs()),
		billCfg.KeyID,
		billCfg.TrialPeriod,
		billCfg.TotalBillingCycles,
	)

	router := api.NewRouter(apiCfg, api.Deps{
		Log:         log,
		Gate:        gate,
		Billing:     manager,
		Signer:      imagekit.NewSigner(ikCfg.PrivateKey, ikCfg.TokenTTL),
		Analyzer:    insights.NewAnalyzer(insights.NewClient(modelCfg)),
		Resolver:    tenant.NewHostResolver(apiCfg.BaseDomain),
		Tenants:     tenant.NewMongoProvider(db),
		TenantCache: tenant.NewRedisCache(redisClient),
		Healthchecks: []func(context.Context) error{
			mongo.Healthcheck(db.Client()),
			redis.Healthcheck(redisClient),
		},
	})

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, router); err != nil {
		log.ErrorContext(ctx, "http server failed", logger.Error(err))
		os.Exit(1)
	}
}
