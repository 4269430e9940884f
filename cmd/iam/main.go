package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/warebase/warebase/internal/config"
	"github.com/warebase/warebase/internal/infra/database"
	"github.com/warebase/warebase/internal/infra/repository"
	"github.com/warebase/warebase/internal/observability"
	"github.com/warebase/warebase/internal/present/rest"
	authmiddleware "github.com/warebase/warebase/internal/present/rest/middleware"
	"github.com/warebase/warebase/internal/service"
	"github.com/warebase/warebase/internal/usecase"
)

func main() {
	configPath := os.Getenv("WAREBASE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	conf, err := config.Load(configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if conf.Server.EnableTrace {
		shutdown, err := observability.SetupTracing(context.Background(), "warebase-iam", conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer shutdown(context.Background())
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigrateIAM(db)
	if err != nil {
		panic("failed to migrate database")
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	hasher := service.NewPasswordHasher()
	issuer := service.NewTokenIssuer(tokenRepo)
	authService := service.NewAuthService(tokenRepo, userRepo)

	account := usecase.NewAccountUsecase(userRepo, issuer, hasher)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(otelecho.Middleware("warebase-iam"))

	auth := authmiddleware.NewAuthMiddleware(authService, conf.Auth.Scheme)
	handler := rest.NewIAMHandler(conf, account)
	handler.RegisterRoutes(e, auth)

	e.Logger.Fatal(e.Start(conf.Listen))
}
