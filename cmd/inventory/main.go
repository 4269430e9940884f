package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/warebase/warebase/client"
	"github.com/warebase/warebase/internal/config"
	"github.com/warebase/warebase/internal/infra/database"
	"github.com/warebase/warebase/internal/infra/repository"
	"github.com/warebase/warebase/internal/observability"
	"github.com/warebase/warebase/internal/present/rest"
	authmiddleware "github.com/warebase/warebase/internal/present/rest/middleware"
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
		shutdown, err := observability.SetupTracing(context.Background(), "warebase-inventory", conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer shutdown(context.Background())
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigrateInventory(db)
	if err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	itemRepo := repository.NewItemRepository(db, mc)
	searchRepo := repository.NewSearchIndexRepository(rdb, conf.Search.IndexPrefix)

	items := usecase.NewItemUsecase(itemRepo, searchRepo)

	iam := client.New(conf.IAM.Endpoint)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(otelecho.Middleware("warebase-inventory"))

	auth := authmiddleware.NewAuthMiddleware(iam, conf.Auth.Scheme)
	handler := rest.NewInventoryHandler(items)
	handler.RegisterRoutes(e, auth)

	e.Logger.Fatal(e.Start(conf.Listen))
}
