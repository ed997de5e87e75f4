package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/clubhub/internal/buildinfo"
	"github.com/dmitrijs2005/clubhub/internal/client/auth"
	"github.com/dmitrijs2005/clubhub/internal/client/browse"
	"github.com/dmitrijs2005/clubhub/internal/client/cli"
	"github.com/dmitrijs2005/clubhub/internal/client/client"
	"github.com/dmitrijs2005/clubhub/internal/client/config"
	"github.com/dmitrijs2005/clubhub/internal/client/loading"
	"github.com/dmitrijs2005/clubhub/internal/client/session"
	"github.com/dmitrijs2005/clubhub/internal/client/storage"
	"github.com/dmitrijs2005/clubhub/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	db, err := storage.Open(ctx, cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	store := session.NewStore(db)

	var controller *auth.Controller
	api := client.NewHTTPClient(store, client.Options{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         logger,
		OnUnauthorized: func(ctx context.Context) { controller.HandleUnauthorized(ctx) },
	})
	controller = auth.NewController(store, api, logger)

	app := cli.NewApp(cli.Deps{
		Config:    cfg,
		API:       api,
		Auth:      controller,
		Navigator: browse.New(api, logger),
		Loading:   loading.New(),
		Prefs:     store,
		Logger:    logger,
	})

	app.Run(ctx)

}
