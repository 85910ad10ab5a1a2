// README: Entry point; loads config, wires services, runs the Telegram bot and the admin API.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taxiwatch/internal/bot"
	"taxiwatch/internal/config"
	httptransport "taxiwatch/internal/http"
	"taxiwatch/internal/infra"
	"taxiwatch/internal/maps"
	"taxiwatch/internal/modules/conversation"
	"taxiwatch/internal/modules/pricing"
	"taxiwatch/internal/modules/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logCloser := infra.SetupLogger(cfg.Log.File, cfg.Log.Debug)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		log.Fatal(err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	var (
		recorder watch.QuoteRecorder
		apiDeps  httptransport.ServerDeps
	)
	if dbPool != nil {
		defer dbPool.Close()
		quoteStore := pricing.NewStore(dbPool)
		if err := quoteStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("quote history schema: %v", err)
		}
		recorder = quoteStore
		apiDeps.Quotes = quoteStore
	}

	geocoder, err := newGeocoder(cfg)
	if err != nil {
		log.Fatal(err)
	}
	geocoder = maps.NewCachedGeocoder(geocoder, redisClient)

	pricingSvc := pricing.NewService(pricing.Options{
		ClientID:  cfg.Taxi.ClientID,
		APIKey:    cfg.Taxi.APIKey,
		Class:     cfg.Taxi.Class,
		RateLimit: cfg.Taxi.RateLimit,
	})

	api, err := bot.NewAPI(cfg.Telegram.Token, cfg.Telegram.Debug)
	if err != nil {
		log.Fatal(err)
	}
	tgBot := bot.New(api, nil)

	watchSvc := watch.NewService(pricingSvc, tgBot, recorder, cfg.Watch)
	defer watchSvc.Stop()

	tgBot.SetDialog(conversation.NewService(geocoder, watchSvc))

	if cfg.HTTP.Addr != "" {
		apiDeps.Watches = watchSvc
		apiDeps.AdminToken = cfg.HTTP.AdminToken
		server := httptransport.NewServer(apiDeps)
		go func() {
			if err := server.ListenAndServe(ctx, cfg.HTTP.Addr); err != nil {
				slog.Error("admin api stopped", "err", err)
			}
		}()
	}

	slog.Info("taxiwatch started", "geocoder", cfg.Geocoder.Provider, "poll_interval", cfg.Watch.Interval)
	if err := tgBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("bot loop stopped", "err", err)
	}
	slog.Info("shutting down")
}

func newGeocoder(cfg config.Config) (maps.Geocoder, error) {
	if cfg.Geocoder.Provider == config.GeocoderGoogle {
		g, err := maps.NewGoogleGeocoder(cfg.Geocoder.GoogleMapsKey)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return maps.NewYandexGeocoder(cfg.Geocoder.YandexKey), nil
}
