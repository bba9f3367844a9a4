package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/vieclam/jobportal/internal/auth"
	"github.com/vieclam/jobportal/internal/bot"
	"github.com/vieclam/jobportal/internal/clients/jobportal"
	"github.com/vieclam/jobportal/internal/config"
	"github.com/vieclam/jobportal/internal/logger"
	"github.com/vieclam/jobportal/internal/metrics"
	"github.com/vieclam/jobportal/internal/repositories"
	"github.com/vieclam/jobportal/internal/services"
)

func newPortalClient(cfg config.APIConfig) *jobportal.Client {
	client := jobportal.NewClient(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout)
	client.SetRateLimit(cfg.MaxRequestsPerSecond)
	return client
}

func runBot(cfg *config.Config, client *jobportal.Client, data *repositories.Data,
	sessions *repositories.Sessions, bus EventBus.Bus) *bot.Bot {

	catalog := services.NewCachedCatalog(client, cfg.API.CatalogCacheTTL)
	onboarding := services.NewEmployerOnboarding(data, bus)
	pending := auth.NewPendingVerifications(cfg.API.PendingVerificationTTL)

	tgbot, err := bot.NewBot(cfg.Bot.Token, client, bus,
		bot.Repositories{Data: data, Sessions: sessions},
		bot.Services{Catalog: catalog, Onboarding: onboarding, Pending: pending})
	if err != nil {
		log.Fatalf("can't create bot: %v", err)
	}
	go tgbot.Run()
	return tgbot
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Port)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	data := repositories.NewDataRepository(dbContext.DB)
	sessions := repositories.NewSessionRepository(dbContext.DB)

	cleaner, err := services.NewDraftsCleaner(data, services.DraftKeyPrefix, cfg.Bot.DraftsExpirationDays)
	if err != nil {
		log.Fatalf("can't create drafts cleaner: %v", err)
	}
	defer cleaner.Stop()

	bus := EventBus.New()
	tgbot := runBot(cfg, newPortalClient(cfg.API), data, sessions, bus)

	<-ctx.Done()

	log.Info("Shutting down services...")
	tgbot.Stop()
	log.Info("Services stopped.")
}
