package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/brieflyai/brieflyai/internal/ai"
	"github.com/brieflyai/brieflyai/internal/api"
	"github.com/brieflyai/brieflyai/internal/briefing"
	"github.com/brieflyai/brieflyai/internal/cache"
	"github.com/brieflyai/brieflyai/internal/config"
	"github.com/brieflyai/brieflyai/internal/logger"
	"github.com/brieflyai/brieflyai/internal/models"
	"github.com/brieflyai/brieflyai/internal/push"
	"github.com/brieflyai/brieflyai/internal/scheduler"
	"github.com/brieflyai/brieflyai/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	categories, err := config.LoadCategories(cfg.CategoryFile)
	if err != nil {
		log.Fatal("failed to load category config", zap.Error(err))
	}

	state := store.New(cfg.DataDir, store.Defaults{
		Preferences: models.UserPreferences{
			WebhookURL:        cfg.WebhookURL,
			BarkKey:           cfg.BarkKey,
			TelegramChatID:    cfg.TelegramChatID,
			EmailRecipient:    cfg.EmailRecipient,
			EmailJSServiceID:  cfg.EmailJSServiceID,
			EmailJSTemplateID: cfg.EmailJSTemplateID,
			EmailJSPublicKey:  cfg.EmailJSPublicKey,
			PushTime:          cfg.ScheduleTime,
			IsAutoPushEnabled: cfg.AutoPushEnabled,
		},
		Categories: categories,
	})

	reportCache := cache.New(cfg.DataDir, cfg.CacheTTL)

	telegramCh, err := push.NewTelegramChannel(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Fatal("failed to create telegram channel", zap.Error(err))
	}

	client := ai.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model, log)
	dist := push.NewDistributor(log, telegramCh)
	svc := briefing.NewService(log, client, reportCache, dist, state)

	if cfg.AutoPushEnabled {
		if !cfg.EmailConfigured() {
			log.Fatal("scheduler requires a complete email configuration; " +
				"set EMAIL_RECIPIENT, EMAILJS_SERVICE_ID, EMAILJS_TEMPLATE_ID and EMAILJS_PUBLIC_KEY")
		}

		switch cfg.SchedulerMode {
		case "poll":
			trigger := scheduler.NewDailyTrigger(log, svc.RunScheduled,
				func() bool { return state.Preferences().IsAutoPushEnabled },
				func() string { return state.Preferences().PushTime },
			)
			go trigger.Run(ctx)
			log.Info("daily poll trigger started", zap.String("pushTime", cfg.ScheduleTime))
		default:
			cronSched, err := scheduler.NewCronScheduler(cfg.Timezone, log)
			if err != nil {
				log.Fatal("failed to create cron scheduler", zap.Error(err))
			}
			if err := cronSched.Start(cfg.ScheduleTime, svc.RunScheduled); err != nil {
				log.Fatal("failed to start cron scheduler", zap.Error(err))
			}
			defer cronSched.Stop()
		}
	} else {
		log.Info("auto push disabled, running on-demand only")
	}

	srv := &api.Server{Log: log, Service: svc, AI: client, State: state}
	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: srv.Router(),
	}

	go func() {
		log.Info("BrieflyAI service listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
	log.Info("BrieflyAI service stopped gracefully")
}
