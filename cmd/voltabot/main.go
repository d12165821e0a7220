package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"voltabot/internal/bot"
	"voltabot/internal/catalog"
	"voltabot/internal/config"
	"voltabot/internal/conversation"
	"voltabot/internal/invoice"
	"voltabot/internal/server"
	"voltabot/internal/storage"
	"voltabot/internal/storage/memory"
	redisstore "voltabot/internal/storage/redis"
	"voltabot/pkg/logger"
	redisclient "voltabot/pkg/redis"

	"go.uber.org/zap"
)

func main() {
	migrate := flag.String("migrate", "", "run database migrations (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if *migrate != "" {
		if err := runMigrations(ctx, cfg, *migrate, zapLogger); err != nil {
			zapLogger.Fatal("Migration failed", zap.Error(err))
		}
		return
	}

	store, closeStore, err := newStore(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init session store",
			zap.String("backend", cfg.SessionBackend),
			zap.Error(err))
	}
	defer closeStore()

	botAPI, err := bot.NewAPI(cfg.TelegramToken, cfg.BotDebug, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	cat := catalog.Default()

	var invoices conversation.InvoiceRenderer
	if cfg.InvoiceEnabled {
		invoices = invoice.NewRenderer(cat, invoice.Shop{Name: cfg.ShopName, Contact: cfg.ShopContact}, cfg.InvoiceLogoPath, cfg.Location)
	}

	machine := conversation.New(
		cat,
		store,
		bot.NewSender(botAPI, cfg.MerchantChatID, zapLogger),
		invoices,
		conversation.Options{
			CollectContact:  cfg.CollectContact,
			InvoiceEnabled:  cfg.InvoiceEnabled,
			DeliveryTimeout: cfg.DeliveryTimeout,
			SupportHandle:   cfg.SupportHandle,
			BotUsername:     botAPI.Self.UserName,
		},
		zapLogger,
	)

	srv := server.New(cfg.HTTPAddr, cfg.MetricsEnabled)
	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.Start(); err != nil {
			zapLogger.Error("HTTP server stopped with error", zap.Error(err))
		}
	}()

	tgBot := bot.New(botAPI, machine, cfg.Workers, zapLogger)
	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Error("Bot stopped with error", zap.Error(err))
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Warn("HTTP server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}

func newStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (conversation.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := redisclient.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return redisstore.New(client, cfg.SessionTTL), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pg, err := storage.NewPostgresStorage(ctx, cfg.Database, cfg.SessionTTL, log)
		if err != nil {
			return nil, nil, err
		}
		if err := storage.RunMigrations(ctx, pg.DB(), log); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
		go pg.RunPurger(ctx, time.Hour)
		return pg, func() { _ = pg.Close() }, nil

	default:
		mem := memory.New(cfg.SessionTTL)
		go mem.Run(ctx, 10*time.Minute)
		return mem, func() {}, nil
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, command string, log *zap.Logger) error {
	pg, err := storage.NewPostgresStorage(ctx, cfg.Database, cfg.SessionTTL, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	switch command {
	case "up":
		return storage.RunMigrations(ctx, pg.DB(), log)
	case "down":
		return storage.RollbackMigration(ctx, pg.DB(), log)
	case "status":
		return storage.Status(ctx, pg.DB(), log)
	}
	return fmt.Errorf("unknown migrate command %q", command)
}
