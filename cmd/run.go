package cmd

import (
	"context"
	"fmt"
	"time"

	"herocraft/application"
	"herocraft/bot"
	"herocraft/config"
	"herocraft/database"
	"herocraft/domain/utils"
	"herocraft/infrastructure"
	"herocraft/infrastructure/lock"
	"herocraft/infrastructure/observability"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.Info("Starting herocraft bot...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database connection established successfully")

	// Metrics and NATS come up concurrently
	var natsClient *infrastructure.NATSClient
	startup, startupCtx := errgroup.WithContext(ctx)
	startup.Go(func() error {
		if err := observability.InitializeGlobalMetrics(startupCtx, cfg); err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		return nil
	})
	startup.Go(func() error {
		if cfg.NATSServers == "" {
			log.Info("NATS_SERVERS not set, events are dispatched locally only")
			return nil
		}
		connectCtx, cancel := context.WithTimeout(startupCtx, 10*time.Second)
		defer cancel()
		client := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := client.Connect(connectCtx); err != nil {
			return err
		}
		natsClient = client
		return nil
	})
	if err := startup.Wait(); err != nil {
		if natsClient != nil {
			natsClient.Close()
		}
		return err
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure event stream: %w", err)
	}
	application.RegisterApplicationSubscriptions(publisher)

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)

	clock := utils.RealClock{}
	rng := utils.CryptoRandom{}

	voiceChannels, err := voiceChannelRewards(cfg.Rewards.VoiceChannels)
	if err != nil {
		return err
	}

	ledger := application.NewLedger(uowFactory, lock.New(), clock)
	rideTheBus := application.NewRideTheBusEngine(ledger, publisher, rng, clock, rideTheBusRules(cfg.RideTheBus))
	wheel := application.NewWheelEngine(ledger, rng, clock, wheelRules(cfg.Wheel))
	lottery := application.NewLottery(ledger, rng, clock, lotteryRules(cfg.Lottery))
	rewards := application.NewRewards(ledger, clock, rewardRules(cfg.Rewards))

	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(ctx, botConfig(cfg, voiceChannels), bot.Services{
		Ledger:     ledger,
		RideTheBus: rideTheBus,
		Wheel:      wheel,
		Lottery:    lottery,
		Rewards:    rewards,
		Clock:      clock,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	bot.RegisterBotSubscriptions(publisher, discordBot)

	if err := discordBot.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	stopLottery := application.NewLotteryDrawWorker(lottery, cfg.Lottery.CheckInterval).Start(ctx)
	stopVoice := application.NewVoiceRewardWorker(rewards, discordBot.VoicePresence(), clock, voiceChannels).Start(ctx)
	if cfg.Wheel.AutoStart {
		wheel.Start(ctx)
	}
	log.Info("Background workers started")

	var statusAPI interface{ Shutdown(context.Context) error }
	if cfg.StatusAPIPort > 0 {
		statusAPI = bot.StartStatusAPI(cfg.StatusAPIPort, bot.NewStatusRouter(wheel, lottery, ledger))
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop taking interactions before the engines settle and refund
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	var shutdown errgroup.Group
	shutdown.Go(func() error {
		wheel.Stop()
		return nil
	})
	shutdown.Go(func() error {
		rideTheBus.Shutdown(shutdownCtx)
		return nil
	})
	shutdown.Go(func() error {
		stopLottery()
		stopVoice()
		return nil
	})
	if statusAPI != nil {
		shutdown.Go(func() error {
			return statusAPI.Shutdown(shutdownCtx)
		})
	}
	if err := shutdown.Wait(); err != nil {
		log.WithError(err).Warn("Error during shutdown")
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS connection")
		}
	}
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics")
	}

	log.Info("Shutdown completed")
	return nil
}
