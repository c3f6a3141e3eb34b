package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"herocraft/application"
	"herocraft/cmd"
	"herocraft/config"
	"herocraft/database"
	"herocraft/domain/entities"
	"herocraft/domain/utils"
	"herocraft/infrastructure"
	"herocraft/infrastructure/lock"

	log "github.com/sirupsen/logrus"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error: ", err)
		}
		return
	}

	// Check for balance adjustment subcommands
	if len(os.Args) > 1 && os.Args[1] == "update-balance" {
		if err := handleBalanceAdjustment(); err != nil {
			log.Fatal("Balance adjustment error: ", err)
		}
		return
	}

	// Normal bot operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: herocraft migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleBalanceAdjustment sets an account to an exact balance, recording the
// difference as an adjustment. Events are not published.
func handleBalanceAdjustment() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: herocraft update-balance <account-id> <balance>")
	}
	accountID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid account id %q: %w", os.Args[2], err)
	}
	target, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil || target < 0 {
		return fmt.Errorf("invalid balance %q", os.Args[3])
	}

	ctx := context.Background()
	cfg := config.Get()
	cmd.ConfigureLogging(cfg)

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	ledger := application.NewLedger(uowFactory, lock.New(), utils.RealClock{})

	var before, after int64
	err = ledger.WithAccounts(ctx, []int64{accountID}, func(tx *application.LedgerTx) error {
		var txErr error
		before, txErr = tx.Ledger.GetBalance(ctx, accountID)
		if txErr != nil {
			return txErr
		}
		after, txErr = tx.Ledger.Adjust(ctx, accountID, target-before, entities.TransactionTypeAdjustment, map[string]any{
			"admin": "true",
		})
		return txErr
	})
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"before":    before,
		"after":     after,
	}).Info("Balance updated")
	return nil
}
