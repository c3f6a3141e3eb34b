package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// LotteryDrawWorker checks on a fixed interval whether the daily drawing is due
type LotteryDrawWorker struct {
	lottery       *Lottery
	checkInterval time.Duration
}

// NewLotteryDrawWorker creates a new lottery draw worker
func NewLotteryDrawWorker(lottery *Lottery, checkInterval time.Duration) *LotteryDrawWorker {
	return &LotteryDrawWorker{
		lottery:       lottery,
		checkInterval: checkInterval,
	}
}

// Start begins the lottery draw worker
func (w *LotteryDrawWorker) Start(ctx context.Context) func() {
	ticker := time.NewTicker(w.checkInterval)
	stopChan := make(chan struct{})

	go func() {
		log.WithField("checkInterval", w.checkInterval).Info("Lottery draw worker started")

		if state, err := w.lottery.EnsureScheduled(ctx); err != nil {
			log.WithError(err).Error("Failed to schedule lottery drawing")
		} else if state.NextDrawingAt != nil {
			log.WithField("nextDrawingAt", state.NextDrawingAt.UTC()).Info("Next lottery drawing")
		}

		// A drawing missed while the bot was down runs right away
		w.tick(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Lottery draw worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Lottery draw worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.tick(ctx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// tick runs one due check. Failures are logged and the schedule continues.
func (w *LotteryDrawWorker) tick(ctx context.Context) {
	if _, err := w.lottery.EnsureScheduled(ctx); err != nil {
		log.WithError(err).Error("Failed to schedule lottery drawing")
		return
	}

	drawing, err := w.lottery.ConductDrawing(ctx)
	if err != nil {
		log.WithError(err).Error("Lottery drawing failed, retrying at next check")
		return
	}
	if drawing == nil {
		return
	}

	log.WithFields(log.Fields{
		"drawingID": drawing.ID,
		"winners":   len(drawing.Winners),
		"totalPaid": drawing.TotalPaid,
		"potAfter":  drawing.PotAfter,
	}).Info("Lottery draw worker completed a drawing")
}
