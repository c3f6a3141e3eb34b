package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"herocraft/application"
	"herocraft/domain/interfaces"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// WheelStatusSource reports the live wheel state
type WheelStatusSource interface {
	CurrentPhase() application.WheelPhaseView
	LastResult() *application.WheelResult
}

// LotteryStatusSource reports the pending drawing
type LotteryStatusSource interface {
	Status(ctx context.Context) (*interfaces.LotteryStatus, error)
}

// BalanceSource reads account balances
type BalanceSource interface {
	GetBalance(ctx context.Context, accountID int64) (int64, error)
}

type wheelStatusResponse struct {
	Phase            string          `json:"phase"`
	Cycle            int64           `json:"cycle"`
	NextResolutionAt *time.Time      `json:"next_resolution_at,omitempty"`
	PendingBets      int             `json:"pending_bets"`
	TotalStaked      int64           `json:"total_staked"`
	LastResult       *wheelLastDrawn `json:"last_result,omitempty"`
}

type wheelLastDrawn struct {
	Cycle     int64     `json:"cycle"`
	Outcome   string    `json:"outcome"`
	Winners   int       `json:"winners"`
	TotalPaid int64     `json:"total_paid"`
	SettledAt time.Time `json:"settled_at"`
}

type lotteryStatusResponse struct {
	Pot           int64      `json:"pot"`
	NextDrawingAt *time.Time `json:"next_drawing_at"`
	Participants  int        `json:"participants"`
	Tickets       int        `json:"tickets"`
	TicketPrice   int64      `json:"ticket_price"`
}

type balanceResponse struct {
	AccountID int64 `json:"account_id"`
	Balance   int64 `json:"balance"`
}

// NewStatusRouter builds the read-only status API
func NewStatusRouter(wheel WheelStatusSource, lottery LotteryStatusSource, balances BalanceSource) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/wheel", func(w http.ResponseWriter, r *http.Request) {
		view := wheel.CurrentPhase()
		resp := wheelStatusResponse{
			Phase:       string(view.Phase),
			Cycle:       view.Cycle,
			PendingBets: view.PendingBets,
			TotalStaked: view.TotalStaked,
		}
		if !view.NextResolutionAt.IsZero() {
			next := view.NextResolutionAt.UTC()
			resp.NextResolutionAt = &next
		}
		if last := wheel.LastResult(); last != nil && last.Settlement != nil {
			resp.LastResult = &wheelLastDrawn{
				Cycle:     last.Settlement.Cycle,
				Outcome:   last.Settlement.Outcome,
				Winners:   len(last.Settlement.Winners),
				TotalPaid: last.Settlement.TotalPaid,
				SettledAt: last.Settlement.SettledAt.UTC(),
			}
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/lottery", func(w http.ResponseWriter, r *http.Request) {
		status, err := lottery.Status(r.Context())
		if err != nil {
			log.WithError(err).Error("Status API failed to read lottery")
			writeError(w, http.StatusInternalServerError, "lottery status unavailable")
			return
		}
		writeJSON(w, http.StatusOK, lotteryStatusResponse{
			Pot:           status.Pot,
			NextDrawingAt: status.NextDrawingAt,
			Participants:  status.Participants,
			Tickets:       status.Tickets,
			TicketPrice:   status.TicketPrice,
		})
	})

	r.Get("/accounts/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
		accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || accountID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid account id")
			return
		}
		balance, err := balances.GetBalance(r.Context(), accountID)
		if err != nil {
			log.WithError(err).WithField("accountID", accountID).Error("Status API failed to read balance")
			writeError(w, http.StatusInternalServerError, "balance unavailable")
			return
		}
		writeJSON(w, http.StatusOK, balanceResponse{AccountID: accountID, Balance: balance})
	})

	return r
}

// StartStatusAPI serves handler on localhost:port in the background.
// The returned server is shut down by the caller.
func StartStatusAPI(port int, handler http.Handler) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("Status API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Status API server error: %v", err)
		}
	}()

	return server
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode status API response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
