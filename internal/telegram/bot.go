// Package telegram is the bot's transport layer: it turns Telegram updates
// into service calls and service results into Greek replies and keyboards.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/metropolitan-hq/attendance-bot/internal/config"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/location"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/pending"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/services"
)

// sender is the slice of the Telegram API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SheetStore is everything the bot needs from the spreadsheet client.
type SheetStore interface {
	services.RosterStore
	services.AttendanceStore
	services.ScheduleStore
}

// Registration conversation stages.
type regStage int

const (
	regAwaitName regStage = iota
	regAwaitPhone
)

type regFlow struct {
	stage regStage
	name  string
}

// Bot wires the Telegram API to the attendance services.
type Bot struct {
	api     sender
	cfg     *config.Config
	store   SheetStore
	pending pending.Store
	office  location.Office
	loc     *time.Location
	logger  *zap.Logger

	mu  sync.Mutex
	reg map[int64]*regFlow
}

// NewBot assembles a bot around an authenticated API client.
func NewBot(api *tgbotapi.BotAPI, cfg *config.Config, store SheetStore, pendingStore pending.Store, logger *zap.Logger) (*Bot, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	return &Bot{
		api:     api,
		cfg:     cfg,
		store:   store,
		pending: pendingStore,
		office: location.Office{
			Lat:     cfg.OfficeLat,
			Lon:     cfg.OfficeLon,
			RadiusM: cfg.OfficeRadiusM,
		},
		loc:    loc,
		logger: logger,
		reg:    make(map[int64]*regFlow),
	}, nil
}

func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}

// Run consumes updates by long polling until ctx is cancelled. Each update
// is handled on its own goroutine; the sheet holds all durable state, so
// handlers only need the pending store's mutex for coordination.
func (b *Bot) Run(ctx context.Context) error {
	api, ok := b.api.(*tgbotapi.BotAPI)
	if !ok {
		return fmt.Errorf("polling requires a live telegram api client")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	b.logger.Info("Bot polling for updates")

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// HandleWebhook accepts one Telegram update delivered over HTTP.
func (b *Bot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("Invalid webhook payload", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.handleUpdate(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}

// PendingCount exposes the pending store size for health reporting.
func (b *Bot) PendingCount() int {
	return b.pending.Count()
}

// StartSweeper expires abandoned pending actions in the background.
func (b *Bot) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := b.pending.Sweep(b.cfg.PendingTTL()); removed > 0 {
					b.logger.Info("Swept expired pending actions", zap.Int("removed", removed))
				}
			}
		}
	}()
}

func (b *Bot) regFlowFor(userID int64) *regFlow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reg[userID]
}

func (b *Bot) setRegFlow(userID int64, flow *regFlow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if flow == nil {
		delete(b.reg, userID)
		return
	}
	b.reg[userID] = flow
}
