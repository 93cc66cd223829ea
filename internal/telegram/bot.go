package telegram

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"recipe-finder/internal/app"
	"recipe-finder/internal/config"
	"recipe-finder/internal/shopping/editing"
)

// Bot serves the app over a Telegram webhook.
type Bot struct {
	api    *tgbotapi.BotAPI
	app    *app.App
	cfg    *config.Config
	logger *zap.Logger

	edits *editing.Session
	mu    sync.Mutex
	// item id each chat is editing
	pendingEdits map[int64]string
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, a *app.App, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse webhook url: %w", err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("response", resp.Description))

	b := newBot(cfg, a, logger)
	b.api = api
	return b, nil
}

func newBot(cfg *config.Config, a *app.App, logger *zap.Logger) *Bot {
	return &Bot{
		app:          a,
		cfg:          cfg,
		logger:       logger,
		edits:        editing.NewSession(a.Shopping()),
		pendingEdits: make(map[int64]string),
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("failed to parse update", zap.Error(err))
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.cfg.IsAllowedUser(update.Message.From.ID) {
		b.logger.Warn("unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName),
		)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	reply := b.handleCommand(msg.Chat.ID, msg.Text)
	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply.text)); err != nil {
		b.logger.Error("failed to send reply", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		return
	}

	if reply.attachXLSX {
		b.sendSpreadsheet(msg.Chat.ID)
	}
}

func (b *Bot) sendSpreadsheet(chatID int64) {
	var buf bytes.Buffer
	if err := b.app.Shopping().ExportXLSX(&buf); err != nil {
		b.logger.Error("failed to export shopping list", zap.Error(err))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "shopping-list.xlsx", Bytes: buf.Bytes()})
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("failed to send spreadsheet", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
