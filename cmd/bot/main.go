package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metropolitan-hq/attendance-bot/internal/config"
	"github.com/metropolitan-hq/attendance-bot/internal/server"
	"github.com/metropolitan-hq/attendance-bot/internal/telegram"
	"github.com/metropolitan-hq/attendance-bot/pkg/clients/sheetsclient"
	"github.com/metropolitan-hq/attendance-bot/pkg/core/pending"
	"github.com/metropolitan-hq/attendance-bot/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg          *config.Config
	api          *tgbotapi.BotAPI
	sheetsClient *sheetsclient.Client
	logger       *zap.Logger
	ctx          context.Context
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:   "bot",
		Short: "Attendance bot - geofenced check-in over Telegram and Google Sheets",
		Long:  `A Telegram bot that records worker check-ins and check-outs against an office geofence, with schedules and attendance kept in Google Sheets.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(resetWebhookCmd())
	rootCmd.AddCommand(officeQRCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and clients
func initApp(component string) error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(component)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("command", component))

	app.logger.Info("Loading configuration")
	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.logger.Info("Initializing sheets client")
	credentials, err := sheetsclient.LoadCredentials(app.cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	app.sheetsClient, err = sheetsclient.NewClient(app.ctx, credentials, app.cfg.SpreadsheetID, app.cfg.SheetsTimeout())
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.logger.Debug("Sheets client initialized successfully")

	app.logger.Info("Initializing telegram client")
	app.api, err = tgbotapi.NewBotAPI(app.cfg.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create telegram client: %w", err)
	}
	app.logger.Info("Telegram client authorized", zap.String("username", app.api.Self.UserName))

	return nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the bot (webhook mode when webhookURL is set, long polling otherwise)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			bot, err := telegram.NewBot(app.api, app.cfg, app.sheetsClient, pending.NewMemoryStore(), app.logger)
			if err != nil {
				return err
			}
			bot.StartSweeper(ctx)

			srv := server.New(app.cfg.Port, bot, app.logger)
			serverErr := make(chan error, 1)
			go func() {
				serverErr <- srv.ListenAndServe()
			}()

			if app.cfg.WebhookURL != "" {
				wh, err := tgbotapi.NewWebhook(app.cfg.WebhookURL + "/webhook")
				if err != nil {
					return fmt.Errorf("invalid webhook url: %w", err)
				}
				if _, err := app.api.Request(wh); err != nil {
					return fmt.Errorf("failed to set webhook: %w", err)
				}
				app.logger.Info("Webhook registered", zap.String("url", app.cfg.WebhookURL))

				select {
				case <-ctx.Done():
				case err := <-serverErr:
					return err
				}
			} else {
				// Polling conflicts with a leftover webhook registration.
				if _, err := app.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
					app.logger.Warn("Failed to clear webhook before polling", zap.Error(err))
				}
				if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
					return err
				}
			}

			app.logger.Info("Shutting down")
			return srv.Shutdown(context.Background())
		},
	}
}

func resetWebhookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-webhook",
		Short: "Delete the bot's webhook registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
				return fmt.Errorf("failed to delete webhook: %w", err)
			}

			fmt.Println("Webhook deleted, pending updates dropped.")
			return nil
		},
	}
}

func officeQRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "office-qr",
		Short: "Generate a QR code PNG pointing at the office location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			mapsURL := fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", app.cfg.OfficeLat, app.cfg.OfficeLon)
			if err := qrcode.WriteFile(mapsURL, qrcode.Medium, 512, output); err != nil {
				return fmt.Errorf("failed to write qr code: %w", err)
			}

			app.logger.Info("Office QR generated", zap.String("file", output), zap.String("url", mapsURL))
			fmt.Printf("QR code written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().String("output", "office_qr.png", "Output PNG path")

	return cmd
}
