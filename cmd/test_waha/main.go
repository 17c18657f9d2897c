package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"journeylink_app/internal/config"
	"journeylink_app/internal/logging"
	"journeylink_app/internal/services"
)

func main() {
	var (
		phone string
		msg   string
	)

	cmd := &cobra.Command{
		Use:          "test_waha",
		Short:        "Send a WhatsApp test message through the configured WAHA instance",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := logging.New(cfg.LogFormat, cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			chatID := services.NormalizeChatID(phone, os.Getenv("WAHA_COUNTRY_CODE"))
			logger.Info("Sending message", "chat_id", chatID, "message", msg)

			if err := services.NewWahaService().SendMessage(ctx, phone, msg); err != nil {
				return fmt.Errorf("failed to send message: %w", err)
			}
			logger.Info("Message sent successfully")
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number, e.g. 5512345678 or 0551234567 (required)")
	cmd.Flags().StringVar(&msg, "msg", "Test message from JourneyLink", "message body")
	_ = cmd.MarkFlagRequired("phone")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
