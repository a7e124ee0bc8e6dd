// Command reminders is run from cron. It emails check-in reminders for
// bookings starting soon and drops expired password reset tokens.
package main

import (
	"context"
	"time"

	"nerdsociety/internal/config"
	"nerdsociety/internal/database"
	"nerdsociety/internal/pkg/applog"
	"nerdsociety/internal/server"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}
	applog.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		logrus.WithError(err).Fatal("db connect failed")
	}

	app := server.New(db, cfg, nil)
	defer app.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sent, err := app.Bookings.SendDueReminders(ctx)
	if err != nil {
		logrus.WithError(err).Error("check-in reminders failed")
	}

	removed, err := app.Auth.CleanupResetTokens(ctx)
	if err != nil {
		logrus.WithError(err).Error("cleanup password_reset_tokens failed")
	}

	logrus.WithFields(logrus.Fields{
		"reminders_sent":       sent,
		"reset_tokens_removed": removed,
	}).Info("maintenance completed")
}
