package main

import (
	"context"
	"time"

	"masterokBack/internal/config"
)

const notificationCleanerTimeout = 30 * time.Second

// runNotificationCleaner periodically purges read notifications that are
// older than the configured retention window.
func (app *application) runNotificationCleaner(cfg config.Config) {
	interval := time.Duration(cfg.Notifications.CleanupIntervalHours) * time.Hour
	maxAge := time.Duration(cfg.Notifications.ReadMaxAgeHours) * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), notificationCleanerTimeout)
		defer cancel()

		removed, err := app.notificationService.CleanupRead(ctx, maxAge)
		if err != nil {
			app.errorLog.Printf("notification cleaner: %v", err)
			return
		}
		if removed > 0 {
			app.infoLog.Printf("notification cleaner: removed %d read notifications", removed)
		}
	}

	run()
	for range ticker.C {
		run()
	}
}
