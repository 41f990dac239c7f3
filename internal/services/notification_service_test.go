package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"masterokBack/internal/models"
)

func TestNotificationMessages(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := &NotificationService{NotificationRepo: repo}
	ctx := context.Background()

	if err := svc.NotifyNewResponse(ctx, 1, "Холодильник", "Болат"); err != nil {
		t.Fatalf("NotifyNewResponse: %v", err)
	}
	if err := svc.NotifyResponseAccepted(ctx, 2, "Холодильник"); err != nil {
		t.Fatalf("NotifyResponseAccepted: %v", err)
	}
	if err := svc.NotifyNewReview(ctx, 2, 5, "Холодильник"); err != nil {
		t.Fatalf("NotifyNewReview: %v", err)
	}

	customer, _ := svc.GetUserNotifications(ctx, 1)
	if len(customer) != 1 {
		t.Fatalf("customer notifications = %d, want 1", len(customer))
	}
	if customer[0].Type != models.NotificationNewResponse || !strings.Contains(customer[0].Message, "Болат") {
		t.Fatalf("unexpected notification: %+v", customer[0])
	}

	worker, _ := svc.GetUserNotifications(ctx, 2)
	if len(worker) != 2 {
		t.Fatalf("worker notifications = %d, want 2", len(worker))
	}
}

func TestMarkReadWrongUser(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := &NotificationService{NotificationRepo: repo}
	ctx := context.Background()

	n, _ := repo.Create(ctx, models.Notification{UserID: 1, Message: "x", Type: models.NotificationNewResponse})
	if err := svc.MarkRead(ctx, n.ID, 2); !errors.Is(err, models.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.MarkRead(ctx, n.ID, 1); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
}

func TestCleanupReadKeepsUnread(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := &NotificationService{NotificationRepo: repo}
	ctx := context.Background()

	old, _ := repo.Create(ctx, models.Notification{UserID: 1, Message: "старое", Type: models.NotificationNewReview})
	repo.mu.Lock()
	repo.notes[0].IsRead = true
	repo.notes[0].CreatedAt = time.Now().Add(-72 * time.Hour)
	repo.mu.Unlock()
	repo.Create(ctx, models.Notification{UserID: 1, Message: "свежее", Type: models.NotificationNewReview})

	removed, err := svc.CleanupRead(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupRead: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	left, _ := svc.GetUserNotifications(ctx, 1)
	if len(left) != 1 || left[0].ID == old.ID {
		t.Fatalf("unread notification must survive cleanup: %+v", left)
	}
}
