package notify

import (
	"sync"
	"time"

	"playeasy/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Inbox is an in-memory NotificationSink with read tracking, newest first.
type Inbox struct {
	mu            sync.RWMutex
	notifications []models.Notification
	logger        *zerolog.Logger
}

func NewInbox(logger *zerolog.Logger) *Inbox {
	return &Inbox{logger: logger}
}

// Notify appends an unread notification. Fire and forget.
func (i *Inbox) Notify(title, message, kind string) {
	n := models.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	i.mu.Lock()
	i.notifications = append([]models.Notification{n}, i.notifications...)
	i.mu.Unlock()

	i.logger.Debug().Str("kind", kind).Str("title", title).Msg("notification delivered")
}

// SeedDemo installs the demo notifications on an empty inbox. No-op once
// anything has been delivered.
func (i *Inbox) SeedDemo() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.notifications) > 0 {
		return
	}

	now := time.Now()
	i.notifications = []models.Notification{
		{
			ID:        uuid.NewString(),
			Title:     "Booking Confirmed",
			Message:   "Your booking for Premium Tennis Court A has been confirmed for tomorrow.",
			Kind:      models.KindSuccess,
			CreatedAt: now.Add(-time.Hour),
		},
		{
			ID:        uuid.NewString(),
			Title:     "Welcome to PlayEasy!",
			Message:   "Your account has been created successfully. Start booking your first court!",
			Kind:      models.KindSuccess,
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:        uuid.NewString(),
			Title:     "New Court Available",
			Message:   "A new premium court has been added to our facilities. Check it out!",
			Kind:      models.KindInfo,
			Read:      true,
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}
}

// All returns every notification, newest first.
func (i *Inbox) All() []models.Notification {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]models.Notification(nil), i.notifications...)
}

// UnreadCount returns the number of unread notifications.
func (i *Inbox) UnreadCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	count := 0
	for _, n := range i.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one notification as read. Unknown ids are ignored.
func (i *Inbox) MarkRead(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.notifications {
		if i.notifications[idx].ID == id {
			i.notifications[idx].Read = true
			return
		}
	}
}

// MarkAllRead flags every notification as read.
func (i *Inbox) MarkAllRead() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.notifications {
		i.notifications[idx].Read = true
	}
}

// Delete removes one notification.
func (i *Inbox) Delete(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.notifications {
		if i.notifications[idx].ID == id {
			i.notifications = append(i.notifications[:idx], i.notifications[idx+1:]...)
			return
		}
	}
}

// Clear removes everything.
func (i *Inbox) Clear() {
	i.mu.Lock()
	i.notifications = nil
	i.mu.Unlock()
}
