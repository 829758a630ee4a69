package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Notification is the payload handed to the external notifier when a
// waitlist patient should be told a slot opened up.
type Notification struct {
	WaitlistEntryID uuid.UUID `json:"waitlist_entry_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	Message         string    `json:"message"`
	DeliveredAt     time.Time `json:"delivered_at"`
}

// NotificationDispatcher delivers a slot-available notice and returns the
// delivery timestamp that anchors the waitlist response window. The engine
// never marks an entry notified unless Dispatch returned without error.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n Notification) (time.Time, error)
}

type redisNotificationDispatcher struct {
	client   *redis.Client
	log      *logrus.Logger
	queueKey string
}

// NewRedisNotificationDispatcher returns a dispatcher that pushes the
// payload onto a Redis list consumed by the messaging gateway.
func NewRedisNotificationDispatcher(client *redis.Client, log *logrus.Logger, queueKey string) NotificationDispatcher {
	return &redisNotificationDispatcher{
		client:   client,
		log:      log,
		queueKey: queueKey,
	}
}

func (d *redisNotificationDispatcher) Dispatch(ctx context.Context, n Notification) (time.Time, error) {
	n.DeliveredAt = time.Now()

	payload, err := json.Marshal(n)
	if err != nil {
		return time.Time{}, fmt.Errorf("marshal notification for entry %s: %w", n.WaitlistEntryID, err)
	}

	if err := d.client.LPush(ctx, d.queueKey, payload).Err(); err != nil {
		d.log.Warnf("Failed to enqueue notification for entry %s: %+v", n.WaitlistEntryID, err)
		return time.Time{}, fmt.Errorf("enqueue notification for entry %s: %w", n.WaitlistEntryID, err)
	}

	d.log.Debugf("Notification enqueued for waitlist entry %s", n.WaitlistEntryID)
	return n.DeliveredAt, nil
}
