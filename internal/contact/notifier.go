package contact

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/shoileazeez/portfolio/internal/notify"
)

//go:generate mockgen -source=$GOFILE -destination=notifier_mocks_test.go -package=contact

type notifier interface {
	NotifyContact(ctx context.Context, contact notify.ContactMessage) error
}

// notifyAsync sends the email on its own goroutine. Failures are logged and counted, never surfaced.
func (handler *Handler) notifyAsync(ctx context.Context, msg notify.ContactMessage) {
	if handler.notifier == nil {
		return
	}

	handler.notifications.Add(1)
	go func() {
		defer handler.notifications.Done()

		ctx, cancel := context.WithTimeout(ctx, handler.notifyTimeout)
		defer cancel()

		if err := handler.notifier.NotifyContact(ctx, msg); err != nil {
			if errors.Is(err, notify.ErrNotConfigured) {
				log.Warnf("contact %d: email notification skipped: %s", msg.ID, err)
				return
			}
			log.Errorf("contact %d: send email notification: %s", msg.ID, err)
			if handler.metricsManager != nil {
				handler.metricsManager.CounterNotifyFailures.Inc()
			}
		}
	}()
}
