package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notification is the payload handed off for a newly created alert.
type Notification struct {
	AlertID         string
	FamilyID        string
	ChildName       string
	Severity        string
	Title           string
	SuggestedAction string
}

// Sender delivers a single notification to parents.
type Sender interface {
	Send(n Notification) error
}

// Dispatcher decouples alert creation from delivery: notifications are
// queued on a bounded channel and sent by a background worker. When the
// queue is full the notification is dropped, keeping pipeline latency
// independent of delivery. There is no acknowledgement or retry.
type Dispatcher struct {
	queue  chan Notification
	sender Sender
	log    *logrus.Logger
}

func NewDispatcher(sender Sender, bufferSize int, log *logrus.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Dispatcher{
		queue:  make(chan Notification, bufferSize),
		sender: sender,
		log:    log,
	}
}

// Enqueue hands off a notification without blocking the caller.
func (d *Dispatcher) Enqueue(n Notification) {
	select {
	case d.queue <- n:
	default:
		d.log.Warnf("Notification queue full, dropping alert notification %s", n.AlertID)
	}
}

// Run consumes the queue until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info("Notification dispatcher started.")
	for {
		select {
		case <-ctx.Done():
			d.log.Info("Notification dispatcher stopped.")
			return
		case n := <-d.queue:
			if err := d.sender.Send(n); err != nil {
				d.log.Errorf("Failed to send alert notification %s: %v", n.AlertID, err)
			}
		}
	}
}
