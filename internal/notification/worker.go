package notification

import (
	"context"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"staysync-backend/internal/model"
	"staysync-backend/internal/workflow"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of Sender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans domain events out to the push subscriptions following
// the event's hostel. Delivery is fire-and-forget: a lost notification
// never affects engine state.
type WorkerPool struct {
	size    int
	events  <-chan workflow.Event
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a worker pool consuming the given event stream.
func NewWorkerPool(size int, events <-chan workflow.Event, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		events:  events,
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case ev := <-wp.events:
			wp.notifyHostel(ctx, ev)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// notifyHostel fetches the hostel's subscriptions and pushes the event
// message to each of them.
func (wp *WorkerPool) notifyHostel(ctx context.Context, ev workflow.Event) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_hostel_mapping shm ON shm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("shm.hostel_id = ?", ev.HostelID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for hostel %d: %v", ev.HostelID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("sending %d notifications for hostel %d (%s)", len(subscriptions), ev.HostelID, ev.Kind)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(ev.Message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription for endpoint %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Select("Hostels").Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
