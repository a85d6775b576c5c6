package notify

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/models"
)

var (
	ErrDeliveryFailed = errors.New("delivery failed")
	ErrNoRecipient    = errors.New("no recipient address")
)

// Message is one outgoing notification.
type Message struct {
	Channel    models.NotificationType
	From       string
	To         string
	Subject    string
	Body       string
	Attachment []byte // text/calendar for calendar invites
}

// Sender delivers messages and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// StubSender logs messages instead of delivering them and fails at random.
type StubSender struct {
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStubSender creates a sender that succeeds with probability successRate.
// A nil src seeds from the clock.
func NewStubSender(successRate float64, src rand.Source) *StubSender {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &StubSender{successRate: successRate, rng: rand.New(src)}
}

// Send logs msg and reports success or ErrDeliveryFailed.
func (s *StubSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if msg.To == "" {
		return "", ErrNoRecipient
	}

	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	id := uuid.NewString()
	entry := log.WithFields(log.Fields{
		"message_id": id,
		"channel":    msg.Channel,
		"to":         msg.To,
		"subject":    msg.Subject,
	})
	entry.Debug(msg.Body)

	if roll >= s.successRate {
		entry.Warn("Notification delivery failed")
		return "", ErrDeliveryFailed
	}
	entry.Info("Notification sent")
	return id, nil
}
