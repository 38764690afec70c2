package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Notification types pushed to event subscribers.
const (
	TypeEventStatusChanged  = "event.status_changed"
	TypeCourtAdded          = "court.added"
	TypeInvitationCreated   = "invitation.created"
	TypeInvitationResponded = "invitation.responded"
	TypeMatchCreated        = "match.created"
	TypeMatchCompleted      = "match.completed"
)

// Notification is the payload published to the subscribers of one event.
type Notification struct {
	Type         string    `json:"type"`
	EventID      string    `json:"event_id"`
	Status       string    `json:"status,omitempty"`
	CourtID      string    `json:"court_id,omitempty"`
	InvitationID string    `json:"invitation_id,omitempty"`
	MatchID      string    `json:"match_id,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher is implemented by anything that fans notifications out to listeners.
type Publisher interface {
	Publish(n Notification)
}

const subscriberBuffer = 16

// Broker is an in-process pub/sub for event notifications, keyed by event ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded notifications for the given event.
func (b *Broker) Subscribe(eventID string) chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	b.mu.Lock()
	if b.subs[eventID] == nil {
		b.subs[eventID] = make(map[chan []byte]struct{})
	}
	b.subs[eventID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the event's subscribers.
func (b *Broker) Unsubscribe(eventID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[eventID], ch)
	if len(b.subs[eventID]) == 0 {
		delete(b.subs, eventID)
	}
	b.mu.Unlock()
}

// Subscribers returns the number of listeners for an event.
func (b *Broker) Subscribers(eventID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventID])
}

// Publish sends n to all subscribers of n.EventID.
func (b *Broker) Publish(n Notification) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	data, err := json.Marshal(n)
	if err != nil {
		slog.Error("failed to encode notification", slog.String("type", n.Type), slog.Any("error", err))
		return
	}

	b.mu.RLock()
	for ch := range b.subs[n.EventID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
