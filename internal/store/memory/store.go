// Package memory is an in-process record store implementing every repository interface.
// It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nekogravitycat/tennis-league-backend/internal/account"
	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/match"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

type txKey struct{}

// table keeps rows by ID plus their insertion order.
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) insert(id string, v *T) {
	t.rows[id] = v
	t.order = append(t.order, id)
}

// each visits rows in insertion order.
func (t *table[T]) each(fn func(v *T)) {
	for _, id := range t.order {
		fn(t.rows[id])
	}
}

func (t table[T]) clone(copyRow func(*T) *T) table[T] {
	out := table[T]{
		rows:  make(map[string]*T, len(t.rows)),
		order: append([]string(nil), t.order...),
	}
	for id, v := range t.rows {
		out.rows[id] = copyRow(v)
	}
	return out
}

type data struct {
	accounts    table[account.Account]
	profiles    table[profile.Profile]
	events      table[event.Event]
	courts      table[event.Court]
	invitations table[event.Invitation]
	matches     table[match.Match]
}

func (d *data) clone() data {
	return data{
		accounts:    d.accounts.clone(cloneAccount),
		profiles:    d.profiles.clone(cloneProfile),
		events:      d.events.clone(cloneEvent),
		courts:      d.courts.clone(cloneCourt),
		invitations: d.invitations.clone(cloneInvitation),
		matches:     d.matches.clone(cloneMatch),
	}
}

// Store holds all records in memory.
//
// Writers are serialized by txMu: a transaction holds it for its whole duration and a
// write outside a transaction holds it for one statement. Readers only take mu, so they
// never block behind a long transaction and see its writes as they happen.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data data
	now  func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data: data{
			accounts:    newTable[account.Account](),
			profiles:    newTable[profile.Profile](),
			events:      newTable[event.Event](),
			courts:      newTable[event.Court](),
			invitations: newTable[event.Invitation](),
			matches:     newTable[match.Match](),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// WithinTx runs fn while holding the writer lock and restores the previous state
// when fn returns an error. Nested calls reuse the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) write(ctx context.Context, fn func(d *data) error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func (s *Store) read(fn func(d *data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

func newID() string {
	return uuid.NewString()
}

func (s *Store) Accounts() account.Repository {
	return &accountRepository{s}
}

func (s *Store) Profiles() profile.Repository {
	return &profileRepository{s}
}

func (s *Store) Events() event.Repository {
	return &eventRepository{s}
}

func (s *Store) Invitations() event.InvitationRepository {
	return &invitationRepository{s}
}

func (s *Store) Matches() match.Repository {
	return &matchRepository{s}
}

func cloneAccount(a *account.Account) *account.Account {
	c := *a
	if a.LastLoginAt != nil {
		t := *a.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

func cloneProfile(p *profile.Profile) *profile.Profile {
	c := *p
	if p.Phone != nil {
		phone := *p.Phone
		c.Phone = &phone
	}
	if p.SkillLevel != nil {
		level := *p.SkillLevel
		c.SkillLevel = &level
	}
	return &c
}

func cloneEvent(e *event.Event) *event.Event {
	c := *e
	return &c
}

func cloneCourt(ct *event.Court) *event.Court {
	c := *ct
	return &c
}

func cloneInvitation(inv *event.Invitation) *event.Invitation {
	c := *inv
	if inv.RespondedAt != nil {
		t := *inv.RespondedAt
		c.RespondedAt = &t
	}
	return &c
}

func cloneMatch(m *match.Match) *match.Match {
	c := *m
	c.PlayerIDs = append([]string(nil), m.PlayerIDs...)
	if m.Scores != nil {
		c.Scores = append([]match.Score(nil), m.Scores...)
	}
	if m.WinnerID != nil {
		w := *m.WinnerID
		c.WinnerID = &w
	}
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// pick returns clones of the rows whose IDs are in ids.
func pick[T any](t *table[T], ids []string, copyRow func(*T) *T) map[string]*T {
	out := make(map[string]*T, len(ids))
	for _, id := range ids {
		if v, ok := t.rows[id]; ok {
			out[id] = copyRow(v)
		}
	}
	return out
}
