package memory

import (
	"context"
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/account"
)

type accountRepository struct {
	s *Store
}

func (r *accountRepository) find(match func(a *account.Account) bool) (*account.Account, error) {
	var found *account.Account
	r.s.read(func(d *data) {
		d.accounts.each(func(a *account.Account) {
			if found == nil && match(a) {
				found = cloneAccount(a)
			}
		})
	})
	if found == nil {
		return nil, account.ErrNotFound
	}
	return found, nil
}

func (r *accountRepository) GetByEmail(_ context.Context, email string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.Email == email })
}

func (r *accountRepository) GetByIDs(_ context.Context, ids []string) ([]*account.Account, error) {
	var found []*account.Account
	r.s.read(func(d *data) {
		for _, id := range ids {
			if a, ok := d.accounts.rows[id]; ok {
				found = append(found, cloneAccount(a))
			}
		}
	})
	return found, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	return r.s.write(ctx, func(d *data) error {
		for _, existing := range d.accounts.rows {
			if existing.Email == a.Email {
				return account.ErrEmailAlreadyUsed
			}
		}
		a.ID = newID()
		a.CreatedAt = r.s.now()
		d.accounts.insert(a.ID, cloneAccount(a))
		return nil
	})
}

func (r *accountRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	return r.s.write(ctx, func(d *data) error {
		a, ok := d.accounts.rows[id]
		if !ok {
			return account.ErrNotFound
		}
		a.LastLoginAt = &t
		return nil
	})
}
