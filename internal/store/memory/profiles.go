package memory

import (
	"context"

	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

type profileRepository struct {
	s *Store
}

func (r *profileRepository) Create(ctx context.Context, p *profile.Profile) error {
	return r.s.write(ctx, func(d *data) error {
		for _, existing := range d.profiles.rows {
			if existing.ExternalUserID == p.ExternalUserID {
				return profile.ErrProfileExists
			}
		}
		p.ID = newID()
		p.CreatedAt = r.s.now()
		d.profiles.insert(p.ID, cloneProfile(p))
		return nil
	})
}

func (r *profileRepository) GetByID(_ context.Context, id string) (*profile.Profile, error) {
	var found *profile.Profile
	r.s.read(func(d *data) {
		if p, ok := d.profiles.rows[id]; ok {
			found = cloneProfile(p)
		}
	})
	if found == nil {
		return nil, profile.ErrNotFound
	}
	return found, nil
}

func (r *profileRepository) GetByExternalUserID(_ context.Context, externalUserID string) (*profile.Profile, error) {
	var found *profile.Profile
	r.s.read(func(d *data) {
		for _, p := range d.profiles.rows {
			if p.ExternalUserID == externalUserID {
				found = cloneProfile(p)
				return
			}
		}
	})
	if found == nil {
		return nil, profile.ErrNotFound
	}
	return found, nil
}

func (r *profileRepository) GetByIDs(_ context.Context, ids []string) (map[string]*profile.Profile, error) {
	var out map[string]*profile.Profile
	r.s.read(func(d *data) {
		out = pick(&d.profiles, ids, cloneProfile)
	})
	return out, nil
}

func (r *profileRepository) List(_ context.Context, filter profile.Filter) ([]*profile.Profile, error) {
	var out []*profile.Profile
	r.s.read(func(d *data) {
		d.profiles.each(func(p *profile.Profile) {
			if filter.Role != nil && p.Role != *filter.Role {
				return
			}
			if filter.IsActive != nil && p.IsActive != *filter.IsActive {
				return
			}
			out = append(out, cloneProfile(p))
		})
	})
	return out, nil
}

func (r *profileRepository) CountByRole(_ context.Context, role profile.Role) (int, error) {
	n := 0
	r.s.read(func(d *data) {
		for _, p := range d.profiles.rows {
			if p.Role == role {
				n++
			}
		}
	})
	return n, nil
}

func (r *profileRepository) Update(ctx context.Context, p *profile.Profile) error {
	return r.s.write(ctx, func(d *data) error {
		existing, ok := d.profiles.rows[p.ID]
		if !ok {
			return profile.ErrNotFound
		}
		updated := cloneProfile(p)
		updated.ExternalUserID = existing.ExternalUserID
		updated.CreatedAt = existing.CreatedAt
		d.profiles.rows[p.ID] = updated
		return nil
	})
}

func (r *profileRepository) BackfillSkillLevel(ctx context.Context, level profile.SkillLevel) (int, error) {
	n := 0
	err := r.s.write(ctx, func(d *data) error {
		for _, p := range d.profiles.rows {
			if p.SkillLevel == nil {
				l := level
				p.SkillLevel = &l
				n++
			}
		}
		return nil
	})
	return n, err
}

// LockRoleBootstrap is a no-op: transactions already run one at a time.
func (r *profileRepository) LockRoleBootstrap(context.Context) error {
	return nil
}
