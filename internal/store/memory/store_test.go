package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/nekogravitycat/tennis-league-backend/internal/account"
	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(externalID string, role profile.Role) *profile.Profile {
	return &profile.Profile{
		ExternalUserID: externalID,
		Role:           role,
		FirstName:      "Test",
		LastName:       externalID,
		IsActive:       true,
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	profiles := s.Profiles()

	kept := newProfile("kept", profile.RolePlayer)
	require.NoError(t, profiles.Create(ctx, kept))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, profiles.Create(ctx, newProfile("dropped", profile.RolePlayer)))

		kept.FirstName = "Changed"
		require.NoError(t, profiles.Update(ctx, kept))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = profiles.GetByExternalUserID(ctx, "dropped")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	got, err := profiles.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", got.FirstName)
}

func TestWithinTxCommitsAndNests(t *testing.T) {
	ctx := context.Background()
	s := New()
	profiles := s.Profiles()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		return s.WithinTx(ctx, func(ctx context.Context) error {
			return profiles.Create(ctx, newProfile("nested", profile.RolePlayer))
		})
	})
	require.NoError(t, err)

	_, err = profiles.GetByExternalUserID(ctx, "nested")
	assert.NoError(t, err)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	profiles := s.Profiles()

	p := newProfile("copy", profile.RolePlayer)
	require.NoError(t, profiles.Create(ctx, p))

	got, err := profiles.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Role = profile.RoleAdmin

	again, err := profiles.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.RolePlayer, again.Role)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Accounts().Create(ctx, &account.Account{Email: "a@example.com", PasswordHash: "x"}))
	err := s.Accounts().Create(ctx, &account.Account{Email: "a@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, account.ErrEmailAlreadyUsed)

	require.NoError(t, s.Profiles().Create(ctx, newProfile("dup", profile.RolePlayer)))
	err = s.Profiles().Create(ctx, newProfile("dup", profile.RolePlayer))
	assert.ErrorIs(t, err, profile.ErrProfileExists)

	e := &event.Event{Name: "Open", Status: event.StatusSetup}
	require.NoError(t, s.Events().Create(ctx, e))
	require.NoError(t, s.Invitations().Create(ctx, &event.Invitation{EventID: e.ID, PlayerID: "p1", Status: event.InvitationPending}))
	err = s.Invitations().Create(ctx, &event.Invitation{EventID: e.ID, PlayerID: "p1", Status: event.InvitationPending})
	assert.ErrorIs(t, err, event.ErrAlreadyInvited)
}

func TestBackfillSkillLevel(t *testing.T) {
	ctx := context.Background()
	s := New()
	profiles := s.Profiles()

	level := profile.SkillAdvanced
	withLevel := newProfile("with", profile.RolePlayer)
	withLevel.SkillLevel = &level
	require.NoError(t, profiles.Create(ctx, withLevel))
	require.NoError(t, profiles.Create(ctx, newProfile("without", profile.RolePlayer)))

	n, err := profiles.BackfillSkillLevel(ctx, profile.SkillIntermediate)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := profiles.GetByExternalUserID(ctx, "with")
	require.NoError(t, err)
	assert.Equal(t, profile.SkillAdvanced, *got.SkillLevel)

	n, err = profiles.BackfillSkillLevel(ctx, profile.SkillIntermediate)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
