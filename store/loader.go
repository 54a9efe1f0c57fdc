package store

import (
	"context"
	"errors"

	"github.com/krisalay/bounded-cache/types"
)

// UserLoader exposes a UserStore to the cache as a backing store keyed by email.
type UserLoader struct {
	Store *UserStore
}

var _ types.Loader[User] = UserLoader{}

// Load finds the user with the given email.
func (l UserLoader) Load(ctx context.Context, email string) (User, error) {
	u, err := l.Store.FindOne(ctx, Criteria{ColumnEmail: email})
	if errors.Is(err, ErrNotFound) {
		return User{}, types.ErrNotFound
	}
	return u, err
}

// Put writes u under email: the existing row is updated, otherwise a new one is created.
// The id stored in the cache is ignored; the store owns ids.
func (l UserLoader) Put(ctx context.Context, email string, u User) error {
	existing, err := l.Store.FindOne(ctx, Criteria{ColumnEmail: email})
	switch {
	case errors.Is(err, ErrNotFound):
		created, err := l.Store.Create(ctx, email, u.HashedPassword)
		if err != nil {
			return err
		}
		existing = created
	case err != nil:
		return err
	}

	return l.Store.Update(ctx, existing.ID, Criteria{
		ColumnHashedPassword: u.HashedPassword,
		ColumnSessionID:      u.SessionID,
		ColumnResetToken:     u.ResetToken,
	})
}
