// Package store keeps user records in an in-memory table and exposes them to
// the cache as a backing store.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("store: no user found")

	// ErrInvalidCriteria is returned for empty criteria, unknown columns or bad column values.
	ErrInvalidCriteria = errors.New("store: invalid criteria")

	// ErrDuplicate is returned when an email is already taken.
	ErrDuplicate = errors.New("store: duplicate email")
)

// Column names of the users table.
const (
	ColumnID             = "id"
	ColumnEmail          = "email"
	ColumnHashedPassword = "hashed_password"
	ColumnSessionID      = "session_id"
	ColumnResetToken     = "reset_token"
)

var columns = []string{ColumnID, ColumnEmail, ColumnHashedPassword, ColumnSessionID, ColumnResetToken}

// User is one row of the users table.
type User struct {
	ID             int
	Email          string
	HashedPassword string
	SessionID      string
	ResetToken     string
}

// Criteria maps column names to values, used both for lookups and updates.
type Criteria map[string]any

// UserStore is an in-memory users table with a unique email column.
type UserStore struct {
	mu     sync.RWMutex
	rows   map[int]*User
	nextID int
}

func NewUserStore() *UserStore {
	return &UserStore{rows: make(map[int]*User), nextID: 1}
}

// Create adds a user and returns it with its assigned id.
func (s *UserStore) Create(ctx context.Context, email, hashedPassword string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidCriteria)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(email, 0) {
		return User{}, fmt.Errorf("%w: %s", ErrDuplicate, email)
	}

	u := &User{ID: s.nextID, Email: email, HashedPassword: hashedPassword}
	s.rows[u.ID] = u
	s.nextID++
	return *u, nil
}

// FindOne returns the user with the lowest id matching every criterion.
func (s *UserStore) FindOne(ctx context.Context, criteria Criteria) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	if len(criteria) == 0 {
		return User{}, fmt.Errorf("%w: no search criteria provided", ErrInvalidCriteria)
	}
	for col, v := range criteria {
		if !slices.Contains(columns, col) {
			return User{}, fmt.Errorf("%w: unknown column %q", ErrInvalidCriteria, col)
		}
		if !validValue(col, v) {
			return User{}, fmt.Errorf("%w: column %q cannot match %T", ErrInvalidCriteria, col, v)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if u := s.rows[id]; matches(u, criteria) {
			return *u, nil
		}
	}
	return User{}, ErrNotFound
}

// Update applies changes to the user with the given id.
// The id column cannot be changed and every value must be a string.
func (s *UserStore) Update(ctx context.Context, id int, changes Criteria) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for col, v := range changes {
		if col == ColumnID || !slices.Contains(columns, col) {
			return fmt.Errorf("%w: cannot update column %q", ErrInvalidCriteria, col)
		}
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%w: column %q needs a string, got %T", ErrInvalidCriteria, col, v)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if email, ok := changes[ColumnEmail]; ok {
		if email == "" {
			return fmt.Errorf("%w: email is required", ErrInvalidCriteria)
		}
		if s.emailTaken(email.(string), id) {
			return fmt.Errorf("%w: %s", ErrDuplicate, email)
		}
	}

	for col, v := range changes {
		setColumn(u, col, v.(string))
	}
	return nil
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// emailTaken reports whether a user other than except already uses email.
func (s *UserStore) emailTaken(email string, except int) bool {
	for id, u := range s.rows {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func validValue(col string, v any) bool {
	if col == ColumnID {
		_, ok := v.(int)
		return ok
	}
	_, ok := v.(string)
	return ok
}

func matches(u *User, criteria Criteria) bool {
	for col, want := range criteria {
		if column(u, col) != want {
			return false
		}
	}
	return true
}

func column(u *User, col string) any {
	switch col {
	case ColumnID:
		return u.ID
	case ColumnEmail:
		return u.Email
	case ColumnHashedPassword:
		return u.HashedPassword
	case ColumnSessionID:
		return u.SessionID
	case ColumnResetToken:
		return u.ResetToken
	}
	return nil
}

func setColumn(u *User, col, v string) {
	switch col {
	case ColumnEmail:
		u.Email = v
	case ColumnHashedPassword:
		u.HashedPassword = v
	case ColumnSessionID:
		u.SessionID = v
	case ColumnResetToken:
		u.ResetToken = v
	}
}
