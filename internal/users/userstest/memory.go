// Package userstest provides an in-memory users.Repository for tests.
package userstest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pizzeria-backend/internal/apperr"
	"pizzeria-backend/internal/users"
)

type Repository struct {
	mu    sync.Mutex
	seq   int
	users []users.User
}

func New() *Repository {
	return &Repository{}
}

// Insert stores u as given, bypassing uniqueness checks.
func (r *Repository) Insert(u users.User) users.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	u.ID = fmt.Sprintf("%024x", r.seq)
	r.users = append(r.users, u)
	return u
}

func (r *Repository) Create(ctx context.Context, u *users.User) error {
	r.mu.Lock()
	email := users.NormalizeEmail(u.Email)
	for _, existing := range r.users {
		if existing.Email == email {
			r.mu.Unlock()
			return users.ErrDuplicateEmail
		}
	}
	r.mu.Unlock()
	u.Email = email
	stored := r.Insert(*u)
	u.ID = stored.ID
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.find(func(u users.User) bool { return u.Email == users.NormalizeEmail(email) })
}

func (r *Repository) FindByID(ctx context.Context, id string) (*users.User, error) {
	return r.find(func(u users.User) bool { return u.ID == id })
}

func (r *Repository) find(match func(users.User) bool) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *Repository) List(ctx context.Context) ([]users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]users.User{}, r.users...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *Repository) SetAdmin(ctx context.Context, id string, admin bool) error {
	return r.update(id, func(u *users.User) { u.IsAdmin = admin })
}

func (r *Repository) UpdateProfile(ctx context.Context, id string, in users.ProfileInput) error {
	return r.update(id, func(u *users.User) {
		if in.Name != "" {
			u.Name = in.Name
		}
		if in.Phone != "" {
			u.Phone = in.Phone
		}
	})
}

func (r *Repository) update(id string, fn func(u *users.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			fn(&r.users[i])
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (r *Repository) BackfillCreatedAt(ctx context.Context, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.users {
		if r.users[i].CreatedAt.IsZero() {
			r.users[i].CreatedAt = at
			n++
		}
	}
	return n, nil
}
