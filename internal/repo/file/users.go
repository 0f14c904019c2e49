// Package file persists the user collection as a single JSON array,
// rewritten in full on every mutation. Good enough for a single process;
// there is no cross-process locking.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/habitflow/userhub/internal/domain/user"
)

type UsersRepo struct {
	mu   sync.Mutex
	path string
}

func NewUsersRepo(path string) *UsersRepo {
	return &UsersRepo{path: path}
}

// readAll loads the current collection. A missing or unreadable file is
// treated as "no data yet" rather than an error, which also means a
// corrupted file silently resets the collection. Known gap, kept as-is.
func (r *UsersRepo) readAll() []user.User {
	raw, err := os.ReadFile(r.path)

	if err != nil {
		return []user.User{}
	}

	var users []user.User

	if err := json.Unmarshal(raw, &users); err != nil {
		return []user.User{}
	}

	return users
}

func (r *UsersRepo) writeAll(users []user.User) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	raw, err := json.MarshalIndent(users, "", "  ")

	if err != nil {
		return err
	}

	return os.WriteFile(r.path, raw, 0o644)
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.readAll()

	// inserts append oldest-first, listing is newest-first
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return users, nil
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = user.NormalizeEmail(email)

	for _, u := range r.readAll() {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.readAll()
	users = append(users, u)

	return r.writeAll(users)
}

func (r *UsersRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.readAll()

	kept := users[:0]

	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}

	if len(kept) == len(users) {
		return false, nil
	}

	if err := r.writeAll(kept); err != nil {
		return false, err
	}

	return true, nil
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return nil
}

func (r *UsersRepo) Close() error {
	return nil
}
