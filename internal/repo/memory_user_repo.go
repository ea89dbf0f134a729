package repo

import (
	"context"
	"sync"

	dom "userapi/internal/domain"

	"github.com/google/uuid"
)

// MemoryUserRepo is an in-process UserRepo. Used by tests and STORE_DRIVER=memory.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]dom.User
	order []string
}

// NewMemoryUserRepo returns an empty MemoryUserRepo.
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]dom.User)}
}

// FindAll returns users in insertion order.
func (r *MemoryUserRepo) FindAll(_ context.Context) ([]dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]dom.User, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.users[id])
	}
	return list, nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (dom.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok, nil
}

func (r *MemoryUserRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *MemoryUserRepo) Save(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, ok := r.users[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryUserRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return nil
	}
	delete(r.users, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
