package repo

import (
	"context"
	"errors"
	"fmt"

	dom "userapi/internal/domain"
)

// ErrStorage marks every failure that comes from the underlying store
// (connectivity, encoding, driver errors). Absence of a record is never ErrStorage.
var ErrStorage = errors.New("storage failure")

// UserRepo provides user persistence keyed by the string id.
type UserRepo interface {
	FindAll(ctx context.Context) ([]dom.User, error)
	FindByID(ctx context.Context, id string) (dom.User, bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	// Save inserts u when u.ID is empty (assigning a new id) and replaces
	// the stored document with the same id otherwise.
	Save(ctx context.Context, u dom.User) (dom.User, error)
	// DeleteByID is a no-op when id is absent.
	DeleteByID(ctx context.Context, id string) error
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
