package repo

import (
	"context"
	"errors"

	dom "userapi/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgDocument is the JSONB body of a row in the users table. The id lives in
// its own primary-key column.
type pgDocument struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PGUserRepo implements UserRepo with a Postgres JSONB document table.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func (r *PGUserRepo) FindAll(ctx context.Context) ([]dom.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, doc FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, storageErr("find users", err)
	}
	defer rows.Close()
	list := make([]dom.User, 0)
	for rows.Next() {
		var (
			id  string
			doc pgDocument
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, storageErr("scan user", err)
		}
		list = append(list, fromPG(id, doc))
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("find users", err)
	}
	return list, nil
}

func (r *PGUserRepo) FindByID(ctx context.Context, id string) (dom.User, bool, error) {
	var doc pgDocument
	err := r.db.QueryRow(ctx, `SELECT doc FROM users WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, false, nil
	}
	if err != nil {
		return dom.User{}, false, storageErr("find user", err)
	}
	return fromPG(id, doc), true, nil
}

func (r *PGUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, storageErr("exists user", err)
	}
	return exists, nil
}

// Save upserts the row. Ids generated here are UUIDv4 strings.
func (r *PGUserRepo) Save(ctx context.Context, u dom.User) (dom.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	query := `
		INSERT INTO users (id, doc)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`
	doc := pgDocument{Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address}
	if _, err := r.db.Exec(ctx, query, u.ID, doc); err != nil {
		return dom.User{}, storageErr("save user", err)
	}
	return u, nil
}

func (r *PGUserRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return storageErr("delete user", err)
	}
	return nil
}

func fromPG(id string, d pgDocument) dom.User {
	return dom.User{ID: id, Name: d.Name, Email: d.Email, Phone: d.Phone, Address: d.Address}
}
