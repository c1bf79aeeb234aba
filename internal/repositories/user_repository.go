package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "jobboard/internal/db"
	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listquery"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB { return dbOrShared(r.DB) }

var userList = listSpec{
	from: "users",
	sortColumns: map[listquery.SortField]string{
		listquery.SortUserFullName: "full_name",
		listquery.SortUserEmail:    "email",
		listquery.SortUserRole:     "role",
		listquery.SortCreatedAt:    "created_at",
	},
	keywordCols: []string{"full_name", "email", "phone"},
	filterCols:  map[string]string{"role": "role", "status": "status"},
	tieBreak:    "id DESC",
}

const userColumns = "id, full_name, email, COALESCE(phone,''), role, status, password_hash, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Role, &u.Status, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r UserRepository) List(ctx context.Context, st listquery.State) ([]models.User, int, error) {
	out := []models.User{}
	total, err := list(ctx, r.db(), userList, userColumns, st, func(rows *sql.Rows) error {
		u, err := scanUser(rows)
		if err != nil {
			return err
		}
		out = append(out, u)
		return nil
	})
	return out, total, err
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.db().QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db().QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (full_name, email, phone, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.FullName, u.Email, intdb.NullIfEmpty(u.Phone), u.PasswordHash, u.Role, u.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update writes every column; an empty PasswordHash keeps the stored one.
// Callers check existence first.
func (r UserRepository) Update(ctx context.Context, u models.User) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE users
		SET full_name = ?, email = ?, phone = ?, role = ?, status = ?,
		    password_hash = COALESCE(NULLIF(?, ''), password_hash)
		WHERE id = ?
	`, u.FullName, u.Email, intdb.NullIfEmpty(u.Phone), u.Role, u.Status, u.PasswordHash, u.ID)
	return err
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "user")
}

// expectAffected turns a zero-row DELETE into NotFound.
func expectAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.NotFound(resource)
	}
	return nil
}
