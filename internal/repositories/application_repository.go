package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "jobboard/internal/db"
	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listquery"
)

type ApplicationRepository struct {
	DB *sql.DB
}

func (r ApplicationRepository) db() *sql.DB { return dbOrShared(r.DB) }

var applicationList = listSpec{
	from: "applications",
	sortColumns: map[listquery.SortField]string{
		listquery.SortApplicationStatus: "status",
		listquery.SortCreatedAt:         "created_at",
	},
	keywordCols: []string{"full_name", "email"},
	filterCols: map[string]string{
		"jobId":  "job_id",
		"userId": "user_id",
		"status": "status",
	},
	tieBreak: "id DESC",
}

const applicationColumns = `id, job_id, user_id, full_name, email, COALESCE(phone,''), COALESCE(cover_letter,''),
	COALESCE(cv_path,''), COALESCE(cv_link,''), status, created_at, updated_at`

func scanApplication(s rowScanner) (models.Application, error) {
	var a models.Application
	err := s.Scan(&a.ID, &a.JobID, &a.UserID, &a.FullName, &a.Email, &a.Phone, &a.CoverLetter,
		&a.CVPath, &a.CVLink, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r ApplicationRepository) List(ctx context.Context, st listquery.State) ([]models.Application, int, error) {
	out := []models.Application{}
	total, err := list(ctx, r.db(), applicationList, applicationColumns, st, func(rows *sql.Rows) error {
		a, err := scanApplication(rows)
		if err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, total, err
}

func (r ApplicationRepository) GetByID(ctx context.Context, id int64) (models.Application, error) {
	a, err := scanApplication(r.db().QueryRowContext(ctx, "SELECT "+applicationColumns+" FROM applications WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, domain.NotFoundError{Resource: "application", Err: err}
	}
	return a, err
}

// LatestByUser returns the most recent application of userID that carries a
// CV, or NotFound.
func (r ApplicationRepository) LatestByUser(ctx context.Context, userID int64) (models.Application, error) {
	a, err := scanApplication(r.db().QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = ? AND (cv_path IS NOT NULL OR cv_link IS NOT NULL)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return a, domain.NotFoundError{Resource: "application", Err: err}
	}
	return a, err
}

// CountSharingCV counts the applications other than excludeID that point at
// the stored CV file path.
func (r ApplicationRepository) CountSharingCV(ctx context.Context, path string, excludeID int64) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM applications WHERE cv_path = ? AND id <> ?", path, excludeID).Scan(&n)
	return n, err
}

func (r ApplicationRepository) Create(ctx context.Context, a models.Application) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO applications (job_id, user_id, full_name, email, phone, cover_letter, cv_path, cv_link, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.JobID, a.UserID, a.FullName, a.Email, intdb.NullIfEmpty(a.Phone), intdb.NullIfEmpty(a.CoverLetter),
		intdb.NullIfEmpty(a.CVPath), intdb.NullIfEmpty(a.CVLink), a.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ApplicationRepository) Update(ctx context.Context, a models.Application) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE applications
		SET full_name = ?, email = ?, phone = ?, cover_letter = ?,
		    cv_path = COALESCE(?, cv_path), cv_link = ?, status = ?
		WHERE id = ?
	`, a.FullName, a.Email, intdb.NullIfEmpty(a.Phone), intdb.NullIfEmpty(a.CoverLetter),
		intdb.NullIfEmpty(a.CVPath), intdb.NullIfEmpty(a.CVLink), a.Status, a.ID)
	return err
}

func (r ApplicationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, "DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "application")
}
