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

type EmployerRepository struct {
	DB *sql.DB
}

func (r EmployerRepository) db() *sql.DB { return dbOrShared(r.DB) }

var employerList = listSpec{
	from: "employers",
	sortColumns: map[listquery.SortField]string{
		listquery.SortName:      "name",
		listquery.SortCreatedAt: "created_at",
	},
	keywordCols: []string{"name", "email"},
	filterCols: map[string]string{
		"provinceId": "province_id",
		"districtId": "district_id",
		"industryId": "industry_id",
	},
	tieBreak: "id DESC",
}

const employerColumns = `id, name, email, COALESCE(phone,''), COALESCE(website,''), COALESCE(address,''),
	COALESCE(description,''), province_id, district_id, industry_id, COALESCE(logo_path,''), created_at, updated_at`

func scanEmployer(s rowScanner) (models.Employer, error) {
	var e models.Employer
	err := s.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Website, &e.Address, &e.Description,
		&e.ProvinceID, &e.DistrictID, &e.IndustryID, &e.LogoPath, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r EmployerRepository) List(ctx context.Context, st listquery.State) ([]models.Employer, int, error) {
	out := []models.Employer{}
	total, err := list(ctx, r.db(), employerList, employerColumns, st, func(rows *sql.Rows) error {
		e, err := scanEmployer(rows)
		if err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, total, err
}

func (r EmployerRepository) GetByID(ctx context.Context, id int64) (models.Employer, error) {
	e, err := scanEmployer(r.db().QueryRowContext(ctx, "SELECT "+employerColumns+" FROM employers WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, domain.NotFoundError{Resource: "employer", Err: err}
	}
	return e, err
}

func (r EmployerRepository) Create(ctx context.Context, e models.Employer) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO employers (name, email, phone, website, address, description,
			province_id, district_id, industry_id, logo_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Name, e.Email, intdb.NullIfEmpty(e.Phone), intdb.NullIfEmpty(e.Website), intdb.NullIfEmpty(e.Address),
		intdb.NullIfEmpty(e.Description), e.ProvinceID, e.DistrictID, e.IndustryID, intdb.NullIfEmpty(e.LogoPath))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update keeps the stored logo when LogoPath is empty.
func (r EmployerRepository) Update(ctx context.Context, e models.Employer) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE employers
		SET name = ?, email = ?, phone = ?, website = ?, address = ?, description = ?,
		    province_id = ?, district_id = ?, industry_id = ?,
		    logo_path = COALESCE(?, logo_path)
		WHERE id = ?
	`, e.Name, e.Email, intdb.NullIfEmpty(e.Phone), intdb.NullIfEmpty(e.Website), intdb.NullIfEmpty(e.Address),
		intdb.NullIfEmpty(e.Description), e.ProvinceID, e.DistrictID, e.IndustryID, intdb.NullIfEmpty(e.LogoPath), e.ID)
	return err
}

func (r EmployerRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, "DELETE FROM employers WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "employer")
}
