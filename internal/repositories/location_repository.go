package repositories

import (
	"context"
	"database/sql"
	"errors"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listquery"
)

// LocationRepository serves the reference data behind the cascading selects:
// provinces, their districts, and industries.
type LocationRepository struct {
	DB *sql.DB
}

func (r LocationRepository) db() *sql.DB { return dbOrShared(r.DB) }

var (
	provinceList = listSpec{
		from:        "provinces",
		sortColumns: map[listquery.SortField]string{listquery.SortName: "name"},
		keywordCols: []string{"name"},
		tieBreak:    "id ASC",
	}
	districtList = listSpec{
		from:        "districts",
		sortColumns: map[listquery.SortField]string{listquery.SortName: "name"},
		keywordCols: []string{"name"},
		filterCols:  map[string]string{"provinceId": "province_id"},
		tieBreak:    "id ASC",
	}
	industryList = listSpec{
		from:        "industries",
		sortColumns: map[listquery.SortField]string{listquery.SortName: "name"},
		keywordCols: []string{"name"},
		tieBreak:    "id ASC",
	}
)

func (r LocationRepository) ListProvinces(ctx context.Context, st listquery.State) ([]models.Province, int, error) {
	out := []models.Province{}
	total, err := list(ctx, r.db(), provinceList, "id, name", st, func(rows *sql.Rows) error {
		var p models.Province
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, total, err
}

func (r LocationRepository) ListDistricts(ctx context.Context, st listquery.State) ([]models.District, int, error) {
	out := []models.District{}
	total, err := list(ctx, r.db(), districtList, "id, province_id, name", st, func(rows *sql.Rows) error {
		var d models.District
		if err := rows.Scan(&d.ID, &d.ProvinceID, &d.Name); err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	return out, total, err
}

func (r LocationRepository) GetDistrict(ctx context.Context, id int64) (models.District, error) {
	var d models.District
	err := r.db().QueryRowContext(ctx, "SELECT id, province_id, name FROM districts WHERE id = ?", id).
		Scan(&d.ID, &d.ProvinceID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return d, domain.NotFoundError{Resource: "district", Err: err}
	}
	return d, err
}

func (r LocationRepository) ListIndustries(ctx context.Context, st listquery.State) ([]models.Industry, int, error) {
	out := []models.Industry{}
	total, err := list(ctx, r.db(), industryList, "id, name", st, func(rows *sql.Rows) error {
		var i models.Industry
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return err
		}
		out = append(out, i)
		return nil
	})
	return out, total, err
}

func (r LocationRepository) GetIndustry(ctx context.Context, id int64) (models.Industry, error) {
	var i models.Industry
	err := r.db().QueryRowContext(ctx, "SELECT id, name FROM industries WHERE id = ?", id).Scan(&i.ID, &i.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return i, domain.NotFoundError{Resource: "industry", Err: err}
	}
	return i, err
}

func (r LocationRepository) CreateIndustry(ctx context.Context, name string) (int64, error) {
	res, err := r.db().ExecContext(ctx, "INSERT INTO industries (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r LocationRepository) UpdateIndustry(ctx context.Context, id int64, name string) error {
	_, err := r.db().ExecContext(ctx, "UPDATE industries SET name = ? WHERE id = ?", name, id)
	return err
}

func (r LocationRepository) DeleteIndustry(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, "DELETE FROM industries WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "industry")
}
