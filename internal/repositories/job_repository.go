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

type JobRepository struct {
	DB *sql.DB
}

func (r JobRepository) db() *sql.DB { return dbOrShared(r.DB) }

var jobList = listSpec{
	from: "jobs",
	sortColumns: map[listquery.SortField]string{
		listquery.SortJobTitle:     "title",
		listquery.SortJobSalaryMin: "salary_min",
		listquery.SortJobDeadline:  "deadline",
		listquery.SortCreatedAt:    "created_at",
	},
	keywordCols: []string{"title", "description"},
	filterCols: map[string]string{
		"employerId": "employer_id",
		"provinceId": "province_id",
		"districtId": "district_id",
		"industryId": "industry_id",
		"jobType":    "job_type",
		"status":     "status",
	},
	tieBreak: "id DESC",
}

const jobColumns = `id, employer_id, title, description, job_type, salary_min, salary_max,
	province_id, district_id, industry_id, COALESCE(DATE_FORMAT(deadline, '%Y-%m-%d'),''), status, created_at, updated_at`

func scanJob(s rowScanner) (models.Job, error) {
	var j models.Job
	err := s.Scan(&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.JobType, &j.SalaryMin, &j.SalaryMax,
		&j.ProvinceID, &j.DistrictID, &j.IndustryID, &j.Deadline, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func (r JobRepository) List(ctx context.Context, st listquery.State) ([]models.Job, int, error) {
	out := []models.Job{}
	total, err := list(ctx, r.db(), jobList, jobColumns, st, func(rows *sql.Rows) error {
		j, err := scanJob(rows)
		if err != nil {
			return err
		}
		out = append(out, j)
		return nil
	})
	return out, total, err
}

func (r JobRepository) GetByID(ctx context.Context, id int64) (models.Job, error) {
	j, err := scanJob(r.db().QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return j, domain.NotFoundError{Resource: "job", Err: err}
	}
	return j, err
}

func (r JobRepository) Create(ctx context.Context, j models.Job) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO jobs (employer_id, title, description, job_type, salary_min, salary_max,
			province_id, district_id, industry_id, deadline, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, j.EmployerID, j.Title, j.Description, j.JobType, j.SalaryMin, j.SalaryMax,
		j.ProvinceID, j.DistrictID, j.IndustryID, intdb.NullIfEmpty(j.Deadline), j.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r JobRepository) Update(ctx context.Context, j models.Job) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE jobs
		SET employer_id = ?, title = ?, description = ?, job_type = ?, salary_min = ?, salary_max = ?,
		    province_id = ?, district_id = ?, industry_id = ?, deadline = ?, status = ?
		WHERE id = ?
	`, j.EmployerID, j.Title, j.Description, j.JobType, j.SalaryMin, j.SalaryMax,
		j.ProvinceID, j.DistrictID, j.IndustryID, intdb.NullIfEmpty(j.Deadline), j.Status, j.ID)
	return err
}

func (r JobRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "job")
}
