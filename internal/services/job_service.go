package services

import (
	"context"
	"fmt"
	"strings"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listquery"
	"jobboard/internal/repositories"
	"jobboard/internal/utils"
)

const MsgNotYourCompany = "you can only manage jobs of your own company"

type JobService struct {
	Repo      repositories.JobRepository
	Employers repositories.EmployerRepository
	Locations repositories.LocationRepository
	Users     repositories.UserRepository
	RequestID string
	Actor     Actor
}

func (s JobService) List(ctx context.Context, st listquery.State) (domain.PagedResult[models.Job], error) {
	items, total, err := s.Repo.List(ctx, st)
	if err != nil {
		return domain.PagedResult[models.Job]{}, storeErr("list jobs", err)
	}
	return domain.NewPagedResult(items, total, st.PageSize), nil
}

func (s JobService) Get(ctx context.Context, id int64) (models.Job, error) {
	j, err := s.Repo.GetByID(ctx, id)
	return j, storeErr("load job", err)
}

func (s JobService) Create(ctx context.Context, in models.JobInput) (models.Job, error) {
	j, err := s.prepare(ctx, in)
	if err != nil {
		return models.Job{}, err
	}
	if err := s.authorize(ctx, j.EmployerID); err != nil {
		return models.Job{}, err
	}
	id, err := s.Repo.Create(ctx, j)
	if err != nil {
		return models.Job{}, storeErr("create job", err)
	}
	utils.LogEvent(s.RequestID, "job", "create", fmt.Sprintf("job_id=%d employer_id=%d", id, j.EmployerID))
	return s.Get(ctx, id)
}

func (s JobService) Update(ctx context.Context, id int64, in models.JobInput) (models.Job, error) {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Job{}, storeErr("load job", err)
	}
	if err := s.authorize(ctx, current.EmployerID); err != nil {
		return models.Job{}, err
	}
	j, err := s.prepare(ctx, in)
	if err != nil {
		return models.Job{}, err
	}
	if j.EmployerID != current.EmployerID {
		if err := s.authorize(ctx, j.EmployerID); err != nil {
			return models.Job{}, err
		}
	}
	j.ID = id
	if err := s.Repo.Update(ctx, j); err != nil {
		return models.Job{}, storeErr("update job", err)
	}
	utils.LogEvent(s.RequestID, "job", "update", fmt.Sprintf("job_id=%d", id))
	return s.Get(ctx, id)
}

func (s JobService) Delete(ctx context.Context, id int64) error {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return storeErr("load job", err)
	}
	if err := s.authorize(ctx, current.EmployerID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return storeErr("delete job", err)
	}
	utils.LogEvent(s.RequestID, "job", "delete", fmt.Sprintf("job_id=%d", id))
	return nil
}

// authorize lets an employer account touch only the jobs of the company
// registered under the same email. Other roles pass.
func (s JobService) authorize(ctx context.Context, employerID int64) error {
	if s.Actor.Role != models.RoleEmployer {
		return nil
	}
	u, err := s.Users.GetByID(ctx, s.Actor.UserID)
	if domain.IsNotFound(err) {
		return domain.Forbidden(MsgNotYourCompany)
	}
	if err != nil {
		return storeErr("load user", err)
	}
	e, err := s.Employers.GetByID(ctx, employerID)
	if err != nil {
		return storeErr("load employer", err)
	}
	if !strings.EqualFold(u.Email, e.Email) {
		return domain.Forbidden(MsgNotYourCompany)
	}
	return nil
}

func (s JobService) prepare(ctx context.Context, in models.JobInput) (models.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Deadline = strings.TrimSpace(in.Deadline)
	if in.Status == "" {
		in.Status = models.JobOpen
	}
	if err := validateInput(in); err != nil {
		return models.Job{}, err
	}
	if _, err := s.Employers.GetByID(ctx, in.EmployerID); domain.IsNotFound(err) {
		return models.Job{}, domain.Invalid("employerId", "unknown employer")
	} else if err != nil {
		return models.Job{}, storeErr("load employer", err)
	}
	if err := checkLocation(ctx, s.Locations, in.ProvinceID, in.DistrictID, in.IndustryID); err != nil {
		return models.Job{}, err
	}
	return models.Job{
		EmployerID:  in.EmployerID,
		Title:       in.Title,
		Description: in.Description,
		JobType:     in.JobType,
		SalaryMin:   in.SalaryMin,
		SalaryMax:   in.SalaryMax,
		ProvinceID:  in.ProvinceID,
		DistrictID:  in.DistrictID,
		IndustryID:  in.IndustryID,
		Deadline:    in.Deadline,
		Status:      in.Status,
	}, nil
}
