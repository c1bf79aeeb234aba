package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/form"
	"jobboard/internal/listquery"
	"jobboard/internal/repositories"
	"jobboard/internal/storage"
	"jobboard/internal/utils"
)

const (
	MsgFirstApplication = form.MsgFirstApplication
	MsgCVLinkRequired   = form.MsgCVLinkRequired
	MsgAlreadyApplied   = "you have already applied for this job"
	MsgJobClosed        = "this job is no longer accepting applications"

	MsgNotYourApplication = "you can only access your own applications"
)

type ApplicationService struct {
	Repo      repositories.ApplicationRepository
	Jobs      repositories.JobRepository
	Files     storage.Store
	RequestID string
	Actor     Actor
}

// List pages applications. A restricted caller only ever sees its own.
func (s ApplicationService) List(ctx context.Context, st listquery.State) (domain.PagedResult[models.Application], error) {
	if s.Actor.restricted() {
		st = st.Clone()
		st.Filters["userId"] = strconv.FormatInt(s.Actor.UserID, 10)
	}
	items, total, err := s.Repo.List(ctx, st)
	if err != nil {
		return domain.PagedResult[models.Application]{}, storeErr("list applications", err)
	}
	return domain.NewPagedResult(items, total, st.PageSize), nil
}

func (s ApplicationService) Get(ctx context.Context, id int64) (models.Application, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Application{}, storeErr("load application", err)
	}
	if s.Actor.restricted() && a.UserID != s.Actor.UserID {
		return models.Application{}, domain.Forbidden(MsgNotYourApplication)
	}
	return a, nil
}

// Prior reports the CV on record for userID. jobID must exist. A restricted
// caller is always asked about itself.
func (s ApplicationService) Prior(ctx context.Context, jobID, userID int64) (models.PriorApplication, error) {
	if s.Actor.restricted() {
		userID = s.Actor.UserID
	}
	if _, err := s.Jobs.GetByID(ctx, jobID); err != nil {
		return models.PriorApplication{}, storeErr("load job", err)
	}
	return s.priorFor(ctx, userID)
}

func (s ApplicationService) priorFor(ctx context.Context, userID int64) (models.PriorApplication, error) {
	prev, err := s.Repo.LatestByUser(ctx, userID)
	if domain.IsNotFound(err) {
		return models.PriorApplication{}, nil
	}
	if err != nil {
		return models.PriorApplication{}, storeErr("load prior application", err)
	}
	return models.PriorApplication{HasPrior: true, CVPath: prev.CVPath, CVLink: prev.CVLink}, nil
}

// Create submits an application. The CV comes from, in order: the uploaded
// file, the link when UseLink is set, or the applicant's previous
// application. A first application must upload a file.
func (s ApplicationService) Create(ctx context.Context, in models.ApplicationInput, cv *storage.Upload) (models.Application, error) {
	in = normalizeApplication(in)
	in.Status = models.ApplicationPending
	if s.Actor.restricted() {
		in.UserID = s.Actor.UserID
	}
	if err := validateInput(in); err != nil {
		return models.Application{}, err
	}

	job, err := s.Jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return models.Application{}, storeErr("load job", err)
	}
	if job.Status == models.JobClosed || utils.PastDeadline(job.Deadline, time.Now()) {
		return models.Application{}, domain.Invalid("jobId", MsgJobClosed)
	}

	prior, err := s.priorFor(ctx, in.UserID)
	if err != nil {
		return models.Application{}, err
	}

	a := models.Application{
		JobID:       in.JobID,
		UserID:      in.UserID,
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       in.Phone,
		CoverLetter: in.CoverLetter,
		Status:      in.Status,
	}
	saved := ""
	switch {
	case cv != nil:
		saved, err = s.saveCV(cv)
		if err != nil {
			return models.Application{}, err
		}
		a.CVPath = saved
	case !prior.HasPrior:
		return models.Application{}, domain.Invalid(form.FieldCV, MsgFirstApplication)
	case in.UseLink:
		if in.CVLink == "" {
			return models.Application{}, domain.Invalid(form.FieldCVLink, MsgCVLinkRequired)
		}
		a.CVLink = in.CVLink
	default:
		a.CVPath = prior.CVPath
		a.CVLink = prior.CVLink
	}

	id, err := s.Repo.Create(ctx, a)
	if err != nil {
		s.removeFile(saved)
		if isDuplicate(err) {
			return models.Application{}, domain.ConflictError{Resource: "application", Msg: MsgAlreadyApplied, Err: err}
		}
		return models.Application{}, storeErr("create application", err)
	}
	utils.LogEvent(s.RequestID, "application", "create",
		fmt.Sprintf("application_id=%d job_id=%d user_id=%d link=%t", id, a.JobID, a.UserID, a.CVLink != ""))
	return s.Get(ctx, id)
}

// Update edits applicant details and status. A new file replaces the stored CV.
func (s ApplicationService) Update(ctx context.Context, id int64, in models.ApplicationInput, cv *storage.Upload) (models.Application, error) {
	in = normalizeApplication(in)
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Application{}, storeErr("load application", err)
	}
	in.JobID, in.UserID = current.JobID, current.UserID
	if in.Status == "" {
		in.Status = current.Status
	}
	if err := validateInput(in); err != nil {
		return models.Application{}, err
	}

	a := current
	a.FullName = in.FullName
	a.Email = in.Email
	a.Phone = in.Phone
	a.CoverLetter = in.CoverLetter
	a.Status = in.Status
	if in.UseLink {
		if in.CVLink == "" {
			return models.Application{}, domain.Invalid(form.FieldCVLink, MsgCVLinkRequired)
		}
		a.CVLink = in.CVLink
	}
	saved := ""
	if cv != nil {
		if saved, err = s.saveCV(cv); err != nil {
			return models.Application{}, err
		}
		a.CVPath = saved
	}

	if err := s.Repo.Update(ctx, a); err != nil {
		s.removeFile(saved)
		return models.Application{}, storeErr("update application", err)
	}
	if saved != "" && !s.cvShared(ctx, current.CVPath, id) {
		s.removeFile(current.CVPath)
	}
	utils.LogEvent(s.RequestID, "application", "update", fmt.Sprintf("application_id=%d status=%s", id, a.Status))
	return s.Get(ctx, id)
}

func (s ApplicationService) Delete(ctx context.Context, id int64) error {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return storeErr("load application", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return storeErr("delete application", err)
	}
	if !s.cvShared(ctx, current.CVPath, id) {
		s.removeFile(current.CVPath)
	}
	utils.LogEvent(s.RequestID, "application", "delete", fmt.Sprintf("application_id=%d", id))
	return nil
}

// cvShared reports whether any application other than id still points at
// path. A failed lookup counts as shared so the file is kept.
func (s ApplicationService) cvShared(ctx context.Context, path string, id int64) bool {
	if path == "" {
		return true
	}
	n, err := s.Repo.CountSharingCV(ctx, path, id)
	if err != nil {
		utils.LogEvent(s.RequestID, "application", "cv_shared", "lookup failed: "+err.Error())
		return true
	}
	return n > 0
}

func (s ApplicationService) saveCV(cv *storage.Upload) (string, error) {
	if s.Files == nil {
		return "", domain.Internal("file storage is not configured", nil)
	}
	path, err := s.Files.Save(storage.KindCV, *cv)
	if err != nil {
		return "", uploadErr("cv", err)
	}
	return path, nil
}

func (s ApplicationService) removeFile(path string) {
	if path == "" || s.Files == nil {
		return
	}
	if err := s.Files.Remove(path); err != nil {
		utils.LogEvent(s.RequestID, "application", "remove_file", "failed: "+err.Error())
	}
}

func normalizeApplication(in models.ApplicationInput) models.ApplicationInput {
	in.FullName = utils.NormalizeSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)
	in.CVLink = strings.TrimSpace(in.CVLink)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	return in
}
