package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listquery"
	"jobboard/internal/repositories"
	"jobboard/internal/storage"
	"jobboard/internal/utils"
)

type EmployerService struct {
	Repo      repositories.EmployerRepository
	Locations repositories.LocationRepository
	Files     storage.Store
	RequestID string
}

func (s EmployerService) List(ctx context.Context, st listquery.State) (domain.PagedResult[models.Employer], error) {
	items, total, err := s.Repo.List(ctx, st)
	if err != nil {
		return domain.PagedResult[models.Employer]{}, storeErr("list employers", err)
	}
	return domain.NewPagedResult(items, total, st.PageSize), nil
}

func (s EmployerService) Get(ctx context.Context, id int64) (models.Employer, error) {
	e, err := s.Repo.GetByID(ctx, id)
	return e, storeErr("load employer", err)
}

// Create stores the employer and its optional logo. The logo is removed
// again when the insert fails.
func (s EmployerService) Create(ctx context.Context, in models.EmployerInput, logo *storage.Upload) (models.Employer, error) {
	in = normalizeEmployer(in)
	if err := validateInput(in); err != nil {
		return models.Employer{}, err
	}
	if err := checkLocation(ctx, s.Locations, in.ProvinceID, in.DistrictID, in.IndustryID); err != nil {
		return models.Employer{}, err
	}

	e := employerFromInput(in)
	path, err := s.saveLogo(logo)
	if err != nil {
		return models.Employer{}, err
	}
	e.LogoPath = path

	id, err := s.Repo.Create(ctx, e)
	if err != nil {
		s.removeFile(path)
		if isDuplicate(err) {
			return models.Employer{}, domain.ConflictError{Resource: "employer", Msg: MsgEmailExists, Err: err}
		}
		return models.Employer{}, storeErr("create employer", err)
	}
	utils.LogEvent(s.RequestID, "employer", "create", fmt.Sprintf("employer_id=%d", id))
	return s.Get(ctx, id)
}

// Update keeps the stored logo unless a new one is uploaded.
func (s EmployerService) Update(ctx context.Context, id int64, in models.EmployerInput, logo *storage.Upload) (models.Employer, error) {
	in = normalizeEmployer(in)
	if err := validateInput(in); err != nil {
		return models.Employer{}, err
	}
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Employer{}, storeErr("load employer", err)
	}
	if err := checkLocation(ctx, s.Locations, in.ProvinceID, in.DistrictID, in.IndustryID); err != nil {
		return models.Employer{}, err
	}

	e := employerFromInput(in)
	e.ID = id
	path, err := s.saveLogo(logo)
	if err != nil {
		return models.Employer{}, err
	}
	e.LogoPath = path

	if err := s.Repo.Update(ctx, e); err != nil {
		s.removeFile(path)
		if isDuplicate(err) {
			return models.Employer{}, domain.ConflictError{Resource: "employer", Msg: MsgEmailExists, Err: err}
		}
		return models.Employer{}, storeErr("update employer", err)
	}
	if path != "" {
		s.removeFile(current.LogoPath)
	}
	utils.LogEvent(s.RequestID, "employer", "update", fmt.Sprintf("employer_id=%d", id))
	return s.Get(ctx, id)
}

func (s EmployerService) Delete(ctx context.Context, id int64) error {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return storeErr("load employer", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return storeErr("delete employer", err)
	}
	s.removeFile(current.LogoPath)
	utils.LogEvent(s.RequestID, "employer", "delete", fmt.Sprintf("employer_id=%d", id))
	return nil
}

func (s EmployerService) saveLogo(logo *storage.Upload) (string, error) {
	if logo == nil {
		return "", nil
	}
	if s.Files == nil {
		return "", domain.Internal("file storage is not configured", nil)
	}
	path, err := s.Files.Save(storage.KindLogo, *logo)
	if err != nil {
		return "", uploadErr("logo", err)
	}
	return path, nil
}

func (s EmployerService) removeFile(path string) {
	if path == "" || s.Files == nil {
		return
	}
	if err := s.Files.Remove(path); err != nil {
		utils.LogEvent(s.RequestID, "employer", "remove_file", "failed: "+err.Error())
	}
}

func employerFromInput(in models.EmployerInput) models.Employer {
	return models.Employer{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Website:     in.Website,
		Address:     in.Address,
		Description: in.Description,
		ProvinceID:  in.ProvinceID,
		DistrictID:  in.DistrictID,
		IndustryID:  in.IndustryID,
	}
}

func normalizeEmployer(in models.EmployerInput) models.EmployerInput {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Website = strings.TrimSpace(in.Website)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

// checkLocation rejects a district that does not belong to the province and
// unknown industries.
func checkLocation(ctx context.Context, repo repositories.LocationRepository, provinceID, districtID, industryID int64) error {
	d, err := repo.GetDistrict(ctx, districtID)
	if domain.IsNotFound(err) {
		return domain.Invalid("districtId", "unknown district")
	}
	if err != nil {
		return storeErr("load district", err)
	}
	if d.ProvinceID != provinceID {
		return domain.Invalid("districtId", "district does not belong to the selected province")
	}
	if industryID > 0 {
		if _, err := repo.GetIndustry(ctx, industryID); domain.IsNotFound(err) {
			return domain.Invalid("industryId", "unknown industry")
		} else if err != nil {
			return storeErr("load industry", err)
		}
	}
	return nil
}

func uploadErr(field string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrTooLarge):
		return domain.ValidationError{Field: field, Msg: "file is too large", Err: err}
	case errors.Is(err, storage.ErrUnsupportedType):
		return domain.ValidationError{Field: field, Msg: "file type is not allowed", Err: err}
	default:
		return domain.Internal("failed to store "+field, err)
	}
}
