package services

import (
	"context"
	"fmt"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listquery"
	"jobboard/internal/repositories"
	"jobboard/internal/utils"
)

const MsgIndustryExists = "industry already exists"

// LocationService exposes the option lists for provinces, districts and
// industries. Only industries are editable.
type LocationService struct {
	Repo      repositories.LocationRepository
	RequestID string
}

func (s LocationService) Provinces(ctx context.Context, st listquery.State) (domain.PagedResult[models.Province], error) {
	items, total, err := s.Repo.ListProvinces(ctx, st)
	if err != nil {
		return domain.PagedResult[models.Province]{}, storeErr("list provinces", err)
	}
	return domain.NewPagedResult(items, total, st.PageSize), nil
}

// Districts lists the districts matching st. The provinceId filter narrows
// them to one province.
func (s LocationService) Districts(ctx context.Context, st listquery.State) (domain.PagedResult[models.District], error) {
	items, total, err := s.Repo.ListDistricts(ctx, st)
	if err != nil {
		return domain.PagedResult[models.District]{}, storeErr("list districts", err)
	}
	return domain.NewPagedResult(items, total, st.PageSize), nil
}

func (s LocationService) Industries(ctx context.Context, st listquery.State) (domain.PagedResult[models.Industry], error) {
	items, total, err := s.Repo.ListIndustries(ctx, st)
	if err != nil {
		return domain.PagedResult[models.Industry]{}, storeErr("list industries", err)
	}
	return domain.NewPagedResult(items, total, st.PageSize), nil
}

func (s LocationService) Industry(ctx context.Context, id int64) (models.Industry, error) {
	i, err := s.Repo.GetIndustry(ctx, id)
	return i, storeErr("load industry", err)
}

func (s LocationService) CreateIndustry(ctx context.Context, in models.IndustryInput) (models.Industry, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validateInput(in); err != nil {
		return models.Industry{}, err
	}
	id, err := s.Repo.CreateIndustry(ctx, in.Name)
	if err != nil {
		if isDuplicate(err) {
			return models.Industry{}, domain.ConflictError{Resource: "industry", Msg: MsgIndustryExists, Err: err}
		}
		return models.Industry{}, storeErr("create industry", err)
	}
	utils.LogEvent(s.RequestID, "industry", "create", fmt.Sprintf("industry_id=%d", id))
	return models.Industry{ID: id, Name: in.Name}, nil
}

func (s LocationService) UpdateIndustry(ctx context.Context, id int64, in models.IndustryInput) (models.Industry, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	if err := validateInput(in); err != nil {
		return models.Industry{}, err
	}
	if _, err := s.Repo.GetIndustry(ctx, id); err != nil {
		return models.Industry{}, storeErr("load industry", err)
	}
	if err := s.Repo.UpdateIndustry(ctx, id, in.Name); err != nil {
		if isDuplicate(err) {
			return models.Industry{}, domain.ConflictError{Resource: "industry", Msg: MsgIndustryExists, Err: err}
		}
		return models.Industry{}, storeErr("update industry", err)
	}
	utils.LogEvent(s.RequestID, "industry", "update", fmt.Sprintf("industry_id=%d", id))
	return models.Industry{ID: id, Name: in.Name}, nil
}

func (s LocationService) DeleteIndustry(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteIndustry(ctx, id); err != nil {
		return storeErr("delete industry", err)
	}
	utils.LogEvent(s.RequestID, "industry", "delete", fmt.Sprintf("industry_id=%d", id))
	return nil
}
