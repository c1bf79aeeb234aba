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

	"golang.org/x/crypto/bcrypt"
)

const MsgEmailExists = "email already exists"

type UserService struct {
	Repo      repositories.UserRepository
	RequestID string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func (s UserService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

func (s UserService) List(ctx context.Context, st listquery.State) (domain.PagedResult[models.User], error) {
	items, total, err := s.Repo.List(ctx, st)
	if err != nil {
		return domain.PagedResult[models.User]{}, storeErr("list users", err)
	}
	return domain.NewPagedResult(items, total, st.PageSize), nil
}

func (s UserService) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	return u, storeErr("load user", err)
}

func (s UserService) Create(ctx context.Context, in models.UserInput) (models.User, error) {
	in = normalizeUser(in)
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}
	if in.Password == "" {
		return models.User{}, domain.Invalid("password", "password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return models.User{}, domain.Internal("failed to hash password", err)
	}

	u := models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		Status:       in.Status,
		PasswordHash: string(hash),
	}
	id, err := s.Repo.Create(ctx, u)
	if isDuplicate(err) {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: MsgEmailExists, Err: err}
	}
	if err != nil {
		return models.User{}, storeErr("create user", err)
	}
	utils.LogEvent(s.RequestID, "user", "create", fmt.Sprintf("user_id=%d role=%s", id, u.Role))
	return s.Get(ctx, id)
}

func (s UserService) Update(ctx context.Context, id int64, in models.UserInput) (models.User, error) {
	in = normalizeUser(in)
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return models.User{}, storeErr("load user", err)
	}

	u := models.User{
		ID:       id,
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Role:     in.Role,
		Status:   in.Status,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
		if err != nil {
			return models.User{}, domain.Internal("failed to hash password", err)
		}
		u.PasswordHash = string(hash)
	}
	err := s.Repo.Update(ctx, u)
	if isDuplicate(err) {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: MsgEmailExists, Err: err}
	}
	if err != nil {
		return models.User{}, storeErr("update user", err)
	}
	utils.LogEvent(s.RequestID, "user", "update", fmt.Sprintf("user_id=%d", id))
	return s.Get(ctx, id)
}

func (s UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return storeErr("delete user", err)
	}
	utils.LogEvent(s.RequestID, "user", "delete", fmt.Sprintf("user_id=%d", id))
	return nil
}

// Authenticate checks credentials. Unknown email and wrong password return
// the same error.
func (s UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if domain.IsNotFound(err) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, storeErr("load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if u.Status == models.StatusInactive {
		return models.User{}, ErrInactiveUser
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return u, nil
}

func normalizeUser(in models.UserInput) models.UserInput {
	in.FullName = utils.NormalizeSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	return in
}
