package models

import "time"

type Employer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Website     string    `json:"website"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	ProvinceID  int64     `json:"provinceId"`
	DistrictID  int64     `json:"districtId"`
	IndustryID  int64     `json:"industryId"`
	LogoPath    string    `json:"logoPath"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type EmployerInput struct {
	Name        string `json:"name" validate:"required,max=160"`
	Email       string `json:"email" validate:"required,email,max=160"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	Website     string `json:"website" validate:"omitempty,url"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	ProvinceID  int64  `json:"provinceId" validate:"required,gt=0"`
	DistrictID  int64  `json:"districtId" validate:"required,gt=0"`
	IndustryID  int64  `json:"industryId" validate:"required,gt=0"`
}
