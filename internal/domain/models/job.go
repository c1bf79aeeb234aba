package models

import "time"

const (
	JobOpen   = "open"
	JobClosed = "closed"
)

type Job struct {
	ID          int64     `json:"id"`
	EmployerID  int64     `json:"employerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	JobType     string    `json:"jobType"`
	SalaryMin   int64     `json:"salaryMin"`
	SalaryMax   int64     `json:"salaryMax"`
	ProvinceID  int64     `json:"provinceId"`
	DistrictID  int64     `json:"districtId"`
	IndustryID  int64     `json:"industryId"`
	Deadline    string    `json:"deadline"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type JobInput struct {
	EmployerID  int64  `json:"employerId" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=10000"`
	JobType     string `json:"jobType" validate:"required,oneof=full_time part_time contract internship"`
	SalaryMin   int64  `json:"salaryMin" validate:"gte=0"`
	SalaryMax   int64  `json:"salaryMax" validate:"gtefield=SalaryMin"`
	ProvinceID  int64  `json:"provinceId" validate:"required,gt=0"`
	DistrictID  int64  `json:"districtId" validate:"required,gt=0"`
	IndustryID  int64  `json:"industryId" validate:"required,gt=0"`
	Deadline    string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status" validate:"omitempty,oneof=open closed"`
}
