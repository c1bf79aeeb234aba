package models

import "time"

const (
	ApplicationPending  = "pending"
	ApplicationReviewed = "reviewed"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"jobId"`
	UserID      int64     `json:"userId"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CoverLetter string    `json:"coverLetter"`
	CVPath      string    `json:"cvPath"`
	CVLink      string    `json:"cvLink"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ApplicationInput is the submission payload. With UseLink the CV is taken
// from CVLink instead of an uploaded file.
type ApplicationInput struct {
	JobID       int64  `json:"jobId" validate:"required,gt=0"`
	UserID      int64  `json:"userId" validate:"required,gt=0"`
	FullName    string `json:"fullName" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	CoverLetter string `json:"coverLetter" validate:"omitempty,max=5000"`
	UseLink     bool   `json:"useLink"`
	CVLink      string `json:"cvLink" validate:"omitempty,url"`
	Status      string `json:"status" validate:"omitempty,oneof=pending reviewed accepted rejected"`
}

// PriorApplication tells the form whether the user already applied before and
// which CV is on record.
type PriorApplication struct {
	HasPrior bool   `json:"hasPrior"`
	CVPath   string `json:"cvPath"`
	CVLink   string `json:"cvLink"`
}
