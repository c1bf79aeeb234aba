package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployer = "employer"
	RoleSeeker   = "seeker"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserInput is the create/update payload. Password is required on create and
// optional on update, where an empty value keeps the stored hash.
type UserInput struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=160"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin employer seeker"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}
