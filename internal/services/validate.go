package services

import (
	"errors"
	"reflect"
	"strings"

	"jobboard/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs the struct tags of in and reports every failing field
// under its JSON name. Messages name the field ("email is required").
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationError{Msg: "invalid payload", Err: err}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, dup := fields[fe.Field()]; !dup {
			fields[fe.Field()] = fe.Field() + " " + fieldMessage(fe)
		}
	}
	first := verrs[0]
	return domain.ValidationError{Field: first.Field(), Msg: fields[first.Field()], Fields: fields, Err: err}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gt", "gte":
		return "must be greater than " + fe.Param()
	case "gtefield":
		return "must not be lower than " + fe.Param()
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	default:
		return "is invalid"
	}
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// storeErr wraps unexpected repository failures so handlers never echo them.
func storeErr(action string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsNotFound(err) || domain.IsConflict(err) || domain.IsValidation(err) || domain.IsForbidden(err) {
		return err
	}
	return domain.Internal("failed to "+action, err)
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("account is inactive")
)
