package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUserDraft() Draft {
	return Draft{
		"fullName": "Rina Wulandari",
		"email":    "rina@example.com",
		"password": "s3cretpass",
		"role":     "seeker",
	}
}

func TestUserSchema_InvalidEmailBlocksSubmit(t *testing.T) {
	d := validUserDraft()
	d["email"] = "not-an-email"
	require.Len(t, d.String("password"), 10)

	errs := UserSchema(true).Validate(d)

	require.Equal(t, 1, errs.Len())
	msg, ok := errs.Get("email")
	require.True(t, ok)
	assert.Equal(t, MsgInvalidEmail, msg)

	field, first, ok := errs.First()
	require.True(t, ok)
	assert.Equal(t, "email", field)
	assert.Equal(t, MsgInvalidEmail, first)
}

func TestUserSchema_PasswordOnlyRequiredOnCreate(t *testing.T) {
	d := validUserDraft()
	delete(d, "password")

	errs := UserSchema(true).Validate(d)
	msg, ok := errs.Get("password")
	require.True(t, ok)
	assert.Equal(t, "password is required", msg)

	assert.True(t, UserSchema(false).Validate(d).Empty())

	d["password"] = "short"
	msg, bad := UserSchema(false).ValidateField("password", d)
	assert.True(t, bad)
	assert.Equal(t, MsgPasswordTooShort, msg)
}

func TestSchema_FirstFollowsSchemaOrder(t *testing.T) {
	errs := UserSchema(true).Validate(Draft{"role": "superuser", "phone": "12"})

	assert.Equal(t, []string{"fullName", "email", "phone", "password", "role"}, errs.Fields())
	field, msg, _ := errs.First()
	assert.Equal(t, "fullName", field)
	assert.Equal(t, "full name is required", msg)
}

func TestErrorSet_ClearFieldByField(t *testing.T) {
	s := UserSchema(true)
	d := Draft{}
	errs := s.Validate(d)
	require.False(t, errs.Empty())

	d["fullName"] = "Agus"
	if _, bad := s.ValidateField("fullName", d); !bad {
		errs.Clear("fullName")
	}
	_, still := errs.Get("fullName")
	assert.False(t, still)
	field, _, _ := errs.First()
	assert.Equal(t, "email", field)
}

func TestApplicationSchema_ConditionalCV(t *testing.T) {
	base := Draft{
		FieldJobID:  int64(4),
		FieldUserID: int64(9),
		"fullName":  "Sari",
		"email":     "sari@example.com",
	}

	t.Run("first application without file", func(t *testing.T) {
		errs := ApplicationSchema().Validate(base.Clone())
		msg, ok := errs.Get(FieldCV)
		require.True(t, ok)
		assert.Equal(t, MsgFirstApplication, msg)
	})

	t.Run("first application with file", func(t *testing.T) {
		d := base.Clone()
		d[FieldCV] = "cv.pdf"
		assert.True(t, ApplicationSchema().Validate(d).Empty())
	})

	t.Run("prior application reuses cv", func(t *testing.T) {
		d := base.Clone()
		d[FieldHasPrior] = true
		assert.True(t, ApplicationSchema().Validate(d).Empty())
	})

	t.Run("prior application with link needs link", func(t *testing.T) {
		d := base.Clone()
		d[FieldHasPrior] = true
		d[FieldUseLink] = true
		errs := ApplicationSchema().Validate(d)
		msg, ok := errs.Get(FieldCVLink)
		require.True(t, ok)
		assert.Equal(t, MsgCVLinkRequired, msg)

		d[FieldCVLink] = "https://drive.example.com/cv"
		assert.True(t, ApplicationSchema().Validate(d).Empty())
	})

	t.Run("missing job", func(t *testing.T) {
		d := base.Clone()
		delete(d, FieldJobID)
		d[FieldCV] = "cv.pdf"
		msg, ok := ApplicationSchema().Validate(d).Get(FieldJobID)
		require.True(t, ok)
		assert.Equal(t, MsgJobRequired, msg)
	})
}

func TestJobSchema_SalaryRefinement(t *testing.T) {
	d := Draft{
		"employerId":  1,
		"title":       "Backend Engineer",
		"description": "Build APIs",
		"jobType":     "full_time",
		"salaryMin":   "9000000",
		"salaryMax":   "7000000",
		"provinceId":  "31",
		"districtId":  "3171",
		"industryId":  "2",
		"deadline":    "2026-12-31",
	}

	errs := JobSchema().Validate(d)
	require.Equal(t, 1, errs.Len())
	msg, _ := errs.Get("salaryMax")
	assert.Equal(t, MsgSalaryRange, msg)

	d["salaryMax"] = "12000000"
	assert.True(t, JobSchema().Validate(d).Empty())

	d["deadline"] = "31/12/2026"
	msg, bad := JobSchema().ValidateField("deadline", d)
	assert.True(t, bad)
	assert.Contains(t, msg, "YYYY-MM-DD")
}

func TestEmployerSchema_DependentLocationFields(t *testing.T) {
	d := Draft{"name": "PT Maju", "email": "hr@maju.co.id", "website": "maju", "provinceId": "31"}

	errs := EmployerSchema().Validate(d)
	msg, _ := errs.Get("website")
	assert.Equal(t, MsgInvalidURL, msg)
	msg, _ = errs.Get("districtId")
	assert.Equal(t, MsgDistrictRequired, msg)
	_, provinceBad := errs.Get("provinceId")
	assert.False(t, provinceBad)
}

func TestSchema_Dependents(t *testing.T) {
	assert.Equal(t, []string{FieldCV, FieldCVLink}, ApplicationSchema().Dependents())
	assert.Equal(t, []string{"salaryMax"}, JobSchema().Dependents())
}

func TestDraft_Conversions(t *testing.T) {
	d := Draft{"a": int64(12), "b": " x ", "c": "true", "d": 3.5, "e": nil}
	assert.Equal(t, "12", d.String("a"))
	assert.Equal(t, "x", d.String("b"))
	assert.True(t, d.Bool("c"))
	assert.Equal(t, "3.5", d.String("d"))
	assert.Equal(t, int64(12), d.Int("a"))
	assert.False(t, d.Present("e"))
	assert.False(t, d.Present("missing"))
}
