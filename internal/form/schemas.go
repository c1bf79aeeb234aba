package form

import "jobboard/internal/listquery"

const (
	MsgInvalidEmail     = "invalid email"
	MsgInvalidURL       = "invalid url"
	MsgInvalidPhone     = "invalid phone number"
	MsgFirstApplication = "first application requires file upload"
	MsgCVLinkRequired   = "cv link is required when applying with a link"
	MsgSalaryRange      = "maximum salary must not be lower than minimum salary"
	MsgPasswordTooShort = "password must be at least 8 characters"
	MsgDistrictRequired = "district is required"
	MsgProvinceRequired = "province is required"
	MsgIndustryRequired = "industry is required"
	MsgJobRequired      = "job is required"
	phonePattern        = `^\+?[0-9]{8,15}$`
)

// Field names shared by the application form and its flow.
const (
	FieldJobID    = "jobId"
	FieldUserID   = "userId"
	FieldCV       = "cv"
	FieldCVLink   = "cvLink"
	FieldUseLink  = "useLink"
	FieldHasPrior = "hasPrior"
)

func phone() Field {
	return Field{Name: "phone", Label: "phone", Rules: []Rule{Regex(phonePattern, MsgInvalidPhone)}}
}

func location() []Field {
	return []Field{
		{Name: "provinceId", Required: true, RequiredMsg: MsgProvinceRequired},
		{Name: "districtId", Required: true, RequiredMsg: MsgDistrictRequired},
		{Name: "industryId", Required: true, RequiredMsg: MsgIndustryRequired},
	}
}

// UserSchema is the create (password required) or edit form of a user.
func UserSchema(create bool) Schema {
	return Schema{Fields: []Field{
		{Name: "fullName", Label: "full name", Required: true, Rules: []Rule{MaxLen(120, "full name is too long")}},
		{Name: "email", Label: "email", Required: true, Rules: []Rule{Email(MsgInvalidEmail), MaxLen(160, "email is too long")}},
		phone(),
		{Name: "password", Label: "password", Required: create, Rules: []Rule{
			MinLen(8, MsgPasswordTooShort),
			MaxLen(72, "password is too long"),
		}},
		{Name: "role", Label: "role", Required: true, Rules: []Rule{OneOf("invalid role", "admin", "employer", "seeker")}},
		{Name: "status", Label: "status", Rules: []Rule{OneOf("invalid status", "active", "inactive")}},
	}}
}

func EmployerSchema() Schema {
	fields := []Field{
		{Name: "name", Label: "company name", Required: true, Rules: []Rule{MaxLen(160, "company name is too long")}},
		{Name: "email", Label: "email", Required: true, Rules: []Rule{Email(MsgInvalidEmail)}},
		phone(),
		{Name: "website", Label: "website", Rules: []Rule{URL(MsgInvalidURL)}},
		{Name: "address", Label: "address", Rules: []Rule{MaxLen(255, "address is too long")}},
	}
	return Schema{Fields: append(fields, location()...)}
}

func JobSchema() Schema {
	fields := []Field{
		{Name: "employerId", Label: "employer", Required: true},
		{Name: "title", Label: "title", Required: true, Rules: []Rule{MaxLen(200, "title is too long")}},
		{Name: "description", Label: "description", Required: true},
		{Name: "jobType", Label: "job type", Required: true, Rules: []Rule{
			OneOf("invalid job type", "full_time", "part_time", "contract", "internship"),
		}},
		{Name: "salaryMin", Label: "minimum salary", Rules: []Rule{Numeric("minimum salary must be a number")}},
		{Name: "salaryMax", Label: "maximum salary", Rules: []Rule{Numeric("maximum salary must be a number")}},
		{Name: "deadline", Label: "deadline", Rules: []Rule{Date("deadline must be a date (YYYY-MM-DD)")}},
	}
	s := Schema{Fields: append(fields, location()...)}
	return s.Refine("salaryMax", MsgSalaryRange, func(d Draft) bool {
		if !d.Present("salaryMin") {
			return true
		}
		return d.Int("salaryMax") >= d.Int("salaryMin")
	})
}

// ApplicationSchema validates a job application. The flow stores whether the
// applicant applied before under FieldHasPrior; a CV file is required for a
// first application, and a link is required when applying with one.
func ApplicationSchema() Schema {
	return Schema{Fields: []Field{
		{Name: FieldJobID, Required: true, RequiredMsg: MsgJobRequired},
		{Name: FieldUserID, Label: "user", Required: true},
		{Name: "fullName", Label: "full name", Required: true, Rules: []Rule{MaxLen(120, "full name is too long")}},
		{Name: "email", Label: "email", Required: true, Rules: []Rule{Email(MsgInvalidEmail)}},
		phone(),
		{Name: "coverLetter", Label: "cover letter", Rules: []Rule{MaxLen(5000, "cover letter is too long")}},
		{
			Name:        FieldCV,
			RequiredMsg: MsgFirstApplication,
			RequiredIf:  func(d Draft) bool { return !d.Bool(FieldHasPrior) },
		},
		{
			Name:        FieldCVLink,
			RequiredMsg: MsgCVLinkRequired,
			RequiredIf:  func(d Draft) bool { return d.Bool(FieldHasPrior) && d.Bool(FieldUseLink) },
			Rules:       []Rule{URL(MsgInvalidURL)},
		},
	}}
}

// SchemaFor returns the form of entity, if it has one.
func SchemaFor(entity listquery.Entity, create bool) (Schema, bool) {
	switch entity {
	case listquery.Users:
		return UserSchema(create), true
	case listquery.Employers:
		return EmployerSchema(), true
	case listquery.Jobs:
		return JobSchema(), true
	case listquery.Applications:
		return ApplicationSchema(), true
	case listquery.Industries:
		return Schema{Fields: []Field{{Name: "name", Label: "name", Required: true, Rules: []Rule{MaxLen(120, "name is too long")}}}}, true
	}
	return Schema{}, false
}
