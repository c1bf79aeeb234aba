package listquery

// Entity names a backend-managed record type and doubles as its REST path segment.
type Entity string

const (
	Users        Entity = "users"
	Employers    Entity = "employers"
	Jobs         Entity = "jobs"
	Applications Entity = "applications"
	Provinces    Entity = "provinces"
	Districts    Entity = "districts"
	Industries   Entity = "industries"
)

// Direction is a sort direction. The zero value means "cycle" when passed to ToggleSort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// SortField is a sortable column name as sent to the backend.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortName      SortField = "name"

	SortUserFullName SortField = "fullName"
	SortUserEmail    SortField = "email"
	SortUserRole     SortField = "role"

	SortJobTitle     SortField = "title"
	SortJobSalaryMin SortField = "salaryMin"
	SortJobDeadline  SortField = "deadline"

	SortApplicationStatus SortField = "status"
)

// Sort is one entry of a multi-column sort. Position in the list is precedence.
type Sort struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

const DefaultPageSize = 10

// PageSizes lists the accepted page sizes.
var PageSizes = []int{10, 25, 50, 100}

func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Schema declares what a list page of one entity may sort and filter on.
type Schema struct {
	Entity       Entity
	SortFields   []SortField
	FilterKeys   []string
	DefaultSorts []Sort
}

func (s Schema) HasSortField(f SortField) bool {
	for _, sf := range s.SortFields {
		if sf == f {
			return true
		}
	}
	return false
}

func (s Schema) HasFilter(key string) bool {
	for _, k := range s.FilterKeys {
		if k == key {
			return true
		}
	}
	return false
}

var newestFirst = []Sort{{Field: SortCreatedAt, Direction: Desc}}

var (
	UserSchema = Schema{
		Entity:       Users,
		SortFields:   []SortField{SortUserFullName, SortUserEmail, SortUserRole, SortCreatedAt},
		FilterKeys:   []string{"role", "status"},
		DefaultSorts: newestFirst,
	}
	EmployerSchema = Schema{
		Entity:       Employers,
		SortFields:   []SortField{SortName, SortCreatedAt},
		FilterKeys:   []string{"provinceId", "districtId", "industryId"},
		DefaultSorts: newestFirst,
	}
	JobSchema = Schema{
		Entity:       Jobs,
		SortFields:   []SortField{SortJobTitle, SortJobSalaryMin, SortJobDeadline, SortCreatedAt},
		FilterKeys:   []string{"employerId", "provinceId", "districtId", "industryId", "jobType", "status"},
		DefaultSorts: newestFirst,
	}
	ApplicationSchema = Schema{
		Entity:       Applications,
		SortFields:   []SortField{SortApplicationStatus, SortCreatedAt},
		FilterKeys:   []string{"jobId", "userId", "status"},
		DefaultSorts: newestFirst,
	}
	ProvinceSchema = Schema{
		Entity:       Provinces,
		SortFields:   []SortField{SortName},
		DefaultSorts: []Sort{{Field: SortName, Direction: Asc}},
	}
	DistrictSchema = Schema{
		Entity:       Districts,
		SortFields:   []SortField{SortName},
		FilterKeys:   []string{"provinceId"},
		DefaultSorts: []Sort{{Field: SortName, Direction: Asc}},
	}
	IndustrySchema = Schema{
		Entity:       Industries,
		SortFields:   []SortField{SortName},
		DefaultSorts: []Sort{{Field: SortName, Direction: Asc}},
	}
)

var schemas = map[Entity]Schema{
	Users:        UserSchema,
	Employers:    EmployerSchema,
	Jobs:         JobSchema,
	Applications: ApplicationSchema,
	Provinces:    ProvinceSchema,
	Districts:    DistrictSchema,
	Industries:   IndustrySchema,
}

// SchemaFor returns the list schema registered for entity.
func SchemaFor(e Entity) (Schema, bool) {
	s, ok := schemas[e]
	return s, ok
}
