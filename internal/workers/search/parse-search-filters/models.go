// internal/workers/search/parse-search-filters/models.go
package parsesearchfilters

type Input struct {
	RawFilters map[string]interface{} `json:"rawFilters"`
}

type Output struct {
	ParsedFilters ParsedFilters `json:"parsedFilters"`
}

type ParsedFilters struct {
	Keywords    string      `json:"keywords"`
	Locations   []string    `json:"locations"`
	SalaryRange SalaryRange `json:"salaryRange"`
	Remote      bool        `json:"remote"`
	Seniority   []string    `json:"seniority"`
	SortBy      string      `json:"sortBy"`
	Pagination  Pagination  `json:"pagination"`
}

type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Pagination struct {
	Page int `json:"page"`
	Size int `json:"size"`
}
