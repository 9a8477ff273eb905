// internal/workers/data-access/query-elasticsearch/queries/builders_test.go
package queries

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func buildAndDecode(t *testing.T, eq ElasticsearchQuery) map[string]interface{} {
	req, err := BuildQuery(nil, eq)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
	return body
}

func boolClauses(t *testing.T, body map[string]interface{}, key string) []interface{} {
	query := body["query"].(map[string]interface{})
	boolQuery := query["bool"].(map[string]interface{})
	clauses, _ := boolQuery[key].([]interface{})
	return clauses
}

func jobQuery(queryType string, filters map[string]interface{}) ElasticsearchQuery {
	eq := ElasticsearchQuery{
		Index:     "job-postings",
		QueryType: queryType,
		Filters:   filters,
	}
	eq.Pagination.From = 0
	eq.Pagination.Size = 20
	return eq
}

// ==========================
// Core Functionality Tests
// ==========================

func TestBuildQuery_MissingIndex(t *testing.T) {
	eq := jobQuery("job_index", map[string]interface{}{})
	eq.Index = ""

	req, err := BuildQuery(nil, eq)
	assert.ErrorIs(t, err, ErrMissingIndex)
	assert.Nil(t, req)
}

func TestBuildQuery_UnknownQueryType(t *testing.T) {
	req, err := BuildQuery(nil, jobQuery("payroll_index", map[string]interface{}{}))
	assert.ErrorIs(t, err, ErrUnknownQueryType)
	assert.Nil(t, req)
}

func TestBuildJobSearchQuery_Keywords(t *testing.T) {
	body := buildAndDecode(t, jobQuery("job_index", map[string]interface{}{
		"keywords": "golang backend",
	}))

	must := boolClauses(t, body, "must")
	require.Len(t, must, 1)

	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "golang backend", multiMatch["query"])
	assert.Equal(t, []interface{}{"title^3", "description^2", "skills"}, multiMatch["fields"])
}

func TestBuildJobSearchQuery_DefaultsToMatchAll(t *testing.T) {
	body := buildAndDecode(t, jobQuery("job_index", map[string]interface{}{}))

	must := boolClauses(t, body, "must")
	require.Len(t, must, 1)
	assert.Contains(t, must[0].(map[string]interface{}), "match_all")
}

func TestBuildJobSearchQuery_TermFilters(t *testing.T) {
	body := buildAndDecode(t, jobQuery("job_index", map[string]interface{}{
		"location":  "Berlin",
		"remote":    true,
		"seniority": "senior",
	}))

	filter := boolClauses(t, body, "filter")
	require.Len(t, filter, 3)

	terms := map[string]interface{}{}
	for _, clause := range filter {
		for field, value := range clause.(map[string]interface{})["term"].(map[string]interface{}) {
			terms[field] = value
		}
	}
	assert.Equal(t, "Berlin", terms["location"])
	assert.Equal(t, true, terms["remote"])
	assert.Equal(t, "senior", terms["seniority"])
}

func TestBuildJobSearchQuery_LocationList(t *testing.T) {
	body := buildAndDecode(t, jobQuery("job_index", map[string]interface{}{
		"locations": []interface{}{"Berlin", "Munich"},
	}))

	filter := boolClauses(t, body, "filter")
	require.Len(t, filter, 1)

	termsClause := filter[0].(map[string]interface{})["terms"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Berlin", "Munich"}, termsClause["location"])
}

func TestBuildJobSearchQuery_SalaryRange(t *testing.T) {
	tests := []struct {
		name        string
		salaryRange map[string]interface{}
		wantClause  map[string]interface{}
	}{
		{
			name:        "low cap uses containment on salary_max",
			salaryRange: map[string]interface{}{"max": float64(25000)},
			wantClause: map[string]interface{}{
				"range": map[string]interface{}{
					"salary_max": map[string]interface{}{"lte": float64(25000)},
				},
			},
		},
		{
			name:        "up-to search overlaps on salary_min",
			salaryRange: map[string]interface{}{"max": float64(90000)},
			wantClause: map[string]interface{}{
				"range": map[string]interface{}{
					"salary_min": map[string]interface{}{"lte": float64(90000)},
				},
			},
		},
		{
			name:        "min only requires band top to reach it",
			salaryRange: map[string]interface{}{"min": float64(60000)},
			wantClause: map[string]interface{}{
				"range": map[string]interface{}{
					"salary_max": map[string]interface{}{"gte": float64(60000)},
				},
			},
		},
		{
			name:        "min and max use full containment",
			salaryRange: map[string]interface{}{"min": float64(60000), "max": float64(90000)},
			wantClause: map[string]interface{}{
				"bool": map[string]interface{}{
					"must": []interface{}{
						map[string]interface{}{
							"range": map[string]interface{}{
								"salary_min": map[string]interface{}{"gte": float64(60000)},
							},
						},
						map[string]interface{}{
							"range": map[string]interface{}{
								"salary_max": map[string]interface{}{"lte": float64(90000)},
							},
						},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := buildAndDecode(t, jobQuery("job_index", map[string]interface{}{
				"salaryRange": tt.salaryRange,
			}))

			filter := boolClauses(t, body, "filter")
			require.Len(t, filter, 1)
			assert.Equal(t, tt.wantClause, filter[0])
		})
	}
}

func TestBuildJobSearchQuery_InvertedRangeIsIgnored(t *testing.T) {
	body := buildAndDecode(t, jobQuery("job_index", map[string]interface{}{
		"salaryRange": map[string]interface{}{"min": float64(90000), "max": float64(60000)},
	}))

	assert.Empty(t, boolClauses(t, body, "filter"))
}

func TestBuildJobSearchQuery_Sorting(t *testing.T) {
	tests := []struct {
		sortBy string
		field  string
		order  string
	}{
		{"posted_at", "posted_at", "desc"},
		{"salary_min", "salary_min", "asc"},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			body := buildAndDecode(t, jobQuery("job_index", map[string]interface{}{
				"sortBy": tt.sortBy,
			}))

			sort := body["sort"].([]interface{})
			require.Len(t, sort, 1)
			assert.Equal(t, tt.order, sort[0].(map[string]interface{})[tt.field])
		})
	}
}

func TestBuildJobSearchQuery_UnknownSortIsDropped(t *testing.T) {
	body := buildAndDecode(t, jobQuery("job_index", map[string]interface{}{
		"sortBy": "relevance",
	}))

	_, hasSort := body["sort"]
	assert.False(t, hasSort)
}

func TestBuildRelatedJobsQuery(t *testing.T) {
	eq := jobQuery("related_jobs", map[string]interface{}{})
	eq.JobID = "job-001"

	body := buildAndDecode(t, eq)
	query := body["query"].(map[string]interface{})
	mlt := query["more_like_this"].(map[string]interface{})

	assert.Equal(t, []interface{}{"title", "description", "skills"}, mlt["fields"])
	like := mlt["like"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "job-postings", like["_index"])
	assert.Equal(t, "job-001", like["_id"])
}

func TestBuildRelatedJobsQuery_NoJobIDMatchesNothing(t *testing.T) {
	body := buildAndDecode(t, jobQuery("related_jobs", map[string]interface{}{}))

	query := body["query"].(map[string]interface{})
	assert.Contains(t, query, "match_none")
}
