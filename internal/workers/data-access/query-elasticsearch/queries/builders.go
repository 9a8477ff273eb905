package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ElasticsearchQuery defines the structure of a query request
type ElasticsearchQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	JobID      string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, eq ElasticsearchQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "job_index":
		queryBody = buildJobSearchQuery(eq)
	case "related_jobs":
		queryBody = buildRelatedJobsQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{eq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &eq.Pagination.From,
		Size:   &eq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildJobSearchQuery builds the main job-posting search query dynamically
func buildJobSearchQuery(eq ElasticsearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search
	if keywords, ok := eq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"title^3", "description^2", "skills"},
				"type":   "best_fields",
			},
		})
	}

	// Location filter: single term or a list
	if location, ok := eq.Filters["location"].(string); ok && location != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"location": location},
		})
	} else if locations, ok := eq.Filters["locations"].([]interface{}); ok && len(locations) > 0 {
		terms := make([]string, 0, len(locations))
		for _, loc := range locations {
			if s, ok := loc.(string); ok {
				terms = append(terms, s)
			}
		}
		if len(terms) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{"location": terms},
			})
		}
	}

	// Remote filter
	if remote, ok := eq.Filters["remote"].(bool); ok {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"remote": remote},
		})
	}

	// Seniority filter
	if seniority, ok := eq.Filters["seniority"].(string); ok && seniority != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"seniority": seniority},
		})
	}

	// Salary range filter
	if salRange, ok := eq.Filters["salaryRange"].(map[string]interface{}); ok {
		minRaw, minExists := salRange["min"]
		maxRaw, maxExists := salRange["max"]

		var minVal, maxVal float64
		if minExists {
			switch v := minRaw.(type) {
			case float64:
				minVal = v
			case int:
				minVal = float64(v)
			case int64:
				minVal = float64(v)
			}
		}
		if maxExists {
			switch v := maxRaw.(type) {
			case float64:
				maxVal = v
			case int:
				maxVal = float64(v)
			case int64:
				maxVal = float64(v)
			}
		}

		switch {
		// Only max: entry-level caps want containment, everything else is
		// an "up to" search that should still match overlapping bands.
		case maxExists && maxVal > 0 && (!minExists || (minExists && minVal == 0)):
			if maxVal <= 30000 {
				filterClauses = append(filterClauses, map[string]interface{}{
					"range": map[string]interface{}{
						"salary_max": map[string]interface{}{"lte": maxVal},
					},
				})
			} else {
				filterClauses = append(filterClauses, map[string]interface{}{
					"range": map[string]interface{}{
						"salary_min": map[string]interface{}{"lte": maxVal},
					},
				})
			}

		// Both min & max: full containment (only when min > 0)
		case minExists && maxExists && minVal > 0 && maxVal > 0 && minVal <= maxVal:
			filterClauses = append(filterClauses, map[string]interface{}{
				"bool": map[string]interface{}{
					"must": []interface{}{
						map[string]interface{}{
							"range": map[string]interface{}{
								"salary_min": map[string]interface{}{"gte": minVal},
							},
						},
						map[string]interface{}{
							"range": map[string]interface{}{
								"salary_max": map[string]interface{}{"lte": maxVal},
							},
						},
					},
				},
			})

		// Only min: the posting's top of band must reach it
		case minExists && !maxExists && minVal > 0:
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{
					"salary_max": map[string]interface{}{"gte": minVal},
				},
			})
		}
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := eq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "posted_at":
			query["sort"] = []map[string]interface{}{{"posted_at": "desc"}}
		case "salary_min":
			query["sort"] = []map[string]interface{}{{"salary_min": "asc"}}
		}
	}

	return query
}

// buildRelatedJobsQuery builds "similar postings" query
func buildRelatedJobsQuery(eq ElasticsearchQuery) map[string]interface{} {
	if eq.JobID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"title", "description", "skills"},
				"like": []map[string]interface{}{
					{"_index": eq.Index, "_id": eq.JobID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}
