// internal/workers/data-access/query-elasticsearch/queries/builders.go
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
	Category   string
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
	case "jobs_index":
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

// buildJobSearchQuery builds the main job search query dynamically
func buildJobSearchQuery(eq ElasticsearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search over the job text fields
	if keywords, ok := eq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"title^3", "requiredSkills^2", "description^2", "category"},
				"type":   "best_fields",
			},
		})
	}

	// Category filter
	if category, ok := eq.Filters["category"].(string); ok && category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	} else if eq.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": eq.Category},
		})
	}

	// Budget range filter
	if budgetRange, ok := eq.Filters["budgetRange"].(map[string]interface{}); ok {
		rangeClause := map[string]interface{}{}
		if min, exists := toFloat(budgetRange["min"]); exists && min > 0 {
			rangeClause["gte"] = min
		}
		if max, exists := toFloat(budgetRange["max"]); exists && max > 0 {
			rangeClause["lte"] = max
		}
		if len(rangeClause) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{"budget": rangeClause},
			})
		}
	}

	// Only open jobs unless the caller asks for a specific status
	if status, ok := eq.Filters["status"].(string); ok && status != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"status": status},
		})
	}

	// Location filter
	if locations, ok := eq.Filters["locations"].([]interface{}); ok && len(locations) > 0 {
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
		case "budget":
			query["sort"] = []map[string]interface{}{{"budget": "desc"}}
		case "deadline":
			query["sort"] = []map[string]interface{}{{"deadline": "asc"}}
		case "title":
			query["sort"] = []map[string]interface{}{{"title.keyword": "asc"}}
		}
	}

	return query
}

// buildRelatedJobsQuery builds "similar jobs" query
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
				"fields": []string{"title", "description", "requiredSkills", "category"},
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

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
