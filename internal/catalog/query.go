package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Sort keys accepted by the catalog list queries.
const (
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
	SortIDAsc    = "id_asc"
	SortIDDesc   = "id_desc"
	SortType     = "type"
)

var orderByKey = map[string]string{
	SortNameAsc:  "name ASC",
	SortNameDesc: "name DESC",
	SortIDAsc:    "id ASC",
	SortIDDesc:   "id DESC",
	SortType:     "types ASC",
}

// Query captures the filter and sort parameters of a catalog projection.
// The zero value lists everything in ID order.
type Query struct {
	Search string
	Types  []string
	SortBy string
}

// Normalize trims the search term and drops blank type entries.
func (q Query) Normalize() Query {
	out := Query{
		Search: strings.TrimSpace(q.Search),
		SortBy: q.SortBy,
	}
	for _, t := range q.Types {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out.Types = append(out.Types, trimmed)
		}
	}
	return out
}

// HasFilters reports whether the query narrows the catalog at all.
func (q Query) HasFilters() bool {
	return q.Search != "" || len(q.Types) > 0
}

// EmptyMessage returns the no-results text for this query.
func (q Query) EmptyMessage() string {
	switch {
	case q.Search != "" && len(q.Types) > 0:
		return fmt.Sprintf("No Pokemon named %q found with the selected types", q.Search)
	case q.Search != "":
		return fmt.Sprintf("No Pokemon named %q found", q.Search)
	case len(q.Types) > 0:
		return "No Pokemon found with the selected types"
	default:
		return "No Pokemon found"
	}
}

// apply attaches the query's WHERE conditions to a gorm builder. The type
// filter is an OR group of substring matches over the JSON types column.
func (q Query) apply(db *gorm.DB) *gorm.DB {
	if q.Search != "" {
		db = db.Where("LOWER(pokemon.name) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}
	if len(q.Types) > 0 {
		group := db.Session(&gorm.Session{NewDB: true})
		for i, t := range q.Types {
			cond := "LOWER(pokemon.types) LIKE ?"
			arg := "%" + strings.ToLower(t) + "%"
			if i == 0 {
				group = group.Where(cond, arg)
			} else {
				group = group.Or(cond, arg)
			}
		}
		db = db.Where(group)
	}
	return db
}

// orderClause resolves the sort key against the whitelist; unknown keys fall
// back to ID order.
func (q Query) orderClause() string {
	if clause, ok := orderByKey[q.SortBy]; ok {
		return clause
	}
	return orderByKey[SortIDAsc]
}
