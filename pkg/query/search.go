package query

import "github.com/ayonsaha2011/libsql-orm/pkg/value"

// SearchFilter is a term matched against several text columns at once. It
// lowers to an OR of LIKE leaves, one per field, with the term wrapped in
// wildcards. Case sensitivity follows the store's collation.
type SearchFilter struct {
	Fields []string
	Term   string
}

// Filter lowers the search into a filter tree.
func (s SearchFilter) Filter() FilterOperator {
	pattern := value.Text("%" + s.Term + "%")
	parts := make(Or, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = Like{Field: f, Value: pattern}
	}
	return parts
}
