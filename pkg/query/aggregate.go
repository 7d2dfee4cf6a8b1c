package query

// AggregateFn is a SQL aggregate function.
type AggregateFn string

const (
	Count AggregateFn = "COUNT"
	Sum   AggregateFn = "SUM"
	Avg   AggregateFn = "AVG"
	Min   AggregateFn = "MIN"
	Max   AggregateFn = "MAX"
)

// Aggregate describes one aggregation: a function, its target column
// (ignored for Count) and an optional filter.
type Aggregate struct {
	Fn     AggregateFn
	Field  string
	Filter FilterOperator
}
