package query

// Comparison operators accepted by column filters.
const (
	OpEqual              = "="
	OpNotEqual           = "<>"
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
)

const (
	opAnd       = "AND"
	opOr        = "OR"
	opNot       = "NOT"
	opIn        = "IN"
	opIsNull    = "IS NULL"
	opIsNotNull = "IS NOT NULL"
)
