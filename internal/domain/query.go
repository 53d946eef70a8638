package domain

// QueryKind classifies what the operator typed into the search box.
type QueryKind string

const (
	QueryKindEmail        QueryKind = "email"
	QueryKindBusinessName QueryKind = "business-name"
	QueryKindPersonName   QueryKind = "person-name"
	QueryKindUnknown      QueryKind = "unknown"
)
