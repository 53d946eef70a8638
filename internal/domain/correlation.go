package domain

// LinkType identifies which signal linked a CRM record to a payments record.
type LinkType string

const (
	LinkByExternalID     LinkType = "external-id"
	LinkByEmail          LinkType = "email"
	LinkByNameSimilarity LinkType = "name-similarity"
	LinkNone             LinkType = "none"
)

// Severity classifies a detected inconsistency.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Inconsistency describes a field-level disagreement between the CRM and
// payments views of the same customer.
type Inconsistency struct {
	Field         string
	CRMValue      string
	PaymentsValue string
	Severity      Severity
	Message       string
}

// CorrelationResult annotates one correlated view with the link decision.
// Confidence is an engine-assigned ceiling per link type (100 for explicit
// ids, 85 for email, round(similarity*100) for name matches), never
// recomputed after assignment.
type CorrelationResult struct {
	Linked          bool
	LinkType        LinkType
	Confidence      int
	Inconsistencies []Inconsistency
}

// CorrelatedCustomer pairs at most one CRM company (plus its contacts) with
// at most one payments customer (plus that customer's transfers). Views are
// immutable once assembled.
type CorrelatedCustomer struct {
	Company   *CrmCompany
	Contacts  []CrmContact
	Customer  *PaymentsCustomer
	Transfers []PaymentsTransfer
	Result    CorrelationResult
}
