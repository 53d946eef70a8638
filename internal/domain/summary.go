package domain

// SearchSummary aggregates counts over one correlated result set.
type SearchSummary struct {
	TotalResults         int
	LinkedAccounts       int
	UnlinkedFromCRM      int
	UnlinkedFromPayments int
	InconsistencyCount   int
}

// Summarize derives the result summary consumed by the dashboard header.
func Summarize(views []CorrelatedCustomer) SearchSummary {
	summary := SearchSummary{TotalResults: len(views)}
	for _, view := range views {
		summary.InconsistencyCount += len(view.Result.Inconsistencies)
		switch {
		case view.Result.Linked:
			summary.LinkedAccounts++
		case view.Customer != nil:
			summary.UnlinkedFromPayments++
		default:
			summary.UnlinkedFromCRM++
		}
	}
	return summary
}
