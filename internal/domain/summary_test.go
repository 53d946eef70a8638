package domain

import "testing"

func TestSummarize(t *testing.T) {
	views := []CorrelatedCustomer{
		{
			Company:  &CrmCompany{ID: "1"},
			Customer: &PaymentsCustomer{ID: "cus-1"},
			Result: CorrelationResult{
				Linked:   true,
				LinkType: LinkByExternalID,
				Inconsistencies: []Inconsistency{
					{Field: "status", Severity: SeverityError},
					{Field: "businessName", Severity: SeverityWarning},
				},
			},
		},
		{
			Company: &CrmCompany{ID: "2"},
			Result:  CorrelationResult{LinkType: LinkNone},
		},
		{
			Customer: &PaymentsCustomer{ID: "cus-2"},
			Result:   CorrelationResult{LinkType: LinkNone},
		},
		{
			Contacts: []CrmContact{{ID: "31"}},
			Result:   CorrelationResult{LinkType: LinkNone},
		},
	}

	summary := Summarize(views)
	if summary.TotalResults != 4 {
		t.Fatalf("TotalResults = %d, want 4", summary.TotalResults)
	}
	if summary.LinkedAccounts != 1 {
		t.Fatalf("LinkedAccounts = %d, want 1", summary.LinkedAccounts)
	}
	if summary.UnlinkedFromCRM != 2 {
		t.Fatalf("UnlinkedFromCRM = %d, want 2", summary.UnlinkedFromCRM)
	}
	if summary.UnlinkedFromPayments != 1 {
		t.Fatalf("UnlinkedFromPayments = %d, want 1", summary.UnlinkedFromPayments)
	}
	if summary.InconsistencyCount != 2 {
		t.Fatalf("InconsistencyCount = %d, want 2", summary.InconsistencyCount)
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	if summary != (SearchSummary{}) {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
