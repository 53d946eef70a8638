package actions

import (
	"strings"
	"testing"

	"github.com/advait/custlink/internal/domain"
)

func linkedView() domain.CorrelatedCustomer {
	return domain.CorrelatedCustomer{
		Company: &domain.CrmCompany{ID: "901", Name: "Acme Corp."},
		Contacts: []domain.CrmContact{
			{ID: "301", Email: "jane@acme.example"},
		},
		Customer: &domain.PaymentsCustomer{
			ID:     "cus-1",
			Type:   domain.CustomerTypeBusiness,
			Email:  "billing@acme.example",
			Status: domain.CustomerStatusUnverified,
		},
		Result: domain.CorrelationResult{
			Linked:     true,
			LinkType:   domain.LinkByNameSimilarity,
			Confidence: 93,
			Inconsistencies: []domain.Inconsistency{
				{Field: "externalPaymentsId", PaymentsValue: "cus-1", Severity: domain.SeverityWarning, Message: "missing id"},
			},
		},
	}
}

func TestDerive_FullSet(t *testing.T) {
	deriver := Deriver{CRMBaseURL: "https://crm.example.com/", PaymentsBaseURL: "https://pay.example.com"}

	got := deriver.Derive(linkedView())
	want := []Type{
		TypeCopyEmail,
		TypeCopyCRMID,
		TypeOpenCRM,
		TypeCopyPaymentsID,
		TypeOpenPayments,
		TypeVerificationHelp,
		TypeCopyInconsistencyReport,
		TypeCopyLinkInstructions,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d actions, got %+v", len(want), got)
	}
	for i, action := range got {
		if action.Type != want[i] {
			t.Fatalf("expected %s at position %d, got %s", want[i], i, action.Type)
		}
	}
}

func TestDerive_DeepLinks(t *testing.T) {
	deriver := Deriver{CRMBaseURL: "https://crm.example.com/", PaymentsBaseURL: "https://pay.example.com"}

	byType := make(map[Type]Action)
	for _, action := range deriver.Derive(linkedView()) {
		byType[action.Type] = action
	}

	if got := byType[TypeOpenCRM].Value; got != "https://crm.example.com/company/901" {
		t.Fatalf("unexpected CRM link %q", got)
	}
	if got := byType[TypeOpenPayments].Value; got != "https://pay.example.com/customers/cus-1" {
		t.Fatalf("unexpected payments link %q", got)
	}
}

func TestDerive_PrefersCustomerEmail(t *testing.T) {
	view := linkedView()
	actions := Deriver{}.Derive(view)
	if actions[0].Type != TypeCopyEmail || actions[0].Value != "billing@acme.example" {
		t.Fatalf("expected customer email first, got %+v", actions[0])
	}

	view.Customer.Email = ""
	actions = Deriver{}.Derive(view)
	if actions[0].Type != TypeCopyEmail || actions[0].Value != "jane@acme.example" {
		t.Fatalf("expected contact email fallback, got %+v", actions[0])
	}
}

func TestDerive_NoDeepLinksWithoutBaseURLs(t *testing.T) {
	for _, action := range (Deriver{}).Derive(linkedView()) {
		if action.Type == TypeOpenCRM || action.Type == TypeOpenPayments {
			t.Fatalf("expected no deep links without base URLs, got %+v", action)
		}
	}
}

func TestDerive_ResidualContactView(t *testing.T) {
	view := domain.CorrelatedCustomer{
		Contacts: []domain.CrmContact{{ID: "305", Email: "omar@lonestar.example"}},
		Result:   domain.CorrelationResult{LinkType: domain.LinkNone},
	}

	got := Deriver{CRMBaseURL: "https://crm.example.com"}.Derive(view)
	if len(got) != 1 || got[0].Type != TypeCopyEmail {
		t.Fatalf("expected only copy-email for a contact residual, got %+v", got)
	}
}

func TestDerive_LinkInstructionsOnlyWhenIDMissing(t *testing.T) {
	view := linkedView()
	view.Company.ExternalPaymentsID = "cus-1"

	for _, action := range (Deriver{}).Derive(view) {
		if action.Type == TypeCopyLinkInstructions {
			t.Fatalf("expected no link instructions when the id is recorded")
		}
	}
}

func TestInconsistencyReport(t *testing.T) {
	items := []domain.Inconsistency{
		{Field: "status", CRMValue: "complete", PaymentsValue: "suspended", Severity: domain.SeverityError, Message: "statuses disagree"},
		{Field: "businessName", CRMValue: "Acme Corp", PaymentsValue: "Acme Corporation", Severity: domain.SeverityWarning, Message: "names drift"},
	}

	report := InconsistencyReport(items)
	lines := strings.Split(report, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", report)
	}
	if !strings.HasPrefix(lines[0], "[error] status:") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], `crm="Acme Corp"`) {
		t.Fatalf("expected quoted values, got %q", lines[1])
	}
}
