package actions

import (
	"fmt"
	"strings"

	"github.com/advait/custlink/internal/domain"
)

// Type identifies one quick action the dashboard can offer next to a view.
type Type string

const (
	TypeCopyEmail               Type = "copy-email"
	TypeCopyCRMID               Type = "copy-crm-id"
	TypeCopyPaymentsID          Type = "copy-payments-id"
	TypeOpenCRM                 Type = "open-crm"
	TypeOpenPayments            Type = "open-payments"
	TypeCopyInconsistencyReport Type = "copy-inconsistency-report"
	TypeCopyLinkInstructions    Type = "copy-link-instructions"
	TypeVerificationHelp        Type = "verification-help"
)

// Action is a quick action available for one correlated view. Value holds
// the text to copy or the URL to open.
type Action struct {
	Type  Type
	Label string
	Value string
}

// Deriver builds the action set for a view. Availability is a pure
// predicate over the view's fields; the deriver itself holds only the
// dashboard base URLs used for deep links.
type Deriver struct {
	CRMBaseURL      string
	PaymentsBaseURL string
}

// Derive returns the actions available for the view, in a stable order.
func (d Deriver) Derive(view domain.CorrelatedCustomer) []Action {
	var available []Action

	if email := primaryEmail(view); email != "" {
		available = append(available, Action{Type: TypeCopyEmail, Label: "Copy email", Value: email})
	}
	if view.Company != nil {
		available = append(available, Action{Type: TypeCopyCRMID, Label: "Copy CRM company id", Value: view.Company.ID})
		if d.CRMBaseURL != "" {
			available = append(available, Action{
				Type:  TypeOpenCRM,
				Label: "Open in CRM",
				Value: fmt.Sprintf("%s/company/%s", strings.TrimRight(d.CRMBaseURL, "/"), view.Company.ID),
			})
		}
	}
	if view.Customer != nil {
		available = append(available, Action{Type: TypeCopyPaymentsID, Label: "Copy payments customer id", Value: view.Customer.ID})
		if d.PaymentsBaseURL != "" {
			available = append(available, Action{
				Type:  TypeOpenPayments,
				Label: "Open in payments dashboard",
				Value: fmt.Sprintf("%s/customers/%s", strings.TrimRight(d.PaymentsBaseURL, "/"), view.Customer.ID),
			})
		}
		if view.Customer.Status == domain.CustomerStatusUnverified {
			available = append(available, Action{
				Type:  TypeVerificationHelp,
				Label: "Copy verification help",
				Value: fmt.Sprintf("Customer %s has not completed verification. Walk them through the identity verification flow in the payments dashboard.", view.Customer.ID),
			})
		}
	}
	if len(view.Result.Inconsistencies) > 0 {
		available = append(available, Action{
			Type:  TypeCopyInconsistencyReport,
			Label: "Copy inconsistency report",
			Value: InconsistencyReport(view.Result.Inconsistencies),
		})
	}
	if view.Company != nil && view.Customer != nil && view.Company.ExternalPaymentsID == "" {
		available = append(available, Action{
			Type:  TypeCopyLinkInstructions,
			Label: "Copy link instructions",
			Value: linkInstructions(*view.Company, *view.Customer),
		})
	}

	return available
}

// InconsistencyReport renders the detected inconsistencies as a plain-text
// report suitable for pasting into a ticket.
func InconsistencyReport(items []domain.Inconsistency) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "[%s] %s: %s (crm=%q payments=%q)\n",
			item.Severity, item.Field, item.Message, item.CRMValue, item.PaymentsValue)
	}
	return strings.TrimRight(b.String(), "\n")
}

func linkInstructions(company domain.CrmCompany, customer domain.PaymentsCustomer) string {
	return fmt.Sprintf("Set the payments customer id on CRM company %q (%s) to %s to link these accounts.",
		company.Name, company.ID, customer.ID)
}

func primaryEmail(view domain.CorrelatedCustomer) string {
	if view.Customer != nil && view.Customer.Email != "" {
		return view.Customer.Email
	}
	for _, contact := range view.Contacts {
		if contact.Email != "" {
			return contact.Email
		}
	}
	return ""
}
