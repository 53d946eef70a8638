package service

import (
	"fmt"

	"github.com/advait/custlink/internal/domain"
)

// crmStatusByPayments maps the payments lifecycle vocabulary onto the CRM's.
// Statuses without a mapping (retry) are not comparable and produce no
// inconsistency.
var crmStatusByPayments = map[string]string{
	domain.CustomerStatusVerified:   "complete",
	domain.CustomerStatusUnverified: "in_progress",
	domain.CustomerStatusSuspended:  "blocked",
}

// companyInconsistencies compares a company with its linked business
// customer field by field. The pairing itself came from a stronger signal,
// so a similarity at or below the unrelated floor is left alone rather than
// reported.
func (c *Correlator) companyInconsistencies(company domain.CrmCompany, customer domain.PaymentsCustomer) []domain.Inconsistency {
	var found []domain.Inconsistency

	score := nameSimilarity(company.Name, customer.BusinessName)
	if score > c.thresholds.NameUnrelated && score < c.thresholds.NameEqual {
		found = append(found, domain.Inconsistency{
			Field:         "businessName",
			CRMValue:      company.Name,
			PaymentsValue: customer.BusinessName,
			Severity:      domain.SeverityWarning,
			Message:       "business names are similar but not identical",
		})
	}

	if company.Status != "" {
		if mapped, ok := crmStatusByPayments[customer.Status]; ok && company.Status != mapped {
			severity := domain.SeverityWarning
			if customer.Status == domain.CustomerStatusSuspended {
				severity = domain.SeverityError
			}
			found = append(found, domain.Inconsistency{
				Field:         "status",
				CRMValue:      company.Status,
				PaymentsValue: customer.Status,
				Severity:      severity,
				Message:       fmt.Sprintf("payments status %q maps to CRM status %q, found %q", customer.Status, mapped, company.Status),
			})
		}
	}

	return found
}

// contactInconsistencies compares an email-matched contact (and its related
// company, when one was found) with the matched customer.
func (c *Correlator) contactInconsistencies(contact domain.CrmContact, related *domain.CrmCompany, customer domain.PaymentsCustomer) []domain.Inconsistency {
	var found []domain.Inconsistency

	if customer.Type == domain.CustomerTypePersonal {
		crmName := joinName(contact.FirstName, contact.LastName)
		paymentsName := joinName(customer.FirstName, customer.LastName)
		if crmName != "" && paymentsName != "" && !equalName(crmName, paymentsName) {
			found = append(found, domain.Inconsistency{
				Field:         "name",
				CRMValue:      crmName,
				PaymentsValue: paymentsName,
				Severity:      domain.SeverityWarning,
				Message:       "contact name differs from the payments customer name",
			})
		}
	}

	if related != nil && related.ExternalPaymentsID == "" && customer.ID != "" {
		found = append(found, domain.Inconsistency{
			Field:         "externalPaymentsId",
			CRMValue:      "",
			PaymentsValue: customer.ID,
			Severity:      domain.SeverityWarning,
			Message:       fmt.Sprintf("company %q has no payments customer id recorded; the matched customer is %s", related.Name, customer.ID),
		})
	}

	return found
}

// missingExternalIDInconsistency is appended to every name-similarity match:
// the link was recoverable from names alone, but the CRM record should carry
// the explicit id.
func missingExternalIDInconsistency(company domain.CrmCompany, customer domain.PaymentsCustomer) domain.Inconsistency {
	message := fmt.Sprintf("company matched by name only; record payments customer id %s on the CRM company to make the link explicit", customer.ID)
	if company.ExternalPaymentsID != "" {
		message = fmt.Sprintf("recorded payments customer id %q did not resolve; the name match suggests %s", company.ExternalPaymentsID, customer.ID)
	}
	return domain.Inconsistency{
		Field:         "externalPaymentsId",
		CRMValue:      company.ExternalPaymentsID,
		PaymentsValue: customer.ID,
		Severity:      domain.SeverityWarning,
		Message:       message,
	}
}
