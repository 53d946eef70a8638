package service

import (
	"math"

	"github.com/advait/custlink/internal/domain"
)

// Confidence ceilings per link type. Name-similarity confidence is derived
// from the score instead.
const (
	externalIDConfidence = 100
	emailMatchConfidence = 85
)

// Thresholds holds the similarity bands used by the matcher. All three are
// fractions in (0, 1].
type Thresholds struct {
	// NameLink is the minimum similarity for a name-based link.
	NameLink float64
	// NameEqual is the score at or above which two business names are
	// treated as identical.
	NameEqual float64
	// NameUnrelated is the score at or below which two business names are
	// treated as unrelated rather than inconsistent.
	NameUnrelated float64
}

// DefaultThresholds returns the matcher's standard bands.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NameLink:      0.80,
		NameEqual:     0.90,
		NameUnrelated: 0.50,
	}
}

// Correlator decides which CRM and payments records refer to the same
// real-world customer. It is stateless across calls; the claimed-id set is
// local to a single Correlate invocation.
type Correlator struct {
	thresholds Thresholds
}

// NewCorrelator constructs a Correlator, falling back to the default
// thresholds when the provided value is unset.
func NewCorrelator(thresholds Thresholds) *Correlator {
	if thresholds.NameLink <= 0 {
		thresholds = DefaultThresholds()
	}
	return &Correlator{thresholds: thresholds}
}

// Correlate runs the three matching passes in priority order and assembles
// the residual views, accounting for every well-formed input record exactly
// once. Records missing their platform-assigned id are skipped uniformly;
// both platforms assign ids server-side, so absence means a malformed
// payload. The function performs no I/O and is deterministic for
// deterministic inputs.
func (c *Correlator) Correlate(
	companies []domain.CrmCompany,
	contacts []domain.CrmContact,
	customers []domain.PaymentsCustomer,
	transfers []domain.PaymentsTransfer,
) []domain.CorrelatedCustomer {
	claimed := make(map[string]bool, len(customers))
	usedContacts := make(map[string]bool, len(contacts))
	placedCompanies := make(map[string]bool, len(companies))

	views := make([]domain.CorrelatedCustomer, 0, len(companies)+len(customers))

	// Pass 1: explicit external-id links.
	for i := range companies {
		company := companies[i]
		if company.ID == "" || company.ExternalPaymentsID == "" {
			continue
		}
		customer := findCustomerByID(customers, claimed, company.ExternalPaymentsID)
		if customer == nil {
			continue
		}
		claimed[customer.ID] = true
		placedCompanies[company.ID] = true
		views = append(views, domain.CorrelatedCustomer{
			Company:   &company,
			Contacts:  claimContacts(contacts, usedContacts, company.Name),
			Customer:  customer,
			Transfers: TransfersFor(customer.ID, transfers),
			Result: domain.CorrelationResult{
				Linked:          true,
				LinkType:        domain.LinkByExternalID,
				Confidence:      externalIDConfidence,
				Inconsistencies: c.companyInconsistencies(company, *customer),
			},
		})
	}

	// Pass 2: contact email against unclaimed customers.
	for i := range contacts {
		contact := contacts[i]
		if contact.ID == "" || usedContacts[contact.ID] {
			continue
		}
		email := normalizeEmail(contact.Email)
		if email == "" {
			continue
		}
		customer := findCustomerByEmail(customers, claimed, email)
		if customer == nil {
			continue
		}
		claimed[customer.ID] = true
		usedContacts[contact.ID] = true

		related := findRelatedCompany(companies, placedCompanies, contact.CompanyName)
		if related != nil {
			placedCompanies[related.ID] = true
		}

		views = append(views, domain.CorrelatedCustomer{
			Company:   related,
			Contacts:  []domain.CrmContact{contact},
			Customer:  customer,
			Transfers: TransfersFor(customer.ID, transfers),
			Result: domain.CorrelationResult{
				Linked:          true,
				LinkType:        domain.LinkByEmail,
				Confidence:      emailMatchConfidence,
				Inconsistencies: c.contactInconsistencies(contact, related, *customer),
			},
		})
	}

	// Pass 3: business-name similarity for companies still unplaced. A
	// company whose recorded external id failed to resolve in pass 1 is
	// still eligible here; a stale link should not block a name match.
	for i := range companies {
		company := companies[i]
		if company.ID == "" || placedCompanies[company.ID] {
			continue
		}
		customer, score := c.bestNameMatch(company.Name, customers, claimed)
		if customer == nil {
			continue
		}
		claimed[customer.ID] = true
		placedCompanies[company.ID] = true

		inconsistencies := c.companyInconsistencies(company, *customer)
		inconsistencies = append(inconsistencies, missingExternalIDInconsistency(company, *customer))

		views = append(views, domain.CorrelatedCustomer{
			Company:   &company,
			Contacts:  claimContacts(contacts, usedContacts, company.Name),
			Customer:  customer,
			Transfers: TransfersFor(customer.ID, transfers),
			Result: domain.CorrelationResult{
				Linked:          true,
				LinkType:        domain.LinkByNameSimilarity,
				Confidence:      int(math.Round(score * 100)),
				Inconsistencies: inconsistencies,
			},
		})
	}

	// Residuals: unplaced companies, unclaimed customers, unused contacts.
	for i := range companies {
		company := companies[i]
		if company.ID == "" || placedCompanies[company.ID] {
			continue
		}
		views = append(views, domain.CorrelatedCustomer{
			Company: &company,
			Result:  unlinkedResult(),
		})
	}
	for i := range customers {
		customer := customers[i]
		if customer.ID == "" || claimed[customer.ID] {
			continue
		}
		views = append(views, domain.CorrelatedCustomer{
			Customer:  &customer,
			Transfers: TransfersFor(customer.ID, transfers),
			Result:    unlinkedResult(),
		})
	}
	for i := range contacts {
		contact := contacts[i]
		if contact.ID == "" || usedContacts[contact.ID] {
			continue
		}
		views = append(views, domain.CorrelatedCustomer{
			Contacts: []domain.CrmContact{contact},
			Result:   unlinkedResult(),
		})
	}

	return views
}

// TransfersFor returns the transfers in which the customer appears as either
// the source or the destination party.
func TransfersFor(customerID string, transfers []domain.PaymentsTransfer) []domain.PaymentsTransfer {
	if customerID == "" {
		return nil
	}
	var owned []domain.PaymentsTransfer
	for _, transfer := range transfers {
		if transfer.SourceID == customerID || transfer.DestinationID == customerID {
			owned = append(owned, transfer)
		}
	}
	return owned
}

func unlinkedResult() domain.CorrelationResult {
	return domain.CorrelationResult{
		Linked:   false,
		LinkType: domain.LinkNone,
	}
}

func findCustomerByID(customers []domain.PaymentsCustomer, claimed map[string]bool, id string) *domain.PaymentsCustomer {
	for i := range customers {
		candidate := customers[i]
		if candidate.ID == "" || claimed[candidate.ID] {
			continue
		}
		if candidate.ID == id {
			return &candidate
		}
	}
	return nil
}

func findCustomerByEmail(customers []domain.PaymentsCustomer, claimed map[string]bool, email string) *domain.PaymentsCustomer {
	for i := range customers {
		candidate := customers[i]
		if candidate.ID == "" || claimed[candidate.ID] {
			continue
		}
		if normalizeEmail(candidate.Email) == email {
			return &candidate
		}
	}
	return nil
}

// bestNameMatch scans the unclaimed customers for the highest business-name
// similarity strictly above the link threshold. Earlier input positions win
// ties.
func (c *Correlator) bestNameMatch(name string, customers []domain.PaymentsCustomer, claimed map[string]bool) (*domain.PaymentsCustomer, float64) {
	var best *domain.PaymentsCustomer
	bestScore := c.thresholds.NameLink
	for i := range customers {
		candidate := customers[i]
		if candidate.ID == "" || claimed[candidate.ID] {
			continue
		}
		score := nameSimilarity(name, candidate.BusinessName)
		if score > bestScore {
			best = &candidate
			bestScore = score
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestScore
}

// claimContacts attaches every unused contact whose free-text company field
// matches the company name. The company field is not a foreign key; this is
// an O(n) case-insensitive equality scan over a small list.
func claimContacts(contacts []domain.CrmContact, used map[string]bool, companyName string) []domain.CrmContact {
	var attached []domain.CrmContact
	for i := range contacts {
		contact := contacts[i]
		if contact.ID == "" || used[contact.ID] {
			continue
		}
		if equalName(contact.CompanyName, companyName) {
			used[contact.ID] = true
			attached = append(attached, contact)
		}
	}
	return attached
}

// findRelatedCompany resolves a contact's free-text company field against
// companies not yet placed in a view.
func findRelatedCompany(companies []domain.CrmCompany, placed map[string]bool, companyName string) *domain.CrmCompany {
	for i := range companies {
		candidate := companies[i]
		if candidate.ID == "" || placed[candidate.ID] {
			continue
		}
		if equalName(candidate.Name, companyName) {
			return &candidate
		}
	}
	return nil
}
