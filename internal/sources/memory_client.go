package sources

import (
	"context"
	"sync"

	"github.com/advait/custlink/internal/domain"
)

// MemoryCRMClient is an in-memory CRMClient used in unit tests and in local
// fixture mode where no CRM credentials are available. It returns its full
// canned data set regardless of the query and records the queries it saw.
type MemoryCRMClient struct {
	mu        sync.Mutex
	companies []domain.CrmCompany
	contacts  []domain.CrmContact
	err       error
	pingErr   error
	queries   []SearchQuery
}

// NewMemoryCRMClient instantiates the in-memory CRM client with canned data.
func NewMemoryCRMClient(companies []domain.CrmCompany, contacts []domain.CrmContact) *MemoryCRMClient {
	return &MemoryCRMClient{companies: companies, contacts: contacts}
}

// WithError configures the client to fail every search with err.
func (m *MemoryCRMClient) WithError(err error) *MemoryCRMClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithPingError forces Ping to return the supplied error.
func (m *MemoryCRMClient) WithPingError(err error) *MemoryCRMClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
	return m
}

// Queries returns a copy of every query the client has received.
func (m *MemoryCRMClient) Queries() []SearchQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SearchQuery, len(m.queries))
	copy(out, m.queries)
	return out
}

func (m *MemoryCRMClient) SearchCompanies(_ context.Context, query SearchQuery) ([]domain.CrmCompany, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.CrmCompany, len(m.companies))
	copy(out, m.companies)
	return out, nil
}

func (m *MemoryCRMClient) SearchContacts(_ context.Context, query SearchQuery) ([]domain.CrmContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.CrmContact, len(m.contacts))
	copy(out, m.contacts)
	return out, nil
}

func (m *MemoryCRMClient) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

// MemoryPaymentsClient is the in-memory counterpart for the payments
// adapter. ListCustomerTransfers filters by party id the way the platform
// does server-side.
type MemoryPaymentsClient struct {
	mu        sync.Mutex
	customers []domain.PaymentsCustomer
	transfers []domain.PaymentsTransfer
	err       error
	pingErr   error
	queries   []SearchQuery
}

// NewMemoryPaymentsClient instantiates the in-memory payments client.
func NewMemoryPaymentsClient(customers []domain.PaymentsCustomer, transfers []domain.PaymentsTransfer) *MemoryPaymentsClient {
	return &MemoryPaymentsClient{customers: customers, transfers: transfers}
}

// WithError configures the client to fail every call with err.
func (m *MemoryPaymentsClient) WithError(err error) *MemoryPaymentsClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithPingError forces Ping to return the supplied error.
func (m *MemoryPaymentsClient) WithPingError(err error) *MemoryPaymentsClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
	return m
}

// Queries returns a copy of every query the client has received.
func (m *MemoryPaymentsClient) Queries() []SearchQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SearchQuery, len(m.queries))
	copy(out, m.queries)
	return out
}

func (m *MemoryPaymentsClient) SearchCustomers(_ context.Context, query SearchQuery) ([]domain.PaymentsCustomer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.PaymentsCustomer, len(m.customers))
	copy(out, m.customers)
	return out, nil
}

func (m *MemoryPaymentsClient) ListCustomerTransfers(_ context.Context, customerID string) ([]domain.PaymentsTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var owned []domain.PaymentsTransfer
	for _, transfer := range m.transfers {
		if transfer.SourceID == customerID || transfer.DestinationID == customerID {
			owned = append(owned, transfer)
		}
	}
	return owned, nil
}

func (m *MemoryPaymentsClient) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}
