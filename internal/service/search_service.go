package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/advait/custlink/internal/domain"
	"github.com/advait/custlink/internal/sources"
)

// SearchService fans one query out to both platforms, joins the raw result
// sets, and correlates them into merged customer views.
type SearchService struct {
	crm        sources.CRMClient
	payments   sources.PaymentsClient
	correlator *Correlator
	nowFn      func() time.Time
	newID      func() string
}

// NewSearchService constructs a SearchService. A nil correlator falls back
// to the default thresholds.
func NewSearchService(crm sources.CRMClient, payments sources.PaymentsClient, correlator *Correlator) *SearchService {
	if correlator == nil {
		correlator = NewCorrelator(DefaultThresholds())
	}
	return &SearchService{
		crm:        crm,
		payments:   payments,
		correlator: correlator,
		nowFn:      time.Now,
		newID:      uuid.NewString,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *SearchService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// WithIDGenerator overrides the search-id generator (used primarily in tests).
func (s *SearchService) WithIDGenerator(newID func() string) {
	if newID != nil {
		s.newID = newID
	}
}

// SearchResult is the orchestrated output consumed by the HTTP layer.
type SearchResult struct {
	SearchID string
	Query    string
	Kind     domain.QueryKind
	Views    []domain.CorrelatedCustomer
	Summary  domain.SearchSummary
	Duration time.Duration
}

// Search runs one dashboard search end to end: classify the query, fetch
// from both platforms concurrently, correlate, summarize. Transfers are not
// fetched here; they are loaded lazily per selected customer. Any source
// failure fails the whole search.
func (s *SearchService) Search(ctx context.Context, rawQuery string) (SearchResult, error) {
	query := sanitizeString(rawQuery)
	if query == "" {
		return SearchResult{}, fmt.Errorf("search query is required")
	}

	kind := DetectQueryKind(query)
	sourceQuery := sources.SearchQuery{Text: query, Kind: kind}
	started := s.nowFn()

	var (
		companies []domain.CrmCompany
		contacts  []domain.CrmContact
		customers []domain.PaymentsCustomer
	)
	err := runParallel(ctx,
		func(ctx context.Context) error {
			found, err := s.crm.SearchCompanies(ctx, sourceQuery)
			if err != nil {
				return fmt.Errorf("crm companies: %w", err)
			}
			companies = found
			return nil
		},
		func(ctx context.Context) error {
			found, err := s.crm.SearchContacts(ctx, sourceQuery)
			if err != nil {
				return fmt.Errorf("crm contacts: %w", err)
			}
			contacts = found
			return nil
		},
		func(ctx context.Context) error {
			found, err := s.payments.SearchCustomers(ctx, sourceQuery)
			if err != nil {
				return fmt.Errorf("payments customers: %w", err)
			}
			customers = found
			return nil
		},
	)
	if err != nil {
		return SearchResult{}, err
	}

	views := s.correlator.Correlate(companies, contacts, customers, nil)

	return SearchResult{
		SearchID: s.newID(),
		Query:    query,
		Kind:     kind,
		Views:    views,
		Summary:  domain.Summarize(views),
		Duration: s.nowFn().Sub(started),
	}, nil
}

// LoadTransfers fetches the transfer history for one payments customer. It
// is called lazily when the operator expands a linked view, and applies the
// same party-id ownership rule the engine uses.
func (s *SearchService) LoadTransfers(ctx context.Context, customerID string) ([]domain.PaymentsTransfer, error) {
	customerID = sanitizeString(customerID)
	if customerID == "" {
		return nil, fmt.Errorf("customer id is required")
	}
	transfers, err := s.payments.ListCustomerTransfers(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("payments transfers: %w", err)
	}
	return TransfersFor(customerID, transfers), nil
}
