package sources

import (
	"context"
	"errors"
	"time"

	"github.com/advait/custlink/internal/domain"
)

// SearchQuery carries the operator's query and its detected kind so each
// adapter can build the provider-specific filter.
type SearchQuery struct {
	Text string
	Kind domain.QueryKind
}

// CRMClient is the contract for the CRM source adapter. Implementations
// return empty slices on zero matches and propagate authentication or
// network failures as errors.
type CRMClient interface {
	SearchCompanies(ctx context.Context, query SearchQuery) ([]domain.CrmCompany, error)
	SearchContacts(ctx context.Context, query SearchQuery) ([]domain.CrmContact, error)
	Ping(ctx context.Context) error
}

// PaymentsClient is the contract for the payments source adapter.
type PaymentsClient interface {
	SearchCustomers(ctx context.Context, query SearchQuery) ([]domain.PaymentsCustomer, error)
	ListCustomerTransfers(ctx context.Context, customerID string) ([]domain.PaymentsTransfer, error)
	Ping(ctx context.Context) error
}

// TokenSource supplies a valid bearer credential on demand. Token
// acquisition, refresh, and storage belong to the auth provider, not to the
// adapters.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token for every call.
type StaticTokenSource string

// Token implements the TokenSource interface.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrMissingToken
	}
	return string(s), nil
}

// Options configures an HTTP source adapter.
type Options struct {
	BaseURL   string
	Tokens    TokenSource
	Timeout   time.Duration
	PageLimit int
}

var (
	// ErrMissingBaseURL indicates the source base URL is not provided.
	ErrMissingBaseURL = errors.New("source base URL is required")
	// ErrMissingToken indicates no bearer credential is available.
	ErrMissingToken = errors.New("source bearer token is required")
)
