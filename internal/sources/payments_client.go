package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/advait/custlink/internal/domain"
)

// NewPaymentsClient builds the HTTP adapter for the payments platform's
// HAL-style REST API.
func NewPaymentsClient(opts Options) (PaymentsClient, error) {
	if opts.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if opts.Tokens == nil {
		return nil, ErrMissingToken
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := opts.PageLimit
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	return &httpPaymentsClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tokens:     opts.Tokens,
		httpClient: &http.Client{Timeout: timeout},
		pageLimit:  limit,
	}, nil
}

type httpPaymentsClient struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	pageLimit  int
}

func (c *httpPaymentsClient) SearchCustomers(ctx context.Context, query SearchQuery) ([]domain.PaymentsCustomer, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.pageLimit))
	if query.Kind == domain.QueryKindEmail {
		params.Set("email", strings.ToLower(strings.TrimSpace(query.Text)))
	} else {
		params.Set("search", query.Text)
	}

	var decoded customersResponse
	if err := c.get(ctx, fmt.Sprintf("%s/customers?%s", c.baseURL, params.Encode()), &decoded); err != nil {
		return nil, fmt.Errorf("payments customer search: %w", err)
	}

	customers := make([]domain.PaymentsCustomer, 0, len(decoded.Embedded.Customers))
	for _, record := range decoded.Embedded.Customers {
		customers = append(customers, domain.PaymentsCustomer{
			ID:           record.ID,
			Type:         record.Type,
			BusinessName: record.BusinessName,
			FirstName:    record.FirstName,
			LastName:     record.LastName,
			Email:        record.Email,
			Status:       record.Status,
			Created:      parseTimestamp(record.Created),
		})
	}
	return customers, nil
}

func (c *httpPaymentsClient) ListCustomerTransfers(ctx context.Context, customerID string) ([]domain.PaymentsTransfer, error) {
	endpoint := fmt.Sprintf("%s/customers/%s/transfers?limit=%d", c.baseURL, url.PathEscape(customerID), c.pageLimit)

	var decoded transfersResponse
	if err := c.get(ctx, endpoint, &decoded); err != nil {
		return nil, fmt.Errorf("payments transfers for %s: %w", customerID, err)
	}

	transfers := make([]domain.PaymentsTransfer, 0, len(decoded.Embedded.Transfers))
	for _, record := range decoded.Embedded.Transfers {
		transfers = append(transfers, domain.PaymentsTransfer{
			ID:     record.ID,
			Status: record.Status,
			Amount: domain.Amount{
				Value:    record.Amount.Value,
				Currency: record.Amount.Currency,
			},
			Created:       parseTimestamp(record.Created),
			SourceID:      partyID(record.Links["source"].Href),
			DestinationID: partyID(record.Links["destination"].Href),
		})
	}
	return transfers, nil
}

// Ping verifies the credential against the API root.
func (c *httpPaymentsClient) Ping(ctx context.Context) error {
	var decoded struct{}
	if err := c.get(ctx, c.baseURL+"/", &decoded); err != nil {
		return fmt.Errorf("payments ping: %w", err)
	}
	return nil
}

type halLink struct {
	Href string `json:"href"`
}

type customerRecord struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	BusinessName string `json:"businessName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	Created      string `json:"created"`
}

type customersResponse struct {
	Embedded struct {
		Customers []customerRecord `json:"customers"`
	} `json:"_embedded"`
}

type transferRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"amount"`
	Created string             `json:"created"`
	Links   map[string]halLink `json:"_links"`
}

type transfersResponse struct {
	Embedded struct {
		Transfers []transferRecord `json:"transfers"`
	} `json:"_embedded"`
}

func (c *httpPaymentsClient) get(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.dwolla.v1.hal+json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// partyID extracts the trailing resource id from a HAL link href.
func partyID(href string) string {
	href = strings.TrimRight(href, "/")
	if idx := strings.LastIndex(href, "/"); idx >= 0 {
		return href[idx+1:]
	}
	return href
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
