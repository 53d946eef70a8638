package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/advait/custlink/internal/domain"
)

// CRM object-search property names mapped into the domain model.
const (
	crmPropName        = "name"
	crmPropPaymentsID  = "payments_customer_id"
	crmPropLifecycle   = "lifecycle_stage"
	crmPropDescription = "description"
	crmPropDomain      = "domain"
	crmPropFirstName   = "firstname"
	crmPropLastName    = "lastname"
	crmPropEmail       = "email"
	crmPropPhone       = "phone"
	crmPropCompany     = "company"
)

// maxSearchPages bounds pagination; one dashboard search never needs more
// than a few hundred records per source.
const maxSearchPages = 3

// NewCRMClient builds the HTTP adapter for the CRM object-search API.
func NewCRMClient(opts Options) (CRMClient, error) {
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
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return &httpCRMClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tokens:     opts.Tokens,
		httpClient: &http.Client{Timeout: timeout},
		pageLimit:  limit,
	}, nil
}

type httpCRMClient struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	pageLimit  int
}

func (c *httpCRMClient) SearchCompanies(ctx context.Context, query SearchQuery) ([]domain.CrmCompany, error) {
	properties := []string{crmPropName, crmPropPaymentsID, crmPropLifecycle, crmPropDescription}
	companies := []domain.CrmCompany{}
	err := c.search(ctx, "companies", companyFilters(query), properties, func(result objectResult) {
		companies = append(companies, domain.CrmCompany{
			ID:                 result.ID,
			Name:               result.Properties[crmPropName],
			ExternalPaymentsID: result.Properties[crmPropPaymentsID],
			Status:             result.Properties[crmPropLifecycle],
			Description:        result.Properties[crmPropDescription],
		})
	})
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *httpCRMClient) SearchContacts(ctx context.Context, query SearchQuery) ([]domain.CrmContact, error) {
	properties := []string{crmPropFirstName, crmPropLastName, crmPropEmail, crmPropPhone, crmPropCompany}
	contacts := []domain.CrmContact{}
	err := c.search(ctx, "contacts", contactFilters(query), properties, func(result objectResult) {
		contacts = append(contacts, domain.CrmContact{
			ID:          result.ID,
			FirstName:   result.Properties[crmPropFirstName],
			LastName:    result.Properties[crmPropLastName],
			Email:       result.Properties[crmPropEmail],
			Phone:       result.Properties[crmPropPhone],
			CompanyName: result.Properties[crmPropCompany],
		})
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// Ping verifies the credential by listing a single company.
func (c *httpCRMClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/crm/v3/objects/companies?limit=1", nil)
	if err != nil {
		return fmt.Errorf("crm ping: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("crm ping returned status %d", resp.StatusCode)
	}
	return nil
}

// companyFilters builds the company search filter for the detected query
// kind. Email queries search companies by the email's domain part.
func companyFilters(query SearchQuery) []filter {
	if query.Kind == domain.QueryKindEmail {
		if _, emailDomain, found := strings.Cut(query.Text, "@"); found && emailDomain != "" {
			return []filter{{PropertyName: crmPropDomain, Operator: "EQ", Value: strings.ToLower(emailDomain)}}
		}
	}
	return []filter{{PropertyName: crmPropName, Operator: "CONTAINS_TOKEN", Value: query.Text}}
}

// contactFilters builds the contact search filter for the detected query
// kind. Filters within one group are ANDed by the CRM.
func contactFilters(query SearchQuery) []filter {
	tokens := strings.Fields(query.Text)
	switch {
	case query.Kind == domain.QueryKindEmail:
		return []filter{{PropertyName: crmPropEmail, Operator: "EQ", Value: strings.ToLower(query.Text)}}
	case query.Kind == domain.QueryKindPersonName && len(tokens) >= 2:
		return []filter{
			{PropertyName: crmPropFirstName, Operator: "CONTAINS_TOKEN", Value: tokens[0]},
			{PropertyName: crmPropLastName, Operator: "CONTAINS_TOKEN", Value: tokens[len(tokens)-1]},
		}
	default:
		return []filter{{PropertyName: crmPropCompany, Operator: "CONTAINS_TOKEN", Value: query.Text}}
	}
}

type filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type filterGroup struct {
	Filters []filter `json:"filters"`
}

type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties"`
	Limit        int           `json:"limit"`
	After        string        `json:"after,omitempty"`
}

type objectResult struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type searchResponse struct {
	Total   int            `json:"total"`
	Results []objectResult `json:"results"`
	Paging  *struct {
		Next struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

// search posts one object-search request per page and feeds each result to
// collect, following the `paging.next.after` cursor up to maxSearchPages.
func (c *httpCRMClient) search(ctx context.Context, objectType string, filters []filter, properties []string, collect func(objectResult)) error {
	after := ""
	for page := 0; page < maxSearchPages; page++ {
		payload := searchRequest{
			FilterGroups: []filterGroup{{Filters: filters}},
			Properties:   properties,
			Limit:        c.pageLimit,
			After:        after,
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("crm search %s: %w", objectType, err)
		}

		endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/search", c.baseURL, objectType)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("crm search %s: %w", objectType, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if err := c.authorize(ctx, req); err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("crm search %s: %w", objectType, err)
		}
		decoded, err := decodeCRMResponse(resp, objectType)
		if err != nil {
			return err
		}

		for _, result := range decoded.Results {
			collect(result)
		}
		if decoded.Paging == nil || decoded.Paging.Next.After == "" {
			return nil
		}
		after = decoded.Paging.Next.After
	}
	return nil
}

func (c *httpCRMClient) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("crm token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func decodeCRMResponse(resp *http.Response, objectType string) (searchResponse, error) {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return searchResponse{}, fmt.Errorf("crm search %s returned status %d: %s", objectType, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return searchResponse{}, fmt.Errorf("crm search %s: decode response: %w", objectType, err)
	}
	return decoded, nil
}
