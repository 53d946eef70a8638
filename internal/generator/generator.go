package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/advait/custlink/internal/domain"
)

// Dataset contains generated records for all four input types of the
// correlation engine.
type Dataset struct {
	Companies []domain.CrmCompany       `json:"companies"`
	Contacts  []domain.CrmContact       `json:"contacts"`
	Customers []domain.PaymentsCustomer `json:"customers"`
	Transfers []domain.PaymentsTransfer `json:"transfers"`
}

// Generator produces synthetic CRM and payments data with tunable overlap so
// every matching pass and inconsistency rule has material to work on.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.NumCompanies <= 0 {
		cfg.NumCompanies = defaults.NumCompanies
	}
	if cfg.NumContacts <= 0 {
		cfg.NumContacts = defaults.NumContacts
	}
	if cfg.NumCustomers <= 0 {
		cfg.NumCustomers = defaults.NumCustomers
	}
	if cfg.NumTransfers <= 0 {
		cfg.NumTransfers = defaults.NumTransfers
	}
	if cfg.ExternalIDChance <= 0 {
		cfg.ExternalIDChance = defaults.ExternalIDChance
	}
	if cfg.EmailOverlapChance <= 0 {
		cfg.EmailOverlapChance = defaults.EmailOverlapChance
	}
	if cfg.NameDriftChance <= 0 {
		cfg.NameDriftChance = defaults.NameDriftChance
	}
	if cfg.SuspendedChance <= 0 {
		cfg.SuspendedChance = defaults.SuspendedChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

var (
	firstNames = []string{"Jane", "Omar", "Priya", "Luis", "Mei", "Tom", "Aisha", "Viktor", "Sara", "Ken"}
	lastNames  = []string{"Doe", "Haddad", "Nair", "Garcia", "Chen", "Okafor", "Novak", "Kim", "Silva", "Berg"}
	nameStems  = []string{"Acme", "Nimbus", "Cobalt", "Harbor", "Vertex", "Lumen", "Cascade", "Juniper", "Atlas", "Meridian"}
	nameTrades = []string{"Logistics", "Fabrication", "Analytics", "Foods", "Freight", "Supply", "Media", "Textiles", "Robotics", "Staffing"}
	suffixes   = []string{"Inc", "LLC", "Co", "Ltd"}

	crmStatuses      = []string{"complete", "in_progress", "blocked"}
	transferStatuses = []string{"processed", "pending", "failed", "cancelled"}
	driftSuffixes    = []string{".", " Inc.", " LLC.", " Co."}
)

// Generate synthesises the dataset. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	now := time.Now().UTC()

	customers := make([]domain.PaymentsCustomer, g.cfg.NumCustomers)
	var businessIdx []int
	var personalIdx []int
	for i := 0; i < g.cfg.NumCustomers; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		customer := domain.PaymentsCustomer{
			ID:      g.newUUID(),
			Status:  g.randomCustomerStatus(),
			Created: now.Add(-time.Duration(g.rand.Intn(365*24)) * time.Hour),
		}
		if g.rand.Float64() < 0.6 {
			customer.Type = domain.CustomerTypeBusiness
			customer.BusinessName = g.randomBusinessName()
			customer.Email = g.randomEmail(customer.BusinessName)
			businessIdx = append(businessIdx, i)
		} else {
			customer.Type = domain.CustomerTypePersonal
			customer.FirstName = pick(g.rand, firstNames)
			customer.LastName = pick(g.rand, lastNames)
			customer.Email = g.randomEmail(customer.FirstName + customer.LastName)
			personalIdx = append(personalIdx, i)
		}
		customers[i] = customer
	}

	companies := make([]domain.CrmCompany, g.cfg.NumCompanies)
	for i := 0; i < g.cfg.NumCompanies; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		company := domain.CrmCompany{
			ID:     fmt.Sprintf("%d", 9000000000+g.rand.Intn(999999999)),
			Status: pick(g.rand, crmStatuses),
		}
		if i < len(businessIdx) {
			// Paired with a business customer: same name modulo drift, and
			// sometimes the explicit id link.
			paired := &customers[businessIdx[i]]
			company.Name = paired.BusinessName
			if g.rand.Float64() < g.cfg.NameDriftChance {
				paired.BusinessName = paired.BusinessName + pick(g.rand, driftSuffixes)
			}
			if g.rand.Float64() < g.cfg.ExternalIDChance {
				company.ExternalPaymentsID = paired.ID
			}
			if mapped, ok := crmStatusFor(paired.Status); ok && g.rand.Float64() < 0.7 {
				company.Status = mapped
			}
		} else {
			company.Name = g.randomBusinessName()
		}
		company.Description = fmt.Sprintf("%s account", pick(g.rand, nameTrades))
		companies[i] = company
	}

	contacts := make([]domain.CrmContact, g.cfg.NumContacts)
	for i := 0; i < g.cfg.NumContacts; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		contact := domain.CrmContact{
			ID:        fmt.Sprintf("%d", 100000000+g.rand.Intn(899999999)),
			FirstName: pick(g.rand, firstNames),
			LastName:  pick(g.rand, lastNames),
			Phone:     g.randomPhone(),
		}
		if len(companies) > 0 {
			contact.CompanyName = companies[g.rand.Intn(len(companies))].Name
		}
		if len(personalIdx) > 0 && g.rand.Float64() < g.cfg.EmailOverlapChance {
			// Shares an email with a personal payments customer, feeding the
			// email matching pass.
			paired := customers[personalIdx[g.rand.Intn(len(personalIdx))]]
			contact.Email = paired.Email
		} else {
			contact.Email = g.randomEmail(contact.FirstName + contact.LastName)
		}
		contacts[i] = contact
	}

	transfers := make([]domain.PaymentsTransfer, g.cfg.NumTransfers)
	for i := 0; i < g.cfg.NumTransfers; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		source := customers[g.rand.Intn(len(customers))].ID
		destination := customers[g.rand.Intn(len(customers))].ID
		transfers[i] = domain.PaymentsTransfer{
			ID:     g.newUUID(),
			Status: pick(g.rand, transferStatuses),
			Amount: domain.Amount{
				Value:    fmt.Sprintf("%d.%02d", 1+g.rand.Intn(5000), g.rand.Intn(100)),
				Currency: "USD",
			},
			Created:       now.Add(-time.Duration(g.rand.Intn(180*24)) * time.Hour),
			SourceID:      source,
			DestinationID: destination,
		}
	}

	return Dataset{
		Companies: companies,
		Contacts:  contacts,
		Customers: customers,
		Transfers: transfers,
	}, nil
}

// newUUID draws the UUID bytes from the seeded source so generation stays
// deterministic.
func (g *Generator) newUUID() string {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		// rand.Rand.Read never fails.
		panic(err)
	}
	return id.String()
}

func (g *Generator) randomBusinessName() string {
	return fmt.Sprintf("%s %s %s", pick(g.rand, nameStems), pick(g.rand, nameTrades), pick(g.rand, suffixes))
}

func (g *Generator) randomEmail(local string) string {
	domains := []string{"example.com", "mail.test", "corp.example"}
	return fmt.Sprintf("%s%d@%s", sanitizeLocal(local), g.rand.Intn(1000), pick(g.rand, domains))
}

func (g *Generator) randomPhone() string {
	return fmt.Sprintf("+1%03d%03d%04d", 200+g.rand.Intn(700), g.rand.Intn(1000), g.rand.Intn(10000))
}

func (g *Generator) randomCustomerStatus() string {
	roll := g.rand.Float64()
	switch {
	case roll < g.cfg.SuspendedChance:
		return domain.CustomerStatusSuspended
	case roll < g.cfg.SuspendedChance+0.15:
		return domain.CustomerStatusUnverified
	case roll < g.cfg.SuspendedChance+0.20:
		return domain.CustomerStatusRetry
	default:
		return domain.CustomerStatusVerified
	}
}

// crmStatusFor mirrors the engine's payments-to-CRM status mapping so most
// paired records agree and the rest exercise the mismatch rule.
func crmStatusFor(paymentsStatus string) (string, bool) {
	switch paymentsStatus {
	case domain.CustomerStatusVerified:
		return "complete", true
	case domain.CustomerStatusUnverified:
		return "in_progress", true
	case domain.CustomerStatusSuspended:
		return "blocked", true
	default:
		return "", false
	}
}

func pick(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}

func sanitizeLocal(value string) string {
	out := make([]rune, 0, len(value))
	for _, r := range value {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			out = append(out, r)
		}
		if r >= 'A' && r <= 'Z' {
			out = append(out, r+('a'-'A'))
		}
	}
	return string(out)
}
