package generator

// Config controls the synthetic dataset's size and overlap characteristics.
type Config struct {
	NumCompanies int
	NumContacts  int
	NumCustomers int
	NumTransfers int
	// ExternalIDChance is the probability that a company paired with a
	// payments customer records that customer's id.
	ExternalIDChance float64
	// EmailOverlapChance is the probability that a contact reuses a
	// personal payments customer's email.
	EmailOverlapChance float64
	// NameDriftChance is the probability that a paired business name is
	// spelled slightly differently on the payments side.
	NameDriftChance float64
	// SuspendedChance is the probability that a customer is suspended.
	SuspendedChance float64
	Seed            int64
}

// DefaultConfig returns generation defaults sized like one realistic search
// result set.
func DefaultConfig() Config {
	return Config{
		NumCompanies:       40,
		NumContacts:        80,
		NumCustomers:       50,
		NumTransfers:       150,
		ExternalIDChance:   0.5,
		EmailOverlapChance: 0.3,
		NameDriftChance:    0.4,
		SuspendedChance:    0.1,
	}
}
