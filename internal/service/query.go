package service

import (
	"regexp"
	"strings"

	"github.com/advait/custlink/internal/domain"
)

var businessSuffixes = map[string]struct{}{
	"inc":     {},
	"llc":     {},
	"corp":    {},
	"ltd":     {},
	"co":      {},
	"company": {},
}

var personTokenRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z'-]*$`)

// DetectQueryKind classifies the operator's input: an "@" means email, a
// business-suffix token means business name, two or more name-shaped tokens
// mean a person name. Anything else is unknown and is treated as a name
// search downstream.
func DetectQueryKind(query string) domain.QueryKind {
	query = sanitizeString(query)
	if query == "" {
		return domain.QueryKindUnknown
	}
	if strings.Contains(query, "@") {
		return domain.QueryKindEmail
	}

	tokens := strings.Fields(query)
	for _, token := range tokens {
		trimmed := strings.ToLower(strings.Trim(token, ".,"))
		if _, ok := businessSuffixes[trimmed]; ok {
			return domain.QueryKindBusinessName
		}
	}

	if len(tokens) >= 2 {
		nameShaped := true
		for _, token := range tokens {
			if !personTokenRegex.MatchString(token) {
				nameShaped = false
				break
			}
		}
		if nameShaped {
			return domain.QueryKindPersonName
		}
	}

	return domain.QueryKindUnknown
}
