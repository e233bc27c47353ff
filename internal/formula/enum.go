package formula

import (
	"fmt"
	"strings"

	"github.com/saulo-duarte/scent-quiz/internal/apperr"
)

// Policy names the strategy used to pick one note per category.
type Policy string

const (
	// PolicyFirstInCatalog takes the first note of each category in catalog
	// order and ignores the answers.
	PolicyFirstInCatalog Policy = "FIRST_IN_CATALOG"
	// PolicyUniformRandom draws one note per category uniformly at random.
	PolicyUniformRandom Policy = "UNIFORM_RANDOM"
	// PolicyMostFrequentNote counts the notes referenced by the chosen options
	// and takes the most voted note per category.
	PolicyMostFrequentNote Policy = "MOST_FREQUENT_NOTE"
)

const DefaultPolicy = PolicyFirstInCatalog

var AllPolicies = []Policy{
	PolicyFirstInCatalog,
	PolicyUniformRandom,
	PolicyMostFrequentNote,
}

func (p Policy) IsValid() bool {
	for _, v := range AllPolicies {
		if p == v {
			return true
		}
	}
	return false
}

// ParsePolicy is case-insensitive. An empty string yields DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPolicy, nil
	}
	p := Policy(strings.ToUpper(s))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: unknown formula policy %q", apperr.ErrValidation, s)
	}
	return p, nil
}
