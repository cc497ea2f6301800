package billing

import "strings"

// PlanKey identifies an offered subscription tier.
type PlanKey string

const (
	PlanEssential  PlanKey = "ESSENTIAL"
	PlanPro        PlanKey = "PRO"
	PlanEnterprise PlanKey = "ENTERPRISE"
)

// Catalog maps plan keys to the payment provider's plan identifiers.
// The mapping is fixed at startup from configuration; an unknown key
// always fails before any provider call.
type Catalog struct {
	plans map[PlanKey]string
}

// NewCatalog builds a catalog from a key to provider-plan-id mapping.
// Empty provider ids are dropped so a partially configured
// environment only offers the plans it can bill for.
func NewCatalog(plans map[PlanKey]string) *Catalog {
	clean := make(map[PlanKey]string, len(plans))
	for key, id := range plans {
		if id != "" {
			clean[key] = id
		}
	}
	return &Catalog{plans: clean}
}

// Resolve returns the normalized plan key and the provider plan id for
// a raw key. The lookup is case-insensitive. Unknown keys return
// ErrUnknownPlan.
func (c *Catalog) Resolve(raw string) (PlanKey, string, error) {
	key := PlanKey(strings.ToUpper(strings.TrimSpace(raw)))
	id, ok := c.plans[key]
	if !ok {
		return "", "", ErrUnknownPlan
	}
	return key, id, nil
}

// Keys returns the configured plan keys.
func (c *Catalog) Keys() []PlanKey {
	keys := make([]PlanKey, 0, len(c.plans))
	for key := range c.plans {
		keys = append(keys, key)
	}
	return keys
}
