package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Role determines which operations a user may perform.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEducator Role = "EDUCATOR"
	RoleStudent  Role = "STUDENT"
)

// ParseRole normalizes a raw role value into exactly one of the three
// roles. Matching is case-insensitive against the two privileged
// values; anything else, including absence and non-string values,
// collapses to STUDENT. This is the only legal source of a Role — no
// other code path may interpret raw role strings.
func ParseRole(raw any) Role {
	s, ok := raw.(string)
	if !ok {
		return RoleStudent
	}
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleEducator):
		return RoleEducator
	default:
		return RoleStudent
	}
}

// Profile is the platform's stored view of a user, keyed by the
// identity provider's subject id. The core reads profiles on every
// authorization decision and never mutates them.
type Profile struct {
	Subject         string   `json:"subject"`
	Role            Role     `json:"role"`
	EnrolledTenants []string `json:"enrolled_tenants"`
	EducatorID      string   `json:"educator_id,omitempty"`
	DisplayName     string   `json:"display_name,omitempty"`
}

// IsEnrolled reports whether the profile grants the student access to
// the given tenant slug.
func (p *Profile) IsEnrolled(slug string) bool {
	return slices.Contains(p.EnrolledTenants, slug)
}

// Normalize builds a Profile from a raw stored document. Role and
// enrollment fields are defensively defaulted: the enrollment list is
// taken from the "enrolledTenants" array when it is a proper sequence,
// else from the legacy scalar "tenantSlug" field wrapped into a
// one-element list, else empty.
func Normalize(subject string, doc map[string]any) *Profile {
	p := &Profile{
		Subject:         subject,
		Role:            ParseRole(doc["role"]),
		EnrolledTenants: normalizeEnrollment(doc),
	}
	if v, ok := doc["educatorId"].(string); ok {
		p.EducatorID = v
	}
	if v, ok := doc["displayName"].(string); ok {
		p.DisplayName = v
	}
	return p
}

func normalizeEnrollment(doc map[string]any) []string {
	if raw, ok := doc["enrolledTenants"]; ok {
		if list := toStringList(raw); list != nil {
			return list
		}
	}
	if slug, ok := doc["tenantSlug"].(string); ok && slug != "" {
		return []string{slug}
	}
	return []string{}
}

// toStringList converts stored array representations into a string
// slice, returning nil when the value is not a proper sequence.
func toStringList(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	default:
		return nil
	}
}

// Store fetches stored profiles. Absence of a profile is not an error:
// implementations return (nil, nil) so callers apply student defaults.
type Store interface {
	Get(ctx context.Context, subject string) (*Profile, error)
}
