package domain

// Identity is the authenticated caller resolved from a token.
type Identity struct {
	Subject string
	Roles   []string
}

// NewIdentity copies roles, dropping duplicates while keeping first-seen order.
func NewIdentity(subject string, roles []string) Identity {
	seen := make(map[string]struct{}, len(roles))
	ordered := make([]string, 0, len(roles))
	for _, role := range roles {
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		ordered = append(ordered, role)
	}
	return Identity{Subject: subject, Roles: ordered}
}

// HasRole reports whether the identity carries role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
