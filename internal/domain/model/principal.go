package model

// Principal is the resolved identity of the caller for one request. It
// is produced by the authentication resolver, threaded through context
// to handlers and the authorization policy, and never persisted. It
// carries no secret material.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
