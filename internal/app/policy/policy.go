// Package policy holds the authorization rules applied before resource
// mutations. Decisions are pure functions of the resolved principal and
// the resource owner; nothing is cached, since roles and ownership can
// change between requests.
package policy

import (
	"credpal/internal/common"
	"credpal/internal/domain/model"
)

type Rule int

const (
	// AdminOnly allows only principals with the admin role.
	AdminOnly Rule = iota
	// OwnerOrAdmin allows the resource owner or any admin.
	OwnerOrAdmin
)

// Authorize decides whether the principal may perform an action guarded
// by the given rule on a resource owned by ownerID. A nil principal is
// always denied; the resolver should have rejected the request earlier.
func Authorize(p *model.Principal, rule Rule, ownerID string) error {
	if p == nil {
		return common.ErrForbidden
	}
	switch rule {
	case AdminOnly:
		if p.IsAdmin() {
			return nil
		}
	case OwnerOrAdmin:
		if p.ID == ownerID || p.IsAdmin() {
			return nil
		}
	}
	return common.ErrForbidden
}
