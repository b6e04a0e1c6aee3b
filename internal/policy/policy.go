// Package policy decides who may start a checkout. It is authorization
// glue deliberately kept out of pricing and order logic: the HTTP layer
// consults it before calling the order service.
package policy

import (
	"context"
	"errors"
	"strings"
)

// ErrNotEntitled means the caller may not create orders right now.
var ErrNotEntitled = errors.New("policy: purchase not available for this account")

// Policy is the purchase gate consulted before CreateOrder.
type Policy interface {
	Allow(ctx context.Context, email string) error
}

// Allowlist implements Policy. Admin emails always pass; when closedBeta
// is set, only admin emails pass.
type Allowlist struct {
	admins     map[string]struct{}
	closedBeta bool
}

var _ Policy = (*Allowlist)(nil)

// NewAllowlist builds an Allowlist. Emails are matched case-insensitively.
func NewAllowlist(adminEmails []string, closedBeta bool) *Allowlist {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &Allowlist{admins: admins, closedBeta: closedBeta}
}

func (a *Allowlist) Allow(_ context.Context, email string) error {
	if !a.closedBeta {
		return nil
	}
	if _, ok := a.admins[strings.ToLower(strings.TrimSpace(email))]; ok {
		return nil
	}
	return ErrNotEntitled
}
