package service

import (
	"strings"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a service operation. A nil *Actor means anonymous.
type Actor struct {
	ID      uuid.UUID
	Email   string
	Name    string
	IsAdmin bool
}

// AuditName is what ends up in created_by/updated_by and inventory log rows.
func (a *Actor) AuditName() string {
	if a == nil {
		return "system"
	}
	return a.Email
}

// AdminList is the configured set of administrator e-mails.
type AdminList map[string]struct{}

func NewAdminList(emails []string) AdminList {
	l := make(AdminList, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			l[e] = struct{}{}
		}
	}
	return l
}

func (l AdminList) Contains(email string) bool {
	_, ok := l[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func requireActor(a *Actor) error {
	if a == nil || a.ID == uuid.Nil {
		return ErrUnauthenticated
	}
	return nil
}

func requireAdmin(a *Actor) error {
	if err := requireActor(a); err != nil {
		return err
	}
	if !a.IsAdmin {
		return ErrForbidden
	}
	return nil
}
