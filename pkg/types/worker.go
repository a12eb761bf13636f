package types

import (
	"strings"
	"time"
)

type Worker struct {
	ID         string    `db:"id" json:"id"`
	Email      *string   `db:"email" json:"email,omitempty"`
	GivenName  *string   `db:"given_name" json:"givenName,omitempty"`
	FamilyName *string   `db:"family_name" json:"familyName,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// DisplayName joins the worker's names, falling back to the email address.
func (w *Worker) DisplayName() string {
	parts := make([]string, 0, 2)
	if w.GivenName != nil && strings.TrimSpace(*w.GivenName) != "" {
		parts = append(parts, strings.TrimSpace(*w.GivenName))
	}
	if w.FamilyName != nil && strings.TrimSpace(*w.FamilyName) != "" {
		parts = append(parts, strings.TrimSpace(*w.FamilyName))
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if w.Email != nil {
		return *w.Email
	}
	return ""
}
