// Package alert delivers expiry reminders to workers outside the application.
package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carewatch/pkg/types"
)

var ErrNoRecipient = errors.New("alert has no recipient address")

// Sender is implemented by every transport in this package.
type Sender interface {
	SendExpiryAlert(ctx context.Context, alert types.ExpiryAlert) error
}

func validate(alert types.ExpiryAlert) error {
	if strings.TrimSpace(alert.RecipientAddress) == "" {
		return ErrNoRecipient
	}
	return nil
}

func subject(alert types.ExpiryAlert) string {
	if alert.DaysUntilExpiry == 1 {
		return fmt.Sprintf("Reminder: your %s expires tomorrow", alert.DocumentName)
	}
	return fmt.Sprintf("Reminder: your %s expires in %d days", alert.DocumentName, alert.DaysUntilExpiry)
}

func body(alert types.ExpiryAlert, portalURL string) string {
	name := alert.RecipientName
	if name == "" {
		name = "there"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Your %s expires on %s.\n", alert.DocumentName, alert.ExpiryDate.Format("2 January 2006"))
	b.WriteString("Please upload a renewed copy before it expires so you can keep being rostered on shifts.\n")
	if portalURL != "" {
		fmt.Fprintf(&b, "\nUpload it here: %s/documents\n", strings.TrimSuffix(portalURL, "/"))
	}
	b.WriteString("\nThanks,\nThe compliance team\n")
	return b.String()
}
