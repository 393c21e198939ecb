package servitor

import (
	"fmt"
	"strings"
	"time"
)

// Ritual renders the dismissal ritual text for a servitor.
func Ritual(sv *Servitor) string {
	return fmt.Sprintf(`
=== DISMISSAL RITUAL FOR %s ===

Servitor Name: %s
Purpose: %s
Created: %s
Final Charge Level: %.1f%%

RITUAL:

I hereby release %s from its purpose.
Its task is complete, its energy returned to the void.
%s, you are dismissed.
Your form dissolves, your purpose fulfilled.
Return to the source from which you came.

So it is done.

=== END OF RITUAL ===
`,
		strings.ToUpper(sv.Name),
		sv.Name,
		sv.Purpose,
		sv.CreationDate.Format("2006-01-02 15:04:05"),
		sv.ChargeLevel,
		sv.Name,
		sv.Name,
	)
}

// Dismiss deactivates the servitor, notes the dismissal, and archives the
// record. Dismissing twice is an error.
func Dismiss(store *Store, sv *Servitor, reason string) error {
	if sv.Status == StatusDismissed {
		return fmt.Errorf("servitor %s is already dismissed", sv.Name)
	}
	sv.Deactivate()
	note := fmt.Sprintf("\n[DISMISSED %s]", time.Now().Format(time.RFC3339))
	if reason != "" {
		note += " Reason: " + reason
	}
	sv.Notes += note
	return store.Archive(sv)
}
