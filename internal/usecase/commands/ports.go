package commands

import (
	"context"
)

// AdminNotifier fans booking alerts out to venue staff. Delivery is best
// effort; implementations log and swallow transport failures.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, text string)
}
