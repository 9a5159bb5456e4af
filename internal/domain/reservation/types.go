package reservation

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
	StatusStopped   Status = "stopped"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled, StatusStopped:
		return true
	default:
		return false
	}
}

// IsActive reports whether the reservation still holds its table. Only
// active reservations take part in overlap checks.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo encodes the one-directional lifecycle:
// pending → confirmed|canceled, confirmed → canceled|stopped.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCanceled
	case StatusConfirmed:
		return next == StatusCanceled || next == StatusStopped
	default:
		return false
	}
}
