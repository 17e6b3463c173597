package booking

// RequestType selects how an engineer is attached to a session, which
// in turn decides whether an engineer fee applies at all.
type RequestType string

const (
	RequestFindAvailable    RequestType = "find_available"
	RequestSpecificEngineer RequestType = "specific_engineer"
	RequestBringYourOwn     RequestType = "bring_your_own"
	RequestBeatPurchase     RequestType = "beat_purchase"
)

func (r RequestType) String() string {
	return string(r)
}

func (r RequestType) IsValid() bool {
	switch r {
	case RequestFindAvailable, RequestSpecificEngineer, RequestBringYourOwn, RequestBeatPurchase:
		return true
	default:
		return false
	}
}

// PaymentSource identifies who pays for the session.
type PaymentSource string

const (
	PaidByArtist PaymentSource = "artist"
	PaidByLabel  PaymentSource = "label"
)

func (p PaymentSource) IsValid() bool {
	return p == PaidByArtist || p == PaidByLabel
}

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusConfirmed       Status = "confirmed"
	StatusInProgress      Status = "in_progress"
	StatusCompleted       Status = "completed"
	StatusCanceled        Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingApproval, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the booking status machine. Bookings are
// never deleted; cancellation is a terminal status.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPendingApproval:
		return next == StatusConfirmed || next == StatusCanceled
	case StatusConfirmed:
		return next == StatusInProgress || next == StatusCompleted || next == StatusCanceled
	case StatusInProgress:
		return next == StatusCompleted
	default:
		return false
	}
}
