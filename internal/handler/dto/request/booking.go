package request

import (
	"time"

	"github.com/google/uuid"
)

// QuoteRequest carries everything the pricing engine needs to price a
// prospective session. The same shape is embedded in the submission
// request so a quoted configuration books without re-entry.
type QuoteRequest struct {
	RoomID        uuid.UUID   `json:"room_id" binding:"required"`
	DurationHours int         `json:"duration_hours" binding:"required,min=1"`
	RequestType   string      `json:"request_type" binding:"required"`
	EngineerID    *uuid.UUID  `json:"engineer_id,omitempty"`
	ProducerID    *uuid.UUID  `json:"producer_id,omitempty"`
	BeatIDs       []uuid.UUID `json:"beat_ids,omitempty"`
	MixingTracks  *int        `json:"mixing_tracks,omitempty"`
	PaymentSource string      `json:"payment_source" binding:"required"`
	LabelID       *uuid.UUID  `json:"label_id,omitempty"`
}

type CreateBookingRequest struct {
	QuoteRequest
	SessionStart time.Time `json:"session_start" binding:"required"`
}

type CompleteBookingRequest struct {
	TipCents int64 `json:"tip_cents" binding:"omitempty,min=0"`
}
