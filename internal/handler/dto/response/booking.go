package response

import (
	"time"

	"stoodioz/internal/usecase/commands"
	"stoodioz/internal/usecase/queries"

	"github.com/google/uuid"
)

type QuoteResponse struct {
	StoodioCostCents int64          `json:"stoodio_cost_cents"`
	EngineerFeeCents int64          `json:"engineer_fee_cents"`
	BeatsCostCents   int64          `json:"beats_cost_cents"`
	PullUpFeeCents   int64          `json:"pull_up_fee_cents"`
	MixingCostCents  int64          `json:"mixing_cost_cents"`
	SubtotalCents    int64          `json:"subtotal_cents"`
	ServiceFeeCents  int64          `json:"service_fee_cents"`
	TotalCents       int64          `json:"total_cents"`
	BudgetWarning    *BudgetWarning `json:"budget_warning,omitempty"`
}

// BudgetWarning surfaces a label budget shortfall at quote time without
// blocking the quote itself.
type BudgetWarning struct {
	RemainingTotalCents      int64  `json:"remaining_total_cents"`
	RemainingAllocationCents *int64 `json:"remaining_allocation_cents,omitempty"`
}

func FromQuoteResult(result *commands.QuoteResult) *QuoteResponse {
	resp := &QuoteResponse{
		StoodioCostCents: result.Quote.StoodioCost.Cents(),
		EngineerFeeCents: result.Quote.EngineerFee.Cents(),
		BeatsCostCents:   result.Quote.BeatsCost.Cents(),
		PullUpFeeCents:   result.Quote.PullUpFee.Cents(),
		MixingCostCents:  result.Quote.MixingCost.Cents(),
		SubtotalCents:    result.Quote.Subtotal.Cents(),
		ServiceFeeCents:  result.Quote.ServiceFee.Cents(),
		TotalCents:       result.Quote.Total.Cents(),
	}
	if result.BudgetWarning != nil {
		resp.BudgetWarning = &BudgetWarning{
			RemainingTotalCents:      result.BudgetWarning.RemainingTotalCents,
			RemainingAllocationCents: result.BudgetWarning.RemainingAllocationCents,
		}
	}
	return resp
}

type BookingResponse struct {
	ID               uuid.UUID  `json:"id"`
	RoomID           uuid.UUID  `json:"room_id"`
	RoomName         string     `json:"room_name"`
	StoodioID        uuid.UUID  `json:"stoodio_id"`
	StoodioName      string     `json:"stoodio_name"`
	ArtistID         uuid.UUID  `json:"artist_id"`
	EngineerID       *uuid.UUID `json:"engineer_id,omitempty"`
	ProducerID       *uuid.UUID `json:"producer_id,omitempty"`
	LabelID          *uuid.UUID `json:"label_id,omitempty"`
	SessionStart     time.Time  `json:"session_start"`
	DurationHours    int32      `json:"duration_hours"`
	RequestType      string     `json:"request_type"`
	PaymentSource    string     `json:"payment_source"`
	Status           string     `json:"status"`
	StoodioCostCents int64      `json:"stoodio_cost_cents"`
	EngineerFeeCents int64      `json:"engineer_fee_cents"`
	BeatsCostCents   int64      `json:"beats_cost_cents"`
	PullUpFeeCents   int64      `json:"pull_up_fee_cents"`
	MixingCostCents  int64      `json:"mixing_cost_cents"`
	SubtotalCents    int64      `json:"subtotal_cents"`
	ServiceFeeCents  int64      `json:"service_fee_cents"`
	TotalCents       int64      `json:"total_cents"`
	TipCents         int64      `json:"tip_cents"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type BookingListResponse struct {
	ID            uuid.UUID `json:"id"`
	RoomName      string    `json:"room_name"`
	StoodioName   string    `json:"stoodio_name"`
	SessionStart  time.Time `json:"session_start"`
	DurationHours int32     `json:"duration_hours"`
	Status        string    `json:"status"`
	TotalCents    int64     `json:"total_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:               view.ID,
		RoomID:           view.RoomID,
		RoomName:         view.RoomName,
		StoodioID:        view.StoodioID,
		StoodioName:      view.StoodioName,
		ArtistID:         view.ArtistID,
		EngineerID:       view.EngineerID,
		ProducerID:       view.ProducerID,
		LabelID:          view.LabelID,
		SessionStart:     view.SessionStart,
		DurationHours:    view.DurationHours,
		RequestType:      view.RequestType,
		PaymentSource:    view.PaymentSource,
		Status:           view.Status,
		StoodioCostCents: view.StoodioCostCents,
		EngineerFeeCents: view.EngineerFeeCents,
		BeatsCostCents:   view.BeatsCostCents,
		PullUpFeeCents:   view.PullUpFeeCents,
		MixingCostCents:  view.MixingCostCents,
		SubtotalCents:    view.SubtotalCents,
		ServiceFeeCents:  view.ServiceFeeCents,
		TotalCents:       view.TotalCents,
		TipCents:         view.TipCents,
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
	}
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:            item.ID,
		RoomName:      item.RoomName,
		StoodioName:   item.StoodioName,
		SessionStart:  item.SessionStart,
		DurationHours: item.DurationHours,
		Status:        item.Status,
		TotalCents:    item.TotalCents,
		CreatedAt:     item.CreatedAt,
	}
}

type CompletionResponse struct {
	BookingID             uuid.UUID  `json:"booking_id"`
	ProviderUserID        *uuid.UUID `json:"provider_user_id,omitempty"`
	ContractID            *uuid.UUID `json:"contract_id,omitempty"`
	GrossCents            int64      `json:"gross_cents"`
	LabelAmountCents      int64      `json:"label_amount_cents"`
	ProviderAmountCents   int64      `json:"provider_amount_cents"`
	RecoupAppliedCents    int64      `json:"recoup_applied_cents"`
	NewRecoupBalanceCents *int64     `json:"new_recoup_balance_cents,omitempty"`
	TipCents              int64      `json:"tip_cents"`
}

func FromRoutingResult(result *commands.RoutingResult) *CompletionResponse {
	return &CompletionResponse{
		BookingID:             result.BookingID,
		ProviderUserID:        result.ProviderUserID,
		ContractID:            result.ContractID,
		GrossCents:            result.GrossCents,
		LabelAmountCents:      result.LabelAmountCents,
		ProviderAmountCents:   result.ProviderAmountCents,
		RecoupAppliedCents:    result.RecoupAppliedCents,
		NewRecoupBalanceCents: result.NewRecoupBalanceCents,
		TipCents:              result.TipCents,
	}
}
