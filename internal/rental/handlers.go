package rental

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/common"
	"github.com/tluanga-dev/rental-manager-sub009/internal/money"
)

// Processor is the slice of the rental service the handlers use.
type Processor interface {
	GetRental(ctx context.Context, id uuid.UUID) (RentalRecord, error)
	ProcessReturn(ctx context.Context, rentalID uuid.UUID, req ReturnRequest) (ReturnRecord, error)
	ListReturns(ctx context.Context, rentalID uuid.UUID) ([]ReturnRecord, error)
}

// Handler exposes rental and return endpoints.
type Handler struct {
	Svc      Processor
	Validate *validator.Validate
}

type returnItemRequest struct {
	ItemID           string `json:"itemId" validate:"required,uuid"`
	QuantityReturned int    `json:"quantityReturned" validate:"required,gt=0"`
	Condition        string `json:"condition" validate:"required,oneof=GOOD DAMAGED LOST"`
	DamageSeverity   string `json:"damageSeverity,omitempty" validate:"omitempty,oneof=MINOR MAJOR"`
	ConditionNotes   string `json:"conditionNotes,omitempty"`
	DamageCharge     string `json:"damageCharge,omitempty"`
}

type processReturnRequest struct {
	ReturnType  string              `json:"returnType" validate:"required,oneof=COMPLETE PARTIAL"`
	ReturnDate  string              `json:"returnDate,omitempty"`
	Items       []returnItemRequest `json:"items" validate:"required,min=1,dive"`
	ReturnNotes string              `json:"returnNotes,omitempty"`
}

// ProcessReturn handles POST /rentals/{rentalId}/returns.
func (h *Handler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "rental service not configured", nil)
		return
	}
	rentalID, err := uuid.Parse(chi.URLParam(r, "rentalId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id", nil)
		return
	}
	var body processReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(body); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, "invalid return payload", err.Error())
			return
		}
	}
	req, err := body.toRequest()
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, err.Error(), nil)
		return
	}
	if actor, ok := common.ActorID(r.Context()); ok {
		req.ProcessedBy = actor
	}

	record, err := h.Svc.ProcessReturn(r.Context(), rentalID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": record})
}

func (b processReturnRequest) toRequest() (ReturnRequest, error) {
	req := ReturnRequest{
		ReturnType:  ReturnType(b.ReturnType),
		ReturnNotes: b.ReturnNotes,
		Items:       make([]ReturnItemDisposition, 0, len(b.Items)),
	}
	if b.ReturnDate != "" {
		parsed, err := time.Parse(time.RFC3339, b.ReturnDate)
		if err != nil {
			return ReturnRequest{}, errors.New("returnDate must be RFC 3339")
		}
		req.ReturnDate = parsed
	}
	for _, item := range b.Items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			return ReturnRequest{}, errors.New("invalid item id in return items")
		}
		disposition := ReturnItemDisposition{
			ItemID:           itemID,
			QuantityReturned: item.QuantityReturned,
			Condition:        ItemCondition(item.Condition),
			DamageSeverity:   DamageSeverity(item.DamageSeverity),
			ConditionNotes:   item.ConditionNotes,
		}
		if item.DamageCharge != "" {
			charge, err := decimal.NewFromString(item.DamageCharge)
			if err != nil || charge.IsNegative() {
				return ReturnRequest{}, errors.New("damageCharge must be a non-negative amount")
			}
			disposition.DamageCharge = charge
		}
		req.Items = append(req.Items, disposition)
	}
	return req, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRentalNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "rental not found", nil)
	case errors.Is(err, ErrRentalCompleted):
		common.JSONError(w, http.StatusConflict, common.CodeConflict, err.Error(), nil)
	case errors.Is(err, ErrNoReturnItems),
		errors.Is(err, ErrProcessorRequired),
		errors.Is(err, ErrSeverityRequired),
		errors.Is(err, ErrUnknownCondition),
		errors.Is(err, ErrUnknownItem),
		errors.Is(err, ErrQuantityExceedsLine),
		errors.Is(err, ErrUnknownReturnType),
		errors.Is(err, money.ErrNegativeAmount):
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, err.Error(), nil)
	default:
		common.JSONAppError(w, common.AsAppError(err))
	}
}

// Get handles GET /rentals/{rentalId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "rental service not configured", nil)
		return
	}
	rentalID, err := uuid.Parse(chi.URLParam(r, "rentalId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id", nil)
		return
	}
	rental, err := h.Svc.GetRental(r.Context(), rentalID)
	if err != nil {
		if errors.Is(err, ErrRentalNotFound) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "rental not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to load rental", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rental})
}

// ListReturns handles GET /rentals/{rentalId}/returns.
func (h *Handler) ListReturns(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "rental service not configured", nil)
		return
	}
	rentalID, err := uuid.Parse(chi.URLParam(r, "rentalId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid rental id", nil)
		return
	}
	returns, err := h.Svc.ListReturns(r.Context(), rentalID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to list returns", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": returns})
}
