package stock

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/common"
	"github.com/tluanga-dev/rental-manager-sub009/internal/money"
)

// Handler exposes stock movement endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type recordMovementRequest struct {
	ItemID          string  `json:"itemId" validate:"required,uuid"`
	MovementType    string  `json:"movementType" validate:"required"`
	Quantity        string  `json:"quantity" validate:"required"`
	UnitCost        *string `json:"unitCost,omitempty"`
	ReferenceNumber string  `json:"referenceNumber,omitempty"`
	Reason          string  `json:"reason,omitempty"`
	MovementDate    *string `json:"movementDate,omitempty"`
}

// Record handles POST /stock/movements.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "stock service not configured", nil)
		return
	}
	var req recordMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, "invalid movement payload", err.Error())
			return
		}
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	movementType, err := ParseType(req.MovementType)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, err.Error(), nil)
		return
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, "invalid quantity", nil)
		return
	}
	var unitCost *decimal.Decimal
	if req.UnitCost != nil {
		parsed, err := decimal.NewFromString(*req.UnitCost)
		if err != nil || parsed.IsNegative() {
			common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, "invalid unit cost", nil)
			return
		}
		unitCost = &parsed
	}
	var movementDate time.Time
	if req.MovementDate != nil {
		movementDate, err = time.Parse(time.RFC3339, *req.MovementDate)
		if err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, "invalid movement date", nil)
			return
		}
	}

	var performedBy *uuid.UUID
	if actor, ok := common.ActorID(r.Context()); ok {
		if parsed, err := uuid.Parse(actor); err == nil {
			performedBy = &parsed
		}
	}

	movement, err := h.Svc.Record(r.Context(), RecordInput{
		ItemID:          itemID,
		Type:            movementType,
		Quantity:        quantity,
		UnitCost:        unitCost,
		ReferenceNumber: req.ReferenceNumber,
		Reason:          req.Reason,
		PerformedByID:   performedBy,
		MovementDate:    movementDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrQuantityMath),
			errors.Is(err, ErrReasonRequired),
			errors.Is(err, ErrPerformerRequired),
			errors.Is(err, money.ErrNegativeAmount):
			common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, err.Error(), nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to record movement", nil)
		}
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": movement})
}

// List handles GET /stock/movements?itemId=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "stock service not configured", nil)
		return
	}
	itemID, err := uuid.Parse(r.URL.Query().Get("itemId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "itemId query parameter is required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	if perPage > 100 {
		perPage = 100
	}
	movements, total, err := h.Svc.List(r.Context(), itemID, perPage, (page-1)*perPage)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to list movements", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": movements,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: total,
		},
	})
}
