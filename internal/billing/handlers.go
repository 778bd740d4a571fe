package billing

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/common"
)

// Handler exposes the line pricing endpoint.
type Handler struct {
	Validate *validator.Validate
}

type quoteLineRequest struct {
	Quantity        string  `json:"quantity" validate:"required"`
	UnitPrice       string  `json:"unitPrice" validate:"required"`
	DiscountAmount  string  `json:"discountAmount,omitempty"`
	TaxAmount       string  `json:"taxAmount,omitempty"`
	TaxRate         *string `json:"taxRate,omitempty"`
	RentalPeriod    int     `json:"rentalPeriod,omitempty" validate:"omitempty,gte=0"`
	RentalStartDate *string `json:"rentalStartDate,omitempty"`
	RentalEndDate   *string `json:"rentalEndDate,omitempty"`
}

type quoteLineResponse struct {
	PeriodMultiplier decimal.Decimal `json:"periodMultiplier"`
	ExtendedPrice    decimal.Decimal `json:"extendedPrice"`
	NetAmount        decimal.Decimal `json:"netAmount"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	Total            decimal.Decimal `json:"total"`
}

// Quote handles POST /transactions/lines/quote. It prices a single line
// without persisting anything.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, "invalid line payload", err.Error())
			return
		}
	}
	line, taxRate, err := req.toLine()
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, err.Error(), nil)
		return
	}
	if taxRate != nil {
		if err := line.UpdatePricing(line.UnitPrice, line.DiscountAmount, *taxRate); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, err.Error(), nil)
			return
		}
	}
	total, err := line.Total()
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, common.CodeValidation, err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quoteLineResponse{
		PeriodMultiplier: line.PeriodMultiplier(),
		ExtendedPrice:    line.ExtendedPrice(),
		NetAmount:        line.NetAmount(),
		TaxAmount:        line.TaxAmount,
		Total:            total,
	}})
}

func (req quoteLineRequest) toLine() (Line, *decimal.Decimal, error) {
	line := Line{RentalPeriod: req.RentalPeriod}

	var err error
	if line.Quantity, err = decimal.NewFromString(req.Quantity); err != nil {
		return Line{}, nil, errors.New("invalid quantity")
	}
	if line.UnitPrice, err = decimal.NewFromString(req.UnitPrice); err != nil {
		return Line{}, nil, errors.New("invalid unit price")
	}
	if req.DiscountAmount != "" {
		if line.DiscountAmount, err = decimal.NewFromString(req.DiscountAmount); err != nil {
			return Line{}, nil, errors.New("invalid discount amount")
		}
	}
	if req.TaxAmount != "" {
		if line.TaxAmount, err = decimal.NewFromString(req.TaxAmount); err != nil {
			return Line{}, nil, errors.New("invalid tax amount")
		}
	}
	if req.RentalStartDate != nil {
		start, err := time.Parse(time.RFC3339, *req.RentalStartDate)
		if err != nil {
			return Line{}, nil, errors.New("rentalStartDate must be RFC 3339")
		}
		line.RentalStartDate = &start
	}
	if req.RentalEndDate != nil {
		end, err := time.Parse(time.RFC3339, *req.RentalEndDate)
		if err != nil {
			return Line{}, nil, errors.New("rentalEndDate must be RFC 3339")
		}
		line.RentalEndDate = &end
	}

	var taxRate *decimal.Decimal
	if req.TaxRate != nil {
		parsed, err := decimal.NewFromString(*req.TaxRate)
		if err != nil {
			return Line{}, nil, errors.New("invalid tax rate")
		}
		taxRate = &parsed
	}
	return line, taxRate, nil
}
