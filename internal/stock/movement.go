package stock

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/money"
)

// Type identifies the business event behind an inventory quantity change.
type Type string

const (
	TypePurchase           Type = "PURCHASE"
	TypePurchaseReturn     Type = "PURCHASE_RETURN"
	TypeSale               Type = "SALE"
	TypeSaleReturn         Type = "SALE_RETURN"
	TypeRentalOut          Type = "RENTAL_OUT"
	TypeRentalReturn       Type = "RENTAL_RETURN"
	TypeRentalReturnDamage Type = "RENTAL_RETURN_DAMAGED"
	TypeRentalSwapOut      Type = "RENTAL_SWAP_OUT"
	TypeRentalSwapIn       Type = "RENTAL_SWAP_IN"
	TypeTransferIn         Type = "TRANSFER_IN"
	TypeTransferOut        Type = "TRANSFER_OUT"
	TypeSentForRepair      Type = "SENT_FOR_REPAIR"
	TypeReturnedFromRepair Type = "RETURNED_FROM_REPAIR"
	TypeRepairWriteOff     Type = "REPAIR_WRITE_OFF"
	TypeAdjustmentPositive Type = "ADJUSTMENT_POSITIVE"
	TypeAdjustmentNegative Type = "ADJUSTMENT_NEGATIVE"
	TypeSystemCorrection   Type = "SYSTEM_CORRECTION"
	TypeDamageLoss         Type = "DAMAGE_LOSS"
	TypeTheftLoss          Type = "THEFT_LOSS"
	TypeExpiryLoss         Type = "EXPIRY_LOSS"
	TypeWriteOff           Type = "WRITE_OFF"
	TypeReservationCreated Type = "RESERVATION_CREATED"
	TypeReservationRelease Type = "RESERVATION_RELEASED"
	TypeInitialStock       Type = "INITIAL_STOCK"
)

// AllTypes lists every movement type. The categorization switch below must
// stay exhaustive over this slice; init verifies it at startup.
var AllTypes = []Type{
	TypePurchase, TypePurchaseReturn,
	TypeSale, TypeSaleReturn,
	TypeRentalOut, TypeRentalReturn, TypeRentalReturnDamage, TypeRentalSwapOut, TypeRentalSwapIn,
	TypeTransferIn, TypeTransferOut,
	TypeSentForRepair, TypeReturnedFromRepair, TypeRepairWriteOff,
	TypeAdjustmentPositive, TypeAdjustmentNegative, TypeSystemCorrection,
	TypeDamageLoss, TypeTheftLoss, TypeExpiryLoss, TypeWriteOff,
	TypeReservationCreated, TypeReservationRelease,
	TypeInitialStock,
}

// Category groups movement types for reporting and stock-level direction.
type Category string

const (
	CategoryPurchase     Category = "PURCHASE"
	CategorySale         Category = "SALE"
	CategoryRental       Category = "RENTAL"
	CategoryTransfer     Category = "TRANSFER"
	CategoryDamageRepair Category = "DAMAGE_REPAIR"
	CategoryAdjustment   Category = "ADJUSTMENT"
	CategoryLoss         Category = "LOSS"
	CategoryReservation  Category = "RESERVATION"
	CategoryOther        Category = "OTHER"
)

// Category maps a movement type to its reporting category.
func (t Type) Category() Category {
	switch t {
	case TypePurchase, TypePurchaseReturn:
		return CategoryPurchase
	case TypeSale, TypeSaleReturn:
		return CategorySale
	case TypeRentalOut, TypeRentalReturn, TypeRentalReturnDamage, TypeRentalSwapOut, TypeRentalSwapIn:
		return CategoryRental
	case TypeTransferIn, TypeTransferOut:
		return CategoryTransfer
	case TypeSentForRepair, TypeReturnedFromRepair, TypeRepairWriteOff:
		return CategoryDamageRepair
	case TypeAdjustmentPositive, TypeAdjustmentNegative, TypeSystemCorrection:
		return CategoryAdjustment
	case TypeDamageLoss, TypeTheftLoss, TypeExpiryLoss, TypeWriteOff:
		return CategoryLoss
	case TypeReservationCreated, TypeReservationRelease:
		return CategoryReservation
	case TypeInitialStock:
		return CategoryOther
	}
	return ""
}

// IsPositive reports whether the movement adds to on-hand stock.
// PURCHASE_RETURN reduces on-hand stock despite being a "return": goods go
// back to the supplier. SENT_FOR_REPAIR reduces stock because the unit leaves
// available inventory.
func (t Type) IsPositive() bool {
	switch t {
	case TypePurchase, TypeSaleReturn, TypeRentalReturn, TypeRentalReturnDamage,
		TypeRentalSwapIn, TypeTransferIn, TypeReturnedFromRepair,
		TypeAdjustmentPositive, TypeReservationRelease, TypeInitialStock:
		return true
	}
	return false
}

// IsNegative reports whether the movement removes from on-hand stock.
// SYSTEM_CORRECTION is neither: its sign comes from the recorded change.
func (t Type) IsNegative() bool {
	switch t {
	case TypePurchaseReturn, TypeSale, TypeRentalOut, TypeRentalSwapOut,
		TypeTransferOut, TypeSentForRepair, TypeRepairWriteOff,
		TypeAdjustmentNegative, TypeDamageLoss, TypeTheftLoss, TypeExpiryLoss,
		TypeWriteOff, TypeReservationCreated:
		return true
	}
	return false
}

// ParseType resolves a movement type from its wire representation.
func ParseType(value string) (Type, error) {
	candidate := Type(strings.ToUpper(strings.TrimSpace(value)))
	for _, t := range AllTypes {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown movement type %q", value)
}

func init() {
	// A newly added type must be classified before it can be used; falling
	// through to an empty category or an undefined direction is a bug.
	for _, t := range AllTypes {
		if t.Category() == "" {
			panic(fmt.Sprintf("stock: movement type %s has no category", t))
		}
		if t != TypeSystemCorrection && t.IsPositive() == t.IsNegative() {
			panic(fmt.Sprintf("stock: movement type %s has no direction", t))
		}
	}
}

var (
	// ErrQuantityMath is returned when before + change does not reconcile with after.
	ErrQuantityMath = errors.New("quantity math error: before + change must equal after")
	// ErrReasonRequired is returned when an adjustment movement lacks a reason.
	ErrReasonRequired = errors.New("adjustment movements require a reason")
	// ErrPerformerRequired is returned when an adjustment movement lacks an actor.
	ErrPerformerRequired = errors.New("adjustment movements require a performer")
)

// Movement is an immutable ledger entry recording one inventory quantity
// change. Records are never mutated or deleted once persisted.
type Movement struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"itemId"`
	Type            Type            `json:"movementType"`
	QuantityBefore  decimal.Decimal `json:"quantityBefore"`
	QuantityChange  decimal.Decimal `json:"quantityChange"`
	QuantityAfter   decimal.Decimal `json:"quantityAfter"`
	UnitCost        *decimal.Decimal `json:"unitCost,omitempty"`
	TotalCost       *decimal.Decimal `json:"totalCost,omitempty"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	PerformedByID   *uuid.UUID      `json:"performedById,omitempty"`
	MovementDate    time.Time       `json:"movementDate"`
}

// Quantized returns a copy with all quantities rounded to two decimal places.
func (m Movement) Quantized() Movement {
	m.QuantityBefore = money.Quantize(m.QuantityBefore)
	m.QuantityChange = money.Quantize(m.QuantityChange)
	m.QuantityAfter = money.Quantize(m.QuantityAfter)
	return m
}

// Validate checks the movement's internal consistency before persistence.
func (m Movement) Validate() error {
	if err := money.RequireNonNegative("quantity_before", m.QuantityBefore); err != nil {
		return err
	}
	if err := money.RequireNonNegative("quantity_after", m.QuantityAfter); err != nil {
		return err
	}
	if !money.WithinTolerance(m.QuantityBefore.Add(m.QuantityChange), m.QuantityAfter) {
		return ErrQuantityMath
	}
	if m.Type.Category() == CategoryAdjustment {
		if strings.TrimSpace(m.Reason) == "" {
			return ErrReasonRequired
		}
		if m.PerformedByID == nil {
			return ErrPerformerRequired
		}
	}
	return nil
}
