package stock

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCategoryMapping(t *testing.T) {
	cases := map[Type]Category{
		TypePurchase:           CategoryPurchase,
		TypePurchaseReturn:     CategoryPurchase,
		TypeSale:               CategorySale,
		TypeSaleReturn:         CategorySale,
		TypeRentalOut:          CategoryRental,
		TypeRentalReturn:       CategoryRental,
		TypeRentalReturnDamage: CategoryRental,
		TypeTransferIn:         CategoryTransfer,
		TypeTransferOut:        CategoryTransfer,
		TypeSentForRepair:      CategoryDamageRepair,
		TypeReturnedFromRepair: CategoryDamageRepair,
		TypeRepairWriteOff:     CategoryDamageRepair,
		TypeAdjustmentPositive: CategoryAdjustment,
		TypeAdjustmentNegative: CategoryAdjustment,
		TypeSystemCorrection:   CategoryAdjustment,
		TypeDamageLoss:         CategoryLoss,
		TypeTheftLoss:          CategoryLoss,
		TypeExpiryLoss:         CategoryLoss,
		TypeWriteOff:           CategoryLoss,
		TypeReservationCreated: CategoryReservation,
		TypeReservationRelease: CategoryReservation,
		TypeInitialStock:       CategoryOther,
	}
	for movementType, want := range cases {
		if got := movementType.Category(); got != want {
			t.Errorf("%s: category = %s, want %s", movementType, got, want)
		}
	}
}

func TestEveryTypeIsClassified(t *testing.T) {
	for _, movementType := range AllTypes {
		if movementType.Category() == "" {
			t.Errorf("%s has no category", movementType)
		}
		if movementType == TypeSystemCorrection {
			if movementType.IsPositive() || movementType.IsNegative() {
				t.Errorf("SYSTEM_CORRECTION must not carry a fixed direction")
			}
			continue
		}
		if movementType.IsPositive() == movementType.IsNegative() {
			t.Errorf("%s has no direction", movementType)
		}
	}
}

func TestCounterIntuitiveDirections(t *testing.T) {
	if !TypePurchaseReturn.IsNegative() {
		t.Error("PURCHASE_RETURN must reduce on-hand stock")
	}
	if !TypeSentForRepair.IsNegative() {
		t.Error("SENT_FOR_REPAIR must reduce on-hand stock")
	}
	if !TypeSaleReturn.IsPositive() {
		t.Error("SALE_RETURN must add to on-hand stock")
	}
	if !TypeRentalReturnDamage.IsPositive() {
		t.Error("RENTAL_RETURN_DAMAGED must add to on-hand stock")
	}
}

func TestParseType(t *testing.T) {
	parsed, err := ParseType(" rental_return ")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if parsed != TypeRentalReturn {
		t.Fatalf("ParseType = %s, want %s", parsed, TypeRentalReturn)
	}
	if _, err := ParseType("TELEPORTED"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func baseMovement() Movement {
	return Movement{
		ID:             uuid.New(),
		ItemID:         uuid.New(),
		Type:           TypePurchase,
		QuantityBefore: decimal.NewFromInt(10),
		QuantityChange: decimal.NewFromInt(5),
		QuantityAfter:  decimal.NewFromInt(15),
	}
}

func TestValidateQuantityMath(t *testing.T) {
	m := baseMovement()
	if err := m.Validate(); err != nil {
		t.Fatalf("valid movement rejected: %v", err)
	}

	m.QuantityAfter = decimal.NewFromInt(16)
	if err := m.Validate(); !errors.Is(err, ErrQuantityMath) {
		t.Fatalf("expected ErrQuantityMath, got %v", err)
	}
}

func TestValidateTolerance(t *testing.T) {
	m := baseMovement()
	m.QuantityAfter = decimal.RequireFromString("15.01")
	if err := m.Validate(); err != nil {
		t.Fatalf("drift of 0.01 must pass: %v", err)
	}
	m.QuantityAfter = decimal.RequireFromString("15.02")
	if err := m.Validate(); !errors.Is(err, ErrQuantityMath) {
		t.Fatalf("drift of 0.02 must fail, got %v", err)
	}
}

func TestValidateNegativeQuantities(t *testing.T) {
	m := baseMovement()
	m.QuantityBefore = decimal.NewFromInt(-1)
	m.QuantityAfter = decimal.NewFromInt(4)
	if err := m.Validate(); err == nil {
		t.Fatal("negative quantity_before must be rejected")
	}
}

func TestValidateAdjustmentRequirements(t *testing.T) {
	actor := uuid.New()
	m := baseMovement()
	m.Type = TypeAdjustmentPositive

	if err := m.Validate(); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
	m.Reason = "cycle count"
	if err := m.Validate(); !errors.Is(err, ErrPerformerRequired) {
		t.Fatalf("expected ErrPerformerRequired, got %v", err)
	}
	m.PerformedByID = &actor
	if err := m.Validate(); err != nil {
		t.Fatalf("complete adjustment rejected: %v", err)
	}
}
