package rental

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/money"
)

var (
	// ErrNoReturnItems is returned when a return request declares nothing.
	ErrNoReturnItems = errors.New("return request must contain at least one item")
	// ErrSeverityRequired is returned when a damaged item carries no severity.
	ErrSeverityRequired = errors.New("damage severity is required for damaged items")
	// ErrUnknownCondition is returned for a condition outside GOOD/DAMAGED/LOST.
	ErrUnknownCondition = errors.New("unknown item condition")
	// ErrQuantityExceedsLine is returned when a partial return declares more
	// units than the rental line holds.
	ErrQuantityExceedsLine = errors.New("quantity returned exceeds rented quantity")
	// ErrUnknownItem is returned when a disposition references an item the
	// rental never included.
	ErrUnknownItem = errors.New("returned item is not part of the rental")
)

// DamagePolicy prices the charge for a single returned item. Implementations
// must be pure: same inputs, same charge.
type DamagePolicy interface {
	Charge(line RentalLineItem, disposition ReturnItemDisposition) (decimal.Decimal, error)
}

// FlatTierPolicy charges fixed amounts keyed by severity, with a flat amount
// for lost items. These tiers are the established business rule; pricing
// against replacement cost is available via ReplacementCostPolicy.
type FlatTierPolicy struct {
	Minor decimal.Decimal
	Major decimal.Decimal
	Lost  decimal.Decimal
}

// DefaultFlatTierPolicy returns the standard tiers: 50.00 minor, 250.00 major,
// 500.00 lost.
func DefaultFlatTierPolicy() FlatTierPolicy {
	return FlatTierPolicy{
		Minor: decimal.NewFromInt(50),
		Major: decimal.NewFromInt(250),
		Lost:  decimal.NewFromInt(500),
	}
}

// Charge implements DamagePolicy.
func (p FlatTierPolicy) Charge(_ RentalLineItem, d ReturnItemDisposition) (decimal.Decimal, error) {
	switch d.Condition {
	case ConditionGood:
		return decimal.Zero, nil
	case ConditionLost:
		return p.Lost, nil
	case ConditionDamaged:
		switch d.DamageSeverity {
		case SeverityMinor:
			return p.Minor, nil
		case SeverityMajor:
			return p.Major, nil
		default:
			return decimal.Decimal{}, ErrSeverityRequired
		}
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownCondition, d.Condition)
}

// ReplacementCostPolicy prices damage as a fraction of the line's replacement
// cost, falling back to flat tiers when no replacement cost is on file.
type ReplacementCostPolicy struct {
	MinorRate decimal.Decimal // fraction of replacement cost, e.g. 0.1
	MajorRate decimal.Decimal // e.g. 0.5
	Fallback  FlatTierPolicy
}

// Charge implements DamagePolicy.
func (p ReplacementCostPolicy) Charge(line RentalLineItem, d ReturnItemDisposition) (decimal.Decimal, error) {
	if line.ReplacementCost == nil || line.ReplacementCost.IsZero() {
		return p.Fallback.Charge(line, d)
	}
	switch d.Condition {
	case ConditionGood:
		return decimal.Zero, nil
	case ConditionLost:
		return *line.ReplacementCost, nil
	case ConditionDamaged:
		switch d.DamageSeverity {
		case SeverityMinor:
			return money.Quantize(line.ReplacementCost.Mul(p.MinorRate)), nil
		case SeverityMajor:
			return money.Quantize(line.ReplacementCost.Mul(p.MajorRate)), nil
		default:
			return decimal.Decimal{}, ErrSeverityRequired
		}
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownCondition, d.Condition)
}

// Charges are the fee components a return adds on top of the rental charge.
type Charges struct {
	LateFees      decimal.Decimal
	DamageCharges decimal.Decimal
	// PerItem holds the computed damage charge per disposition, in request order.
	PerItem []decimal.Decimal
}

// ChargeCalculator derives late fees and damage charges from a rental and a
// return request. It is a pure function of already-known state: late fees come
// from the rental's precomputed status and daysLate, never from comparing the
// return date against the due date.
type ChargeCalculator struct {
	Damage DamagePolicy
}

// Assess computes the charges for a return.
func (c ChargeCalculator) Assess(rental RentalRecord, req ReturnRequest) (Charges, error) {
	if len(req.Items) == 0 {
		return Charges{}, ErrNoReturnItems
	}
	policy := c.Damage
	if policy == nil {
		policy = DefaultFlatTierPolicy()
	}

	lateFees := decimal.Zero
	if rental.Status == StatusLate || rental.Status == StatusLatePartialReturn {
		// Per item line, not quantity-weighted.
		itemCount := decimal.NewFromInt(int64(len(rental.Items)))
		lateFees = rental.LateFeePerDay.Mul(decimal.NewFromInt(int64(rental.DaysLate))).Mul(itemCount)
	}

	damage := decimal.Zero
	perItem := make([]decimal.Decimal, 0, len(req.Items))
	for _, d := range req.Items {
		line, ok := rental.Line(d.ItemID)
		if !ok {
			return Charges{}, fmt.Errorf("%w: %s", ErrUnknownItem, d.ItemID)
		}
		if req.ReturnType == ReturnPartial && d.QuantityReturned > line.Quantity {
			return Charges{}, fmt.Errorf("%w: item %s", ErrQuantityExceedsLine, d.ItemID)
		}
		charge := d.DamageCharge
		if !charge.IsPositive() {
			computed, err := policy.Charge(line, d)
			if err != nil {
				return Charges{}, err
			}
			charge = computed
		}
		perItem = append(perItem, charge)
		damage = damage.Add(charge)
	}
	return Charges{
		LateFees:      money.Quantize(lateFees),
		DamageCharges: money.Quantize(damage),
		PerItem:       perItem,
	}, nil
}
