package rental

import (
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/money"
)

// ResolveSettlement combines the charges against the deposit and decides
// refund versus balance due. Pure and idempotent: identical inputs always
// yield identical output, so callers may retry freely before persisting.
//
// Invariants of the result:
//   - exactly one of RefundAmount / CustomerOwes can be non-zero
//   - DepositAmount + CustomerOwes - RefundAmount == TotalCharges()
func ResolveSettlement(deposit, rentalCharges, lateFees, damageCharges decimal.Decimal) (SettlementResult, error) {
	if err := money.RequireNonNegative("deposit", deposit); err != nil {
		return SettlementResult{}, err
	}
	if err := money.RequireNonNegative("rental_charges", rentalCharges); err != nil {
		return SettlementResult{}, err
	}
	if err := money.RequireNonNegative("late_fees", lateFees); err != nil {
		return SettlementResult{}, err
	}
	if err := money.RequireNonNegative("damage_charges", damageCharges); err != nil {
		return SettlementResult{}, err
	}

	result := SettlementResult{
		DepositAmount: money.Quantize(deposit),
		RentalCharges: money.Quantize(rentalCharges),
		LateFees:      money.Quantize(lateFees),
		DamageCharges: money.Quantize(damageCharges),
		RefundAmount:  decimal.Zero,
		CustomerOwes:  decimal.Zero,
	}
	total := result.TotalCharges()
	// The tie at equality takes the refund path: a zero refund is a valid
	// "no money changes hands" outcome.
	if total.LessThanOrEqual(result.DepositAmount) {
		result.RefundAmount = result.DepositAmount.Sub(total)
	} else {
		result.CustomerOwes = total.Sub(result.DepositAmount)
	}
	return result, nil
}
