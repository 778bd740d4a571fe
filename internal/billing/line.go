package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrQuantityNotPositive is returned when a line carries a zero or negative quantity.
	ErrQuantityNotPositive = errors.New("quantity must be positive")
	// ErrNegativeUnitPrice is returned for a unit price below zero.
	ErrNegativeUnitPrice = errors.New("unit price cannot be negative")
	// ErrNegativeDiscount is returned for a discount amount below zero.
	ErrNegativeDiscount = errors.New("discount amount cannot be negative")
	// ErrNegativeTax is returned for a tax amount below zero.
	ErrNegativeTax = errors.New("tax amount cannot be negative")
	// ErrNegativeTaxRate is returned when repricing with a negative tax rate.
	ErrNegativeTaxRate = errors.New("tax rate cannot be negative")
)

var oneHundred = decimal.NewFromInt(100)

// Line is a priced line on a transaction: purchase, sale, or rental booking.
// Quantity and amounts use exact decimal arithmetic; no rounding is applied
// beyond what the inputs carry, and negative results are never clamped.
type Line struct {
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal

	// RentalPeriod is the number of billing periods. When positive it takes
	// priority over the date range below.
	RentalPeriod int
	// RentalStartDate/RentalEndDate derive the period multiplier only when
	// RentalPeriod is absent or zero.
	RentalStartDate *time.Time
	RentalEndDate   *time.Time
}

// Validate checks the line's inputs without computing anything.
func (l Line) Validate() error {
	if !l.Quantity.IsPositive() {
		return ErrQuantityNotPositive
	}
	if l.UnitPrice.IsNegative() {
		return ErrNegativeUnitPrice
	}
	if l.DiscountAmount.IsNegative() {
		return ErrNegativeDiscount
	}
	if l.TaxAmount.IsNegative() {
		return ErrNegativeTax
	}
	return nil
}

// PeriodMultiplier resolves the rental multiplier: the explicit period when
// positive, the day count between the rental dates when only those are set,
// and 1 otherwise.
func (l Line) PeriodMultiplier() decimal.Decimal {
	if l.RentalPeriod > 0 {
		return decimal.NewFromInt(int64(l.RentalPeriod))
	}
	if l.RentalStartDate != nil && l.RentalEndDate != nil {
		days := int64(l.RentalEndDate.Sub(*l.RentalStartDate).Hours() / 24)
		if days > 0 {
			return decimal.NewFromInt(days)
		}
	}
	return decimal.NewFromInt(1)
}

// ExtendedPrice is quantity x unit price x period multiplier.
func (l Line) ExtendedPrice() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice).Mul(l.PeriodMultiplier())
}

// NetAmount is the extended price less the discount.
func (l Line) NetAmount() decimal.Decimal {
	return l.ExtendedPrice().Sub(l.DiscountAmount)
}

// Total validates the line and returns its final total: net amount plus tax.
func (l Line) Total() (decimal.Decimal, error) {
	if err := l.Validate(); err != nil {
		return decimal.Decimal{}, err
	}
	return l.NetAmount().Add(l.TaxAmount), nil
}

// UpdatePricing replaces the unit price and discount and recomputes the tax
// from a percentage rate applied to the new net amount. This is the rate-based
// entry point; Total with a caller-supplied TaxAmount is the amount-based one.
func (l *Line) UpdatePricing(unitPrice, discountAmount, taxRate decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return ErrNegativeUnitPrice
	}
	if discountAmount.IsNegative() {
		return ErrNegativeDiscount
	}
	if taxRate.IsNegative() {
		return ErrNegativeTaxRate
	}
	l.UnitPrice = unitPrice
	l.DiscountAmount = discountAmount
	l.TaxAmount = l.NetAmount().Mul(taxRate).Div(oneHundred)
	return nil
}
