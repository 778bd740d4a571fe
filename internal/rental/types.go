package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalStatus is the lifecycle state of a rental.
type RentalStatus string

const (
	StatusInProgress        RentalStatus = "IN_PROGRESS"
	StatusLate              RentalStatus = "LATE"
	StatusPartialReturn     RentalStatus = "PARTIAL_RETURN"
	StatusLatePartialReturn RentalStatus = "LATE_PARTIAL_RETURN"
	StatusCompleted         RentalStatus = "COMPLETED"
)

// ReturnType declares how a return closes out the rental.
type ReturnType string

const (
	ReturnComplete ReturnType = "COMPLETE"
	ReturnPartial  ReturnType = "PARTIAL"
)

// ItemCondition is the declared state of a returned unit.
type ItemCondition string

const (
	ConditionGood    ItemCondition = "GOOD"
	ConditionDamaged ItemCondition = "DAMAGED"
	ConditionLost    ItemCondition = "LOST"
)

// DamageSeverity drives the damage-charge tier for damaged items.
type DamageSeverity string

const (
	SeverityMinor DamageSeverity = "MINOR"
	SeverityMajor DamageSeverity = "MAJOR"
)

// RentalLineItem is one rented unit line within a rental.
type RentalLineItem struct {
	ItemID          uuid.UUID        `json:"itemId"`
	ItemName        string           `json:"itemName"`
	Quantity        int              `json:"quantity"`
	DailyRate       decimal.Decimal  `json:"dailyRate"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	ReplacementCost *decimal.Decimal `json:"replacementCost,omitempty"`
}

// RentalRecord is an active or completed rental. Status, daysLate and
// lateFeePerDay are maintained upstream; the settlement calculators trust them
// rather than re-deriving anything from dates.
type RentalRecord struct {
	ID            uuid.UUID        `json:"id"`
	CustomerID    uuid.UUID        `json:"customerId"`
	StartDate     time.Time        `json:"startDate"`
	EndDate       time.Time        `json:"endDate"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	DepositAmount decimal.Decimal  `json:"depositAmount"`
	Status        RentalStatus     `json:"status"`
	DaysLate      int              `json:"daysLate"`
	LateFeePerDay decimal.Decimal  `json:"lateFeePerDay"`
	Items         []RentalLineItem `json:"items"`
}

// Line looks up the rental line for an item id.
func (r RentalRecord) Line(itemID uuid.UUID) (RentalLineItem, bool) {
	for _, item := range r.Items {
		if item.ItemID == itemID {
			return item, true
		}
	}
	return RentalLineItem{}, false
}

// ReturnItemDisposition is the per-item outcome declared in a return.
type ReturnItemDisposition struct {
	ItemID           uuid.UUID       `json:"itemId"`
	QuantityReturned int             `json:"quantityReturned"`
	Condition        ItemCondition   `json:"condition"`
	DamageSeverity   DamageSeverity  `json:"damageSeverity,omitempty"`
	ConditionNotes   string          `json:"conditionNotes,omitempty"`
	DamageCharge     decimal.Decimal `json:"damageCharge"`
}

// ReturnRequest describes how items are being returned.
type ReturnRequest struct {
	ReturnType  ReturnType              `json:"returnType"`
	ReturnDate  time.Time               `json:"returnDate"`
	Items       []ReturnItemDisposition `json:"items"`
	ReturnNotes string                  `json:"returnNotes,omitempty"`
	ProcessedBy string                  `json:"processedBy"`
}

// SettlementResult is the computed financial outcome of one return. It is
// immutable once produced; each return transaction yields a fresh result.
type SettlementResult struct {
	DepositAmount decimal.Decimal `json:"depositAmount"`
	RentalCharges decimal.Decimal `json:"rentalCharges"`
	LateFees      decimal.Decimal `json:"lateFees"`
	DamageCharges decimal.Decimal `json:"damageCharges"`
	RefundAmount  decimal.Decimal `json:"refundAmount"`
	CustomerOwes  decimal.Decimal `json:"customerOwes"`
}

// TotalCharges is the sum of the three charge components.
func (s SettlementResult) TotalCharges() decimal.Decimal {
	return s.RentalCharges.Add(s.LateFees).Add(s.DamageCharges)
}

// ReturnRecord is the persisted outcome of one processed return.
type ReturnRecord struct {
	ID          uuid.UUID               `json:"id"`
	RentalID    uuid.UUID               `json:"rentalId"`
	ReturnType  ReturnType              `json:"returnType"`
	ReturnDate  time.Time               `json:"returnDate"`
	ProcessedBy string                  `json:"processedBy"`
	ReturnNotes string                  `json:"returnNotes,omitempty"`
	Items       []ReturnItemDisposition `json:"items"`
	Settlement  SettlementResult        `json:"settlement"`
	NewStatus   RentalStatus            `json:"newStatus"`
	CreatedAt   time.Time               `json:"createdAt"`
}
