package rental

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/money"
)

func TestResolveSettlementRefund(t *testing.T) {
	// Deposit 500 against 100 rental + 20 late + 0 damage.
	result, err := ResolveSettlement(
		decimal.NewFromInt(500),
		decimal.NewFromInt(100),
		decimal.NewFromInt(20),
		decimal.Zero,
	)
	if err != nil {
		t.Fatalf("ResolveSettlement: %v", err)
	}
	if got := result.RefundAmount.String(); got != "380" {
		t.Fatalf("refund = %s, want 380", got)
	}
	if !result.CustomerOwes.IsZero() {
		t.Fatalf("customer owes = %s, want 0", result.CustomerOwes)
	}
}

func TestResolveSettlementBalanceDue(t *testing.T) {
	// Deposit 100 against 100 rental + 0 late + 250 damage.
	result, err := ResolveSettlement(
		decimal.NewFromInt(100),
		decimal.NewFromInt(100),
		decimal.Zero,
		decimal.NewFromInt(250),
	)
	if err != nil {
		t.Fatalf("ResolveSettlement: %v", err)
	}
	if got := result.CustomerOwes.String(); got != "250" {
		t.Fatalf("customer owes = %s, want 250", got)
	}
	if !result.RefundAmount.IsZero() {
		t.Fatalf("refund = %s, want 0", result.RefundAmount)
	}
}

func TestResolveSettlementExactDeposit(t *testing.T) {
	// Charges equal the deposit: the refund path wins with a zero refund.
	result, err := ResolveSettlement(
		decimal.NewFromInt(150),
		decimal.NewFromInt(100),
		decimal.NewFromInt(50),
		decimal.Zero,
	)
	if err != nil {
		t.Fatalf("ResolveSettlement: %v", err)
	}
	if !result.RefundAmount.IsZero() || !result.CustomerOwes.IsZero() {
		t.Fatalf("refund = %s, owes = %s, want both 0", result.RefundAmount, result.CustomerOwes)
	}
}

func TestResolveSettlementZeroDeposit(t *testing.T) {
	result, err := ResolveSettlement(
		decimal.Zero,
		decimal.NewFromInt(100),
		decimal.Zero,
		decimal.Zero,
	)
	if err != nil {
		t.Fatalf("ResolveSettlement: %v", err)
	}
	if got := result.CustomerOwes.String(); got != "100" {
		t.Fatalf("customer owes = %s, want 100", got)
	}
}

func TestResolveSettlementRejectsNegatives(t *testing.T) {
	cases := [][4]decimal.Decimal{
		{decimal.NewFromInt(-1), decimal.Zero, decimal.Zero, decimal.Zero},
		{decimal.Zero, decimal.NewFromInt(-1), decimal.Zero, decimal.Zero},
		{decimal.Zero, decimal.Zero, decimal.NewFromInt(-1), decimal.Zero},
		{decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(-1)},
	}
	for i, c := range cases {
		if _, err := ResolveSettlement(c[0], c[1], c[2], c[3]); !errors.Is(err, money.ErrNegativeAmount) {
			t.Errorf("case %d: expected ErrNegativeAmount, got %v", i, err)
		}
	}
}

func TestResolveSettlementInvariants(t *testing.T) {
	cases := []struct {
		deposit, rental, late, damage string
	}{
		{"500", "100", "20", "0"},
		{"100", "100", "0", "250"},
		{"150", "100", "50", "0"},
		{"0", "0", "0", "0"},
		{"99.99", "33.33", "33.33", "33.33"},
		{"10.50", "3.75", "0", "8.25"},
	}
	for _, c := range cases {
		result, err := ResolveSettlement(
			money.MustParse(c.deposit),
			money.MustParse(c.rental),
			money.MustParse(c.late),
			money.MustParse(c.damage),
		)
		if err != nil {
			t.Fatalf("ResolveSettlement(%+v): %v", c, err)
		}
		if result.RefundAmount.IsPositive() && result.CustomerOwes.IsPositive() {
			t.Errorf("%+v: refund and balance due are mutually exclusive", c)
		}
		// deposit + owed - refund must equal the total charges.
		lhs := result.DepositAmount.Add(result.CustomerOwes).Sub(result.RefundAmount)
		if !lhs.Equal(result.TotalCharges()) {
			t.Errorf("%+v: balance identity broken: %s != %s", c, lhs, result.TotalCharges())
		}
	}
}

func TestResolveSettlementDeterministic(t *testing.T) {
	first, err := ResolveSettlement(
		money.MustParse("123.45"),
		money.MustParse("67.89"),
		money.MustParse("10.00"),
		money.MustParse("5.55"),
	)
	if err != nil {
		t.Fatalf("ResolveSettlement: %v", err)
	}
	second, _ := ResolveSettlement(
		money.MustParse("123.45"),
		money.MustParse("67.89"),
		money.MustParse("10.00"),
		money.MustParse("5.55"),
	)
	if !first.RefundAmount.Equal(second.RefundAmount) || !first.CustomerOwes.Equal(second.CustomerOwes) {
		t.Fatal("identical inputs must produce identical settlements")
	}
}
