package money_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/money"
)

func TestQuantize(t *testing.T) {
	got := money.Quantize(money.MustParse("10.005"))
	if got.String() != "10.01" {
		t.Fatalf("expected 10.01, got %s", got)
	}
	got = money.Quantize(money.MustParse("10"))
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10, got %s", got)
	}
}

func TestRequireNonNegative(t *testing.T) {
	if err := money.RequireNonNegative("deposit", decimal.NewFromInt(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := money.RequireNonNegative("deposit", decimal.NewFromInt(-1))
	if !errors.Is(err, money.ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestWithinTolerance(t *testing.T) {
	a := money.MustParse("15.00")
	if !money.WithinTolerance(a, money.MustParse("15.01")) {
		t.Fatal("0.01 drift should be tolerated")
	}
	if money.WithinTolerance(a, money.MustParse("15.02")) {
		t.Fatal("0.02 drift should not be tolerated")
	}
}
