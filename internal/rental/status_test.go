package rental

import (
	"errors"
	"testing"
)

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name       string
		current    RentalStatus
		returnType ReturnType
		want       RentalStatus
	}{
		{"complete from in progress", StatusInProgress, ReturnComplete, StatusCompleted},
		{"complete from late", StatusLate, ReturnComplete, StatusCompleted},
		{"complete from partial", StatusPartialReturn, ReturnComplete, StatusCompleted},
		{"complete from late partial", StatusLatePartialReturn, ReturnComplete, StatusCompleted},
		{"partial from in progress", StatusInProgress, ReturnPartial, StatusPartialReturn},
		{"partial from partial", StatusPartialReturn, ReturnPartial, StatusPartialReturn},
		{"partial from late keeps late marker", StatusLate, ReturnPartial, StatusLatePartialReturn},
		{"partial from late partial stays late partial", StatusLatePartialReturn, ReturnPartial, StatusLatePartialReturn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextStatus(tc.current, tc.returnType)
			if err != nil {
				t.Fatalf("NextStatus: %v", err)
			}
			if got != tc.want {
				t.Fatalf("NextStatus = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNextStatusCompletedIsTerminal(t *testing.T) {
	for _, returnType := range []ReturnType{ReturnComplete, ReturnPartial} {
		if _, err := NextStatus(StatusCompleted, returnType); !errors.Is(err, ErrRentalCompleted) {
			t.Fatalf("%s against completed rental: expected ErrRentalCompleted, got %v", returnType, err)
		}
	}
}

func TestNextStatusUnknownReturnType(t *testing.T) {
	if _, err := NextStatus(StatusInProgress, ReturnType("HALFWAY")); !errors.Is(err, ErrUnknownReturnType) {
		t.Fatalf("expected ErrUnknownReturnType, got %v", err)
	}
}
