package stock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type stubStore struct {
	onHand    map[uuid.UUID]decimal.Decimal
	inserted  []Movement
	setLevels map[uuid.UUID]decimal.Decimal
}

func newStubStore() *stubStore {
	return &stubStore{
		onHand:    map[uuid.UUID]decimal.Decimal{},
		setLevels: map[uuid.UUID]decimal.Decimal{},
	}
}

func (s *stubStore) OnHand(_ context.Context, _ pgx.Tx, itemID uuid.UUID) (decimal.Decimal, error) {
	return s.onHand[itemID], nil
}

func (s *stubStore) InsertMovement(_ context.Context, _ pgx.Tx, m Movement) error {
	s.inserted = append(s.inserted, m)
	return nil
}

func (s *stubStore) SetOnHand(_ context.Context, _ pgx.Tx, itemID uuid.UUID, qty decimal.Decimal) error {
	s.setLevels[itemID] = qty
	return nil
}

func (s *stubStore) ListMovements(_ context.Context, itemID uuid.UUID, _, _ int) ([]Movement, int, error) {
	var out []Movement
	for _, m := range s.inserted {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

type fakeRunner struct{}

func (fakeRunner) RunInTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

func TestRecordAppliesDirectionFromType(t *testing.T) {
	store := newStubStore()
	itemID := uuid.New()
	store.onHand[itemID] = decimal.NewFromInt(10)
	svc := &Service{Runner: fakeRunner{}, Store: store}

	m, err := svc.Record(context.Background(), RecordInput{
		ItemID:   itemID,
		Type:     TypeSale,
		Quantity: decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got := m.QuantityChange.String(); got != "-3" {
		t.Fatalf("change = %s, want -3", got)
	}
	if got := m.QuantityAfter.String(); got != "7" {
		t.Fatalf("after = %s, want 7", got)
	}
	if got := store.setLevels[itemID].String(); got != "7" {
		t.Fatalf("on-hand updated to %s, want 7", got)
	}
}

func TestRecordSystemCorrectionKeepsSign(t *testing.T) {
	store := newStubStore()
	itemID := uuid.New()
	store.onHand[itemID] = decimal.NewFromInt(10)
	actor := uuid.New()
	svc := &Service{Runner: fakeRunner{}, Store: store}

	m, err := svc.Record(context.Background(), RecordInput{
		ItemID:        itemID,
		Type:          TypeSystemCorrection,
		Quantity:      decimal.NewFromInt(-4),
		Reason:        "sync with physical count",
		PerformedByID: &actor,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got := m.QuantityChange.String(); got != "-4" {
		t.Fatalf("change = %s, want -4", got)
	}
	if got := m.QuantityAfter.String(); got != "6" {
		t.Fatalf("after = %s, want 6", got)
	}
}

func TestRecordRejectsNegativeQuantityForDirectionalTypes(t *testing.T) {
	svc := &Service{Runner: fakeRunner{}, Store: newStubStore()}
	_, err := svc.Record(context.Background(), RecordInput{
		ItemID:   uuid.New(),
		Type:     TypePurchase,
		Quantity: decimal.NewFromInt(-1),
	})
	if err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestRecordRejectsStockGoingNegative(t *testing.T) {
	store := newStubStore()
	itemID := uuid.New()
	store.onHand[itemID] = decimal.NewFromInt(2)
	svc := &Service{Runner: fakeRunner{}, Store: store}

	_, err := svc.Record(context.Background(), RecordInput{
		ItemID:   itemID,
		Type:     TypeSale,
		Quantity: decimal.NewFromInt(5),
	})
	if err == nil {
		t.Fatal("expected error when on-hand would go negative")
	}
	if len(store.inserted) != 0 {
		t.Fatal("no movement must be persisted on validation failure")
	}
}

func TestRecordComputesTotalCost(t *testing.T) {
	store := newStubStore()
	itemID := uuid.New()
	unitCost := decimal.RequireFromString("12.50")
	svc := &Service{Runner: fakeRunner{}, Store: store}

	m, err := svc.Record(context.Background(), RecordInput{
		ItemID:       itemID,
		Type:         TypePurchase,
		Quantity:     decimal.NewFromInt(4),
		UnitCost:     &unitCost,
		MovementDate: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if m.TotalCost == nil || m.TotalCost.String() != "50" {
		t.Fatalf("total cost = %v, want 50", m.TotalCost)
	}
}
