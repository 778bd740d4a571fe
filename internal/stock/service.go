package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/events"
	"github.com/tluanga-dev/rental-manager-sub009/internal/money"
	"github.com/tluanga-dev/rental-manager-sub009/internal/obs"
)

// Store defines the persistence operations the movement service needs.
type Store interface {
	OnHand(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (decimal.Decimal, error)
	InsertMovement(ctx context.Context, tx pgx.Tx, m Movement) error
	SetOnHand(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, qty decimal.Decimal) error
	ListMovements(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]Movement, int, error)
}

// TxRunner executes a function within a database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// RecordInput describes one inventory-affecting event to ledger.
type RecordInput struct {
	ItemID uuid.UUID
	Type   Type
	// Quantity is the number of units moved. For every type except
	// SYSTEM_CORRECTION it must be non-negative; the sign of the recorded
	// change comes from the movement type. SYSTEM_CORRECTION records the
	// quantity as given, sign included.
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
	ReferenceNumber string
	Reason          string
	PerformedByID   *uuid.UUID
	MovementDate    time.Time
}

// Service records validated stock movements and keeps on-hand levels in step.
type Service struct {
	Runner TxRunner
	Store  Store
	Events *events.Bus
}

// Record ledgers a movement in its own transaction and emits a domain event
// once it is committed.
func (s *Service) Record(ctx context.Context, in RecordInput) (Movement, error) {
	if s == nil || s.Store == nil || s.Runner == nil {
		return Movement{}, errors.New("stock service not configured")
	}
	var recorded Movement
	err := s.Runner.RunInTx(ctx, func(tx pgx.Tx) error {
		m, err := s.RecordInTx(ctx, tx, in)
		if err != nil {
			return err
		}
		recorded = m
		return nil
	})
	if err != nil {
		return Movement{}, err
	}
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicStockMovementRecorded, recorded.ID, recorded)
	}
	return recorded, nil
}

// RecordInTx ledgers a movement inside the caller's transaction. The caller
// owns atomicity with whatever else the transaction covers (e.g. a return
// settlement) and emits events after commit.
func (s *Service) RecordInTx(ctx context.Context, tx pgx.Tx, in RecordInput) (Movement, error) {
	if in.ItemID == uuid.Nil {
		return Movement{}, errors.New("item id is required")
	}
	if in.Type.Category() == "" {
		return Movement{}, fmt.Errorf("unknown movement type %q", in.Type)
	}
	if in.Type != TypeSystemCorrection && in.Quantity.IsNegative() {
		return Movement{}, fmt.Errorf("quantity must not be negative for %s", in.Type)
	}

	before, err := s.Store.OnHand(ctx, tx, in.ItemID)
	if err != nil {
		return Movement{}, fmt.Errorf("load on-hand quantity: %w", err)
	}

	change := in.Quantity
	if in.Type.IsNegative() {
		change = change.Neg()
	}
	after := before.Add(change)

	when := in.MovementDate
	if when.IsZero() {
		when = time.Now().UTC()
	}
	m := Movement{
		ID:              uuid.New(),
		ItemID:          in.ItemID,
		Type:            in.Type,
		QuantityBefore:  before,
		QuantityChange:  change,
		QuantityAfter:   after,
		UnitCost:        in.UnitCost,
		ReferenceNumber: in.ReferenceNumber,
		Reason:          in.Reason,
		PerformedByID:   in.PerformedByID,
		MovementDate:    when,
	}.Quantized()
	if in.UnitCost != nil {
		total := money.Quantize(in.UnitCost.Mul(change.Abs()))
		m.TotalCost = &total
	}
	if err := m.Validate(); err != nil {
		return Movement{}, err
	}
	if err := s.Store.InsertMovement(ctx, tx, m); err != nil {
		return Movement{}, fmt.Errorf("insert movement: %w", err)
	}
	if err := s.Store.SetOnHand(ctx, tx, in.ItemID, m.QuantityAfter); err != nil {
		return Movement{}, fmt.Errorf("update on-hand quantity: %w", err)
	}
	if obs.StockMovementsTotal != nil {
		obs.StockMovementsTotal.WithLabelValues(string(m.Type.Category())).Inc()
	}
	return m, nil
}

// List returns the movement ledger for one item, newest first.
func (s *Service) List(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]Movement, int, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("stock service not configured")
	}
	return s.Store.ListMovements(ctx, itemID, limit, offset)
}
