package rental

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/events"
	"github.com/tluanga-dev/rental-manager-sub009/internal/obs"
	"github.com/tluanga-dev/rental-manager-sub009/internal/stock"
)

// ErrRentalNotFound is returned when the rental id resolves to nothing.
var ErrRentalNotFound = errors.New("rental not found")

// ErrProcessorRequired rejects return requests without an acting user.
var ErrProcessorRequired = errors.New("processedBy is required")

// Store defines the persistence operations the return service needs.
type Store interface {
	GetRental(ctx context.Context, id uuid.UUID) (RentalRecord, error)
	InsertReturn(ctx context.Context, tx pgx.Tx, record ReturnRecord) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status RentalStatus) error
	ListReturns(ctx context.Context, rentalID uuid.UUID) ([]ReturnRecord, error)
}

// MovementRecorder ledgers the stock movements a return produces, inside the
// settlement transaction.
type MovementRecorder interface {
	RecordInTx(ctx context.Context, tx pgx.Tx, in stock.RecordInput) (stock.Movement, error)
}

// SnapshotCache caches rental snapshots keyed by id. Implementations are
// injected; the service never assumes a process-wide cache.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// TxRunner executes a function within a database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// Service processes rental returns: it computes the settlement and applies
// the return record, status change, and stock movements atomically.
type Service struct {
	Runner    TxRunner
	Store     Store
	Movements MovementRecorder
	Cache     SnapshotCache
	CacheTTL  time.Duration
	Charges   ChargeCalculator
	Events    *events.Bus
	Logger    zerolog.Logger
}

func cacheKey(id uuid.UUID) string {
	return "rental:" + id.String()
}

// GetRental loads a rental snapshot, preferring the injected cache.
func (s *Service) GetRental(ctx context.Context, id uuid.UUID) (RentalRecord, error) {
	if s == nil || s.Store == nil {
		return RentalRecord{}, errors.New("rental service not configured")
	}
	if s.Cache != nil {
		if raw, ok, err := s.Cache.Get(ctx, cacheKey(id)); err == nil && ok {
			var cached RentalRecord
			if unmarshalErr := json.Unmarshal(raw, &cached); unmarshalErr == nil {
				return cached, nil
			}
		}
	}
	rental, err := s.Store.GetRental(ctx, id)
	if err != nil {
		return RentalRecord{}, err
	}
	if s.Cache != nil && s.CacheTTL > 0 {
		if raw, err := json.Marshal(rental); err == nil {
			_ = s.Cache.Set(ctx, cacheKey(id), raw, s.CacheTTL)
		}
	}
	return rental, nil
}

// ListReturns exposes the settlement history of a rental.
func (s *Service) ListReturns(ctx context.Context, rentalID uuid.UUID) ([]ReturnRecord, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("rental service not configured")
	}
	return s.Store.ListReturns(ctx, rentalID)
}

// ProcessReturn settles a return against a rental. The return record, the
// rental's new status, and the resulting stock movements are committed in one
// transaction; the settlement itself is computed up front by pure functions,
// so a failed commit leaves no partial state and the request can be retried.
func (s *Service) ProcessReturn(ctx context.Context, rentalID uuid.UUID, req ReturnRequest) (ReturnRecord, error) {
	if s == nil || s.Store == nil || s.Runner == nil {
		return ReturnRecord{}, errors.New("rental service not configured")
	}
	if len(req.Items) == 0 {
		return ReturnRecord{}, ErrNoReturnItems
	}
	if strings.TrimSpace(req.ProcessedBy) == "" {
		return ReturnRecord{}, ErrProcessorRequired
	}

	rental, err := s.GetRental(ctx, rentalID)
	if err != nil {
		return ReturnRecord{}, err
	}

	newStatus, err := NextStatus(rental.Status, req.ReturnType)
	if err != nil {
		return ReturnRecord{}, err
	}
	charges, err := s.Charges.Assess(rental, req)
	if err != nil {
		return ReturnRecord{}, err
	}
	settlement, err := ResolveSettlement(rental.DepositAmount, rental.TotalAmount, charges.LateFees, charges.DamageCharges)
	if err != nil {
		return ReturnRecord{}, err
	}

	returnDate := req.ReturnDate
	if returnDate.IsZero() {
		returnDate = time.Now().UTC()
	}
	items := make([]ReturnItemDisposition, len(req.Items))
	copy(items, req.Items)
	for i := range items {
		items[i].DamageCharge = charges.PerItem[i]
	}
	record := ReturnRecord{
		ID:          uuid.New(),
		RentalID:    rental.ID,
		ReturnType:  req.ReturnType,
		ReturnDate:  returnDate,
		ProcessedBy: req.ProcessedBy,
		ReturnNotes: req.ReturnNotes,
		Items:       items,
		Settlement:  settlement,
		NewStatus:   newStatus,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.Runner.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := s.Store.InsertReturn(ctx, tx, record); err != nil {
			return fmt.Errorf("insert return: %w", err)
		}
		if err := s.Store.UpdateStatus(ctx, tx, rental.ID, newStatus); err != nil {
			return fmt.Errorf("update rental status: %w", err)
		}
		if s.Movements != nil {
			if err := s.recordMovements(ctx, tx, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ReturnRecord{}, err
	}

	if s.Cache != nil {
		_ = s.Cache.Invalidate(ctx, cacheKey(rental.ID))
	}
	s.observe(record)
	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicRentalReturnSettled, rental.ID, record)
		_, _ = s.Events.Emit(ctx, events.TopicRentalStatusChanged, rental.ID, map[string]any{
			"rentalId":  rental.ID.String(),
			"oldStatus": rental.Status,
			"newStatus": newStatus,
		})
	}
	s.Logger.Info().
		Str("rental_id", rental.ID.String()).
		Str("return_type", string(record.ReturnType)).
		Str("new_status", string(newStatus)).
		Str("refund_amount", settlement.RefundAmount.String()).
		Str("customer_owes", settlement.CustomerOwes.String()).
		Msg("return settled")
	return record, nil
}

func (s *Service) recordMovements(ctx context.Context, tx pgx.Tx, record ReturnRecord) error {
	var performedBy *uuid.UUID
	if parsed, err := uuid.Parse(record.ProcessedBy); err == nil {
		performedBy = &parsed
	}
	for _, item := range record.Items {
		if item.QuantityReturned <= 0 {
			continue
		}
		movementType := stock.TypeRentalReturn
		switch item.Condition {
		case ConditionDamaged:
			movementType = stock.TypeRentalReturnDamage
		case ConditionLost:
			// Lost units never re-enter inventory; the RENTAL_OUT movement
			// already removed them from on-hand stock.
			continue
		}
		_, err := s.Movements.RecordInTx(ctx, tx, stock.RecordInput{
			ItemID:          item.ItemID,
			Type:            movementType,
			Quantity:        decimal.NewFromInt(int64(item.QuantityReturned)),
			ReferenceNumber: record.ID.String(),
			Reason:          item.ConditionNotes,
			PerformedByID:   performedBy,
			MovementDate:    record.ReturnDate,
		})
		if err != nil {
			return fmt.Errorf("record return movement for item %s: %w", item.ItemID, err)
		}
	}
	return nil
}

func (s *Service) observe(record ReturnRecord) {
	if obs.ReturnsProcessedTotal != nil {
		obs.ReturnsProcessedTotal.WithLabelValues(string(record.ReturnType), "ok").Inc()
	}
	if obs.SettlementOutcomeTotal != nil {
		outcome := "even"
		switch {
		case record.Settlement.RefundAmount.IsPositive():
			outcome = "refund"
		case record.Settlement.CustomerOwes.IsPositive():
			outcome = "owed"
		}
		obs.SettlementOutcomeTotal.WithLabelValues(outcome).Inc()
	}
	if obs.LateFeesAssessedTotal != nil && record.Settlement.LateFees.IsPositive() {
		obs.LateFeesAssessedTotal.Inc()
	}
}
