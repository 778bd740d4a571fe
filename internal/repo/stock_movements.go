package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/stock"
)

// StockStore persists stock movements and on-hand levels.
type StockStore struct {
	Pool *pgxpool.Pool
}

// OnHand reads the current on-hand quantity for an item, locking the row for
// the duration of the transaction. Items without a stock level start at zero.
func (s *StockStore) OnHand(ctx context.Context, tx pgx.Tx, itemID uuid.UUID) (decimal.Decimal, error) {
	var raw string
	err := tx.QueryRow(ctx,
		`SELECT quantity_on_hand::text FROM stock_levels WHERE item_id = $1 FOR UPDATE`,
		itemID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, fmt.Errorf("select stock level: %w", err)
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse on-hand quantity: %w", err)
	}
	return qty, nil
}

// InsertMovement appends one ledger row. Movements are append-only; there is
// no update or delete path.
func (s *StockStore) InsertMovement(ctx context.Context, tx pgx.Tx, m stock.Movement) error {
	var unitCost, totalCost *string
	if m.UnitCost != nil {
		v := m.UnitCost.String()
		unitCost = &v
	}
	if m.TotalCost != nil {
		v := m.TotalCost.String()
		totalCost = &v
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO stock_movements (
			id, item_id, movement_type, quantity_before, quantity_change, quantity_after,
			unit_cost, total_cost, reference_number, reason, performed_by_id, movement_date
		) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9, $10, $11, $12)`,
		m.ID, m.ItemID, string(m.Type),
		m.QuantityBefore.String(), m.QuantityChange.String(), m.QuantityAfter.String(),
		unitCost, totalCost,
		nullableText(m.ReferenceNumber), nullableText(m.Reason),
		m.PerformedByID, m.MovementDate,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// SetOnHand upserts the item's stock level.
func (s *StockStore) SetOnHand(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, qty decimal.Decimal) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO stock_levels (item_id, quantity_on_hand, updated_at)
		VALUES ($1, $2::numeric, now())
		ON CONFLICT (item_id) DO UPDATE
		SET quantity_on_hand = EXCLUDED.quantity_on_hand, updated_at = now()`,
		itemID, qty.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// ListMovements returns an item's ledger, newest first, with the total count.
func (s *StockStore) ListMovements(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]stock.Movement, int, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, item_id, movement_type,
			quantity_before::text, quantity_change::text, quantity_after::text,
			unit_cost::text, total_cost::text,
			COALESCE(reference_number, ''), COALESCE(reason, ''),
			performed_by_id, movement_date
		FROM stock_movements
		WHERE item_id = $1
		ORDER BY movement_date DESC, id DESC
		LIMIT $2 OFFSET $3`,
		itemID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []stock.Movement
	for rows.Next() {
		var (
			m                   stock.Movement
			movementType        string
			before, change      string
			after               string
			unitCost, totalCost *string
		)
		err := rows.Scan(
			&m.ID, &m.ItemID, &movementType,
			&before, &change, &after,
			&unitCost, &totalCost,
			&m.ReferenceNumber, &m.Reason,
			&m.PerformedByID, &m.MovementDate,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = stock.Type(movementType)
		if m.QuantityBefore, err = decimal.NewFromString(before); err != nil {
			return nil, 0, fmt.Errorf("parse quantity_before: %w", err)
		}
		if m.QuantityChange, err = decimal.NewFromString(change); err != nil {
			return nil, 0, fmt.Errorf("parse quantity_change: %w", err)
		}
		if m.QuantityAfter, err = decimal.NewFromString(after); err != nil {
			return nil, 0, fmt.Errorf("parse quantity_after: %w", err)
		}
		if m.UnitCost, err = parseOptionalDecimal(unitCost); err != nil {
			return nil, 0, fmt.Errorf("parse unit_cost: %w", err)
		}
		if m.TotalCost, err = parseOptionalDecimal(totalCost); err != nil {
			return nil, 0, fmt.Errorf("parse total_cost: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stock movements: %w", err)
	}

	var total int
	err = s.Pool.QueryRow(ctx,
		`SELECT count(*) FROM stock_movements WHERE item_id = $1`, itemID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}
	return movements, total, nil
}

func parseOptionalDecimal(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
