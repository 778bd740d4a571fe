package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tluanga-dev/rental-manager-sub009/internal/rental"
)

// RentalStore persists rentals, their line items, and processed returns.
type RentalStore struct {
	Pool *pgxpool.Pool
}

// GetRental loads a rental with its line items.
func (s *RentalStore) GetRental(ctx context.Context, id uuid.UUID) (rental.RentalRecord, error) {
	var (
		r                      rental.RentalRecord
		total, deposit, perDay string
		status                 string
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT id, customer_id, start_date, end_date,
			total_amount::text, deposit_amount::text, status,
			days_late, late_fee_per_day::text
		FROM rentals WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.CustomerID, &r.StartDate, &r.EndDate, &total, &deposit, &status, &r.DaysLate, &perDay)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rental.RentalRecord{}, rental.ErrRentalNotFound
		}
		return rental.RentalRecord{}, fmt.Errorf("select rental: %w", err)
	}
	r.Status = rental.RentalStatus(status)
	if r.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return rental.RentalRecord{}, fmt.Errorf("parse total_amount: %w", err)
	}
	if r.DepositAmount, err = decimal.NewFromString(deposit); err != nil {
		return rental.RentalRecord{}, fmt.Errorf("parse deposit_amount: %w", err)
	}
	if r.LateFeePerDay, err = decimal.NewFromString(perDay); err != nil {
		return rental.RentalRecord{}, fmt.Errorf("parse late_fee_per_day: %w", err)
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT item_id, item_name, quantity, daily_rate::text, total_amount::text, replacement_cost::text
		FROM rental_items WHERE rental_id = $1
		ORDER BY item_name`,
		id,
	)
	if err != nil {
		return rental.RentalRecord{}, fmt.Errorf("select rental items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			item              rental.RentalLineItem
			rate, lineTotal   string
			replacement       *string
		)
		if err := rows.Scan(&item.ItemID, &item.ItemName, &item.Quantity, &rate, &lineTotal, &replacement); err != nil {
			return rental.RentalRecord{}, fmt.Errorf("scan rental item: %w", err)
		}
		if item.DailyRate, err = decimal.NewFromString(rate); err != nil {
			return rental.RentalRecord{}, fmt.Errorf("parse daily_rate: %w", err)
		}
		if item.TotalAmount, err = decimal.NewFromString(lineTotal); err != nil {
			return rental.RentalRecord{}, fmt.Errorf("parse line total_amount: %w", err)
		}
		if item.ReplacementCost, err = parseOptionalDecimal(replacement); err != nil {
			return rental.RentalRecord{}, fmt.Errorf("parse replacement_cost: %w", err)
		}
		r.Items = append(r.Items, item)
	}
	if err := rows.Err(); err != nil {
		return rental.RentalRecord{}, fmt.Errorf("iterate rental items: %w", err)
	}
	return r, nil
}

// InsertReturn persists one processed return with its settlement and per-item
// dispositions.
func (s *RentalStore) InsertReturn(ctx context.Context, tx pgx.Tx, record rental.ReturnRecord) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO rental_returns (
			id, rental_id, return_type, return_date, processed_by, return_notes,
			deposit_amount, rental_charges, late_fees, damage_charges, refund_amount, customer_owes,
			new_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6,
			$7::numeric, $8::numeric, $9::numeric, $10::numeric, $11::numeric, $12::numeric,
			$13, $14)`,
		record.ID, record.RentalID, string(record.ReturnType), record.ReturnDate,
		record.ProcessedBy, nullableText(record.ReturnNotes),
		record.Settlement.DepositAmount.String(), record.Settlement.RentalCharges.String(),
		record.Settlement.LateFees.String(), record.Settlement.DamageCharges.String(),
		record.Settlement.RefundAmount.String(), record.Settlement.CustomerOwes.String(),
		string(record.NewStatus), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rental return: %w", err)
	}
	for _, item := range record.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO rental_return_items (
				return_id, item_id, quantity_returned, condition, damage_severity,
				condition_notes, damage_charge
			) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric)`,
			record.ID, item.ItemID, item.QuantityReturned, string(item.Condition),
			nullableText(string(item.DamageSeverity)), nullableText(item.ConditionNotes),
			item.DamageCharge.String(),
		)
		if err != nil {
			return fmt.Errorf("insert return item: %w", err)
		}
	}
	return nil
}

// UpdateStatus moves the rental to its new lifecycle status.
func (s *RentalStore) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status rental.RentalStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE rentals SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update rental status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return rental.ErrRentalNotFound
	}
	return nil
}

// ListReturns loads a rental's processed returns, oldest first.
func (s *RentalStore) ListReturns(ctx context.Context, rentalID uuid.UUID) ([]rental.ReturnRecord, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, rental_id, return_type, return_date, processed_by, COALESCE(return_notes, ''),
			deposit_amount::text, rental_charges::text, late_fees::text, damage_charges::text,
			refund_amount::text, customer_owes::text, new_status, created_at
		FROM rental_returns WHERE rental_id = $1
		ORDER BY created_at`,
		rentalID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rental returns: %w", err)
	}
	defer rows.Close()

	var records []rental.ReturnRecord
	for rows.Next() {
		var (
			record                                 rental.ReturnRecord
			returnType, newStatus                  string
			deposit, charges, late, damage         string
			refund, owes                           string
		)
		err := rows.Scan(
			&record.ID, &record.RentalID, &returnType, &record.ReturnDate,
			&record.ProcessedBy, &record.ReturnNotes,
			&deposit, &charges, &late, &damage, &refund, &owes,
			&newStatus, &record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rental return: %w", err)
		}
		record.ReturnType = rental.ReturnType(returnType)
		record.NewStatus = rental.RentalStatus(newStatus)
		settlement := &record.Settlement
		for _, field := range []struct {
			raw string
			dst *decimal.Decimal
		}{
			{deposit, &settlement.DepositAmount},
			{charges, &settlement.RentalCharges},
			{late, &settlement.LateFees},
			{damage, &settlement.DamageCharges},
			{refund, &settlement.RefundAmount},
			{owes, &settlement.CustomerOwes},
		} {
			if *field.dst, err = decimal.NewFromString(field.raw); err != nil {
				return nil, fmt.Errorf("parse settlement amount: %w", err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rental returns: %w", err)
	}

	for i := range records {
		items, err := s.listReturnItems(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Items = items
	}
	return records, nil
}

func (s *RentalStore) listReturnItems(ctx context.Context, returnID uuid.UUID) ([]rental.ReturnItemDisposition, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT item_id, quantity_returned, condition, COALESCE(damage_severity, ''),
			COALESCE(condition_notes, ''), damage_charge::text
		FROM rental_return_items WHERE return_id = $1`,
		returnID,
	)
	if err != nil {
		return nil, fmt.Errorf("list return items: %w", err)
	}
	defer rows.Close()

	var items []rental.ReturnItemDisposition
	for rows.Next() {
		var (
			item                 rental.ReturnItemDisposition
			condition, severity  string
			charge               string
		)
		if err := rows.Scan(&item.ItemID, &item.QuantityReturned, &condition, &severity, &item.ConditionNotes, &charge); err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		item.Condition = rental.ItemCondition(condition)
		item.DamageSeverity = rental.DamageSeverity(severity)
		if item.DamageCharge, err = decimal.NewFromString(charge); err != nil {
			return nil, fmt.Errorf("parse damage_charge: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate return items: %w", err)
	}
	return items, nil
}
