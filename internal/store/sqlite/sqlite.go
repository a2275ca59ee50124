package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"armsatlas/internal/model"
)

// Store persists enriched trade records in a sqlite database.
type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) UpsertRecords(ctx context.Context, records []model.TradeRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trade_records (
			trade_id, supplier, recipient, order_year, category,
			supplier_type, recipient_type, supplier_code, recipient_code,
			quantities, ingested_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trade_id, supplier, recipient)
		DO UPDATE SET
			order_year = excluded.order_year,
			category = excluded.category,
			supplier_type = excluded.supplier_type,
			recipient_type = excluded.recipient_type,
			supplier_code = excluded.supplier_code,
			recipient_code = excluded.recipient_code,
			quantities = excluded.quantities,
			ingested_at = excluded.ingested_at
	`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range records {
		record := records[i]
		if record.IngestedAt.IsZero() {
			record.IngestedAt = now
		}
		quantities, err := json.Marshal(record.Quantities)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		_, err = stmt.ExecContext(
			ctx,
			record.ID,
			record.Supplier,
			record.Recipient,
			record.OrderYear,
			record.Category,
			string(record.SupplierType),
			string(record.RecipientType),
			record.SupplierCode,
			record.RecipientCode,
			string(quantities),
			record.IngestedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context) ([]model.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, supplier, recipient, order_year, category,
			supplier_type, recipient_type, supplier_code, recipient_code,
			quantities, ingested_at
		FROM trade_records
		ORDER BY trade_id, supplier, recipient
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.TradeRecord, 0)
	for rows.Next() {
		var record model.TradeRecord
		var supplierType, recipientType, quantities, ingestedAt string
		if err := rows.Scan(
			&record.ID,
			&record.Supplier,
			&record.Recipient,
			&record.OrderYear,
			&record.Category,
			&supplierType,
			&recipientType,
			&record.SupplierCode,
			&record.RecipientCode,
			&quantities,
			&ingestedAt,
		); err != nil {
			return nil, err
		}
		record.SupplierType = model.RegionType(supplierType)
		record.RecipientType = model.RegionType(recipientType)
		if err := json.Unmarshal([]byte(quantities), &record.Quantities); err != nil {
			return nil, fmt.Errorf("sqlite: decode quantities for %s: %w", record.ID, err)
		}
		if parsed, err := time.Parse(time.RFC3339, ingestedAt); err == nil {
			record.IngestedAt = parsed
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) migrate() error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS trade_records (
			trade_id TEXT NOT NULL,
			supplier TEXT NOT NULL,
			recipient TEXT NOT NULL,
			order_year INTEGER NOT NULL,
			category TEXT NOT NULL,
			supplier_type TEXT NOT NULL,
			recipient_type TEXT NOT NULL,
			supplier_code TEXT,
			recipient_code TEXT,
			quantities TEXT NOT NULL,
			ingested_at TEXT NOT NULL,
			PRIMARY KEY (trade_id, supplier, recipient)
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}
