package register

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"armsatlas/internal/model"
)

// Canonical column names used internally after renaming.
const (
	ColumnID        = "ID"
	ColumnSupplier  = "Supplier"
	ColumnRecipient = "Recipient"
	ColumnOrderYear = "Order year"
	ColumnCategory  = "Armament category"
)

// DataError reports a malformed register file. It is fatal: no records are
// produced when required columns are missing.
type DataError struct {
	Column string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("register: missing required column %q", e.Column)
}

// LoadOptions controls register ingestion.
type LoadOptions struct {
	// Renames maps source column headers to canonical names. Applied before
	// required-column checks.
	Renames map[string]string
	// UnitColumns lists the numeric quantity columns to retain. At least one
	// must be present in the file.
	UnitColumns []string
}

// DefaultLoadOptions matches the SIPRI trade register export: the database-ID
// and order-date columns are renamed, and the standard quantity columns kept.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Renames: map[string]string{
			"SIPRI AT Database ID": ColumnID,
			"Order date":           ColumnOrderYear,
		},
		UnitColumns: []string{
			"Numbers delivered",
			"SIPRI TIV per unit",
			"SIPRI TIV for total order",
		},
	}
}

// Load reads a raw trade register from CSV. The returned records carry no
// enrichment fields; pass them through an Enricher before querying.
func Load(r io.Reader, opts LoadOptions) ([]model.TradeRecord, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("register: read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.ReplaceAll(name, `"`, ""))
		if renamed, ok := opts.Renames[name]; ok {
			name = renamed
		}
		if name == "" {
			continue
		}
		index[name] = i
	}

	for _, required := range []string{ColumnID, ColumnSupplier, ColumnRecipient, ColumnOrderYear, ColumnCategory} {
		if _, ok := index[required]; !ok {
			return nil, &DataError{Column: required}
		}
	}
	units := make([]string, 0, len(opts.UnitColumns))
	for _, unit := range opts.UnitColumns {
		if _, ok := index[unit]; ok {
			units = append(units, unit)
		}
	}
	if len(units) == 0 {
		return nil, &DataError{Column: strings.Join(opts.UnitColumns, "|")}
	}

	now := time.Now().UTC()
	records := make([]model.TradeRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("register: read row: %w", err)
		}

		record := model.TradeRecord{
			ID:         cell(row, index, ColumnID),
			Supplier:   cell(row, index, ColumnSupplier),
			Recipient:  cell(row, index, ColumnRecipient),
			OrderYear:  parseYear(cell(row, index, ColumnOrderYear)),
			Category:   cell(row, index, ColumnCategory),
			Quantities: make(map[string]float64, len(units)),
			IngestedAt: now,
		}
		for _, unit := range units {
			record.Quantities[unit] = parseQuantity(cell(row, index, unit))
		}
		records = append(records, record)
	}
	return records, nil
}

func cell(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseYear(value string) int {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return year
}

func parseQuantity(value string) float64 {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	quantity, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return quantity
}
