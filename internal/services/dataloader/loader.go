package dataloader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"txview/internal/models"
)

// DataLoader reads the transactions CSV into a TransactionSet and caches the
// result for the process lifetime. The cache key is the file's size and
// modification time, so an edited file is picked up on the next request
// without restarting.
type DataLoader struct {
	CSVFile string

	mu     sync.RWMutex
	cached *models.TransactionSet
	key    cacheKey
}

type cacheKey struct {
	size    int64
	modTime time.Time
}

// columnMappings maps common bank export column names to our standard names
var columnMappings = map[string][]string{
	"Date": {
		"date", "Date", "DATE",
		"transaction date", "Transaction Date",
	},
	"Description": {
		"description", "Description", "DESCRIPTION",
		"memo", "Memo",
		"details", "Details",
	},
	"Category": {
		"category", "Category", "CATEGORY",
	},
	"Type": {
		"type", "Type", "TYPE",
		"transaction type", "Transaction Type",
	},
	"Amount": {
		"amount", "Amount", "AMOUNT",
		"value", "Value",
	},
}

// requiredColumns are the columns a source file must provide
var requiredColumns = []string{"Date", "Description", "Category", "Type", "Amount"}

// New creates a new DataLoader for the given CSV file
func New(csvFile string) *DataLoader {
	return &DataLoader{CSVFile: csvFile}
}

// normalizeColumnName maps a bank export column name to our standard name
func normalizeColumnName(col string) string {
	col = strings.TrimSpace(col)
	for standard, variants := range columnMappings {
		for _, variant := range variants {
			if col == variant {
				return standard
			}
		}
	}
	return col
}

// buildColumnIndex creates a normalized column index from CSV headers
func buildColumnIndex(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		normalized := normalizeColumnName(col)
		// First match wins
		if _, exists := colIndex[normalized]; !exists {
			colIndex[normalized] = i
		}
	}
	return colIndex
}

// GetOrLoad returns the cached TransactionSet, reloading from disk only when
// the underlying file has changed since the last load.
func (dl *DataLoader) GetOrLoad() (*models.TransactionSet, error) {
	info, err := os.Stat(dl.CSVFile)
	if err != nil {
		return nil, fmt.Errorf("transactions file %s: %w", dl.CSVFile, err)
	}
	key := cacheKey{size: info.Size(), modTime: info.ModTime()}

	dl.mu.RLock()
	if dl.cached != nil && dl.key == key {
		cached := dl.cached
		dl.mu.RUnlock()
		return cached, nil
	}
	dl.mu.RUnlock()

	dl.mu.Lock()
	defer dl.mu.Unlock()

	// Another request may have loaded while we waited for the lock
	if dl.cached != nil && dl.key == key {
		return dl.cached, nil
	}

	set, err := dl.loadCSVFile(dl.CSVFile)
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded %d transactions from %s", set.Len(), dl.CSVFile)
	dl.cached = set
	dl.key = key
	return set, nil
}

// Invalidate clears the cache; the next GetOrLoad re-reads the file
func (dl *DataLoader) Invalidate() {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.cached = nil
	dl.key = cacheKey{}
}

// loadCSVFile loads transactions from a single CSV file. Unlike lenient bank
// importers this is strict: a row with an unparseable date or amount fails
// the whole load with an error naming the offending line.
func (dl *DataLoader) loadCSVFile(filePath string) (*models.TransactionSet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", filePath, err)
	}

	colIndex := buildColumnIndex(header)
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %s (tried: %v)", filePath, col, columnMappings[col])
		}
	}

	var transactions []models.Transaction
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filePath, lineNum, err)
		}

		field := func(col string) string {
			idx := colIndex[col]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		date, err := parseDate(field("Date"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filePath, lineNum, err)
		}

		amount, err := parseAmount(field("Amount"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filePath, lineNum, err)
		}

		t := models.Transaction{
			Date:        date,
			Description: field("Description"),
			Category:    field("Category"),
			Type:        field("Type"),
			Amount:      amount,
		}
		t.Hash = t.ComputeHash()
		transactions = append(transactions, t)
	}

	return models.NewTransactionSet(transactions), nil
}

// dateFormats are tried in order; day-first formats come before ISO, per the
// source data convention (04/03/2025 is the 4th of March).
var dateFormats = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
}

// parseDate parses a day-first date string
func parseDate(s string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseAmount parses an amount string, tolerating currency symbols and
// thousands separators but failing on anything non-numeric
func parseAmount(s string) (float64, error) {
	cleaned := strings.ReplaceAll(s, "€", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", s)
	}
	return amount, nil
}
