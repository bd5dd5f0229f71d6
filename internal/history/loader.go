package history

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vanshika/fraudscore/internal/domain"
)

// ErrMissingColumn indicates a CSV dataset without one of the required headers.
var ErrMissingColumn = errors.New("dataset column missing")

// csvColumns maps Transaction fields to the column names used by the card fraud dataset.
var csvColumns = struct {
	time, card, merchant, category, amount, first, last, transNum string
}{
	time:     "trans_date_trans_time",
	card:     "cc_num",
	merchant: "merchant",
	category: "category",
	amount:   "amt",
	first:    "first",
	last:     "last",
	transNum: "trans_num",
}

// LoadFile loads a dataset, picking the decoder from the file extension (.json or .csv).
func LoadFile(path string) ([]domain.Transaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".json":
		return LoadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// LoadJSON reads a JSON array of raw transactions.
func LoadJSON(path string) ([]domain.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var raws []domain.RawTransaction
	if err := json.NewDecoder(file).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	txs := make([]domain.Transaction, 0, len(raws))
	for i, raw := range raws {
		tx, err := raw.Parse()
		if err != nil {
			return nil, fmt.Errorf("%s record %d: %w", path, i, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// LoadCSV reads a CSV export of the card fraud dataset.
func LoadCSV(path string) ([]domain.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	txs, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// ReadCSV decodes CSV rows with a header line. Unknown columns are ignored.
func ReadCSV(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	required := []string{
		csvColumns.time, csvColumns.card, csvColumns.merchant, csvColumns.category,
		csvColumns.amount, csvColumns.first, csvColumns.last, csvColumns.transNum,
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var txs []domain.Transaction
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			return strings.TrimSpace(record[index[name]])
		}

		card, err := strconv.ParseInt(field(csvColumns.card), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", line, domain.ErrInvalidCardNumber, err)
		}
		amount, err := domain.ParseAmount(field(csvColumns.amount))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		tx, err := domain.RawTransaction{
			Time:       field(csvColumns.time),
			CardNumber: card,
			Merchant:   field(csvColumns.merchant),
			Category:   field(csvColumns.category),
			FirstName:  field(csvColumns.first),
			LastName:   field(csvColumns.last),
			Amount:     amount,
			TransNum:   field(csvColumns.transNum),
		}.Parse()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
