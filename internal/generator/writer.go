package generator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vanshika/fraudscore/internal/domain"
)

// csvHeader mirrors the public card-fraud dataset so the output loads with history.LoadCSV.
var csvHeader = []string{"trans_date_trans_time", "cc_num", "merchant", "category", "amt", "first", "last", "trans_num"}

// WriteDataset serializes the dataset into transactions.json and transactions.csv under dir.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, "transactions.json"), dataset.Transactions); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "transactions.csv"), dataset.Transactions)
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, txs []domain.RawTransaction) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header for %s: %w", path, err)
	}
	for _, tx := range txs {
		row := []string{
			tx.Time,
			strconv.FormatInt(tx.CardNumber, 10),
			tx.Merchant,
			tx.Category,
			tx.Amount.StringFixed(2),
			tx.FirstName,
			tx.LastName,
			tx.TransNum,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv for %s: %w", path, err)
	}
	return nil
}
