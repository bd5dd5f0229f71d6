package service

import (
	"context"
	"errors"
	"sync"

	"github.com/vanshika/fraudscore/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkIngestor pushes transaction datasets into the graph using a worker pool.
type BulkIngestor struct {
	repo      HistoryRepository
	workers   int
	batchSize int
}

// NewBulkIngestor creates a BulkIngestor with the provided concurrency and batch size.
func NewBulkIngestor(repo HistoryRepository, workers, batchSize int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &BulkIngestor{
		repo:      repo,
		workers:   workers,
		batchSize: batchSize,
	}
}

// IngestTransactions writes txs in batches concurrently.
func (bi *BulkIngestor) IngestTransactions(ctx context.Context, txs []domain.Transaction) error {
	batches := (len(txs) + bi.batchSize - 1) / bi.batchSize
	return bi.run(ctx, batches, func(idx int) error {
		lo := idx * bi.batchSize
		hi := min(lo+bi.batchSize, len(txs))
		return bi.repo.UpsertTransactions(ctx, txs[lo:hi])
	})
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
