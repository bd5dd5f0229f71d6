package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/fraudscore/internal/domain"
)

func datasetOf(n int) []domain.Transaction {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Transaction, n)
	for i := range out {
		out[i] = domain.Transaction{
			Time:       start.Add(time.Duration(i) * time.Minute),
			CardNumber: int64(i % 3),
			Category:   domain.CategoryHome,
			TransNum:   fmt.Sprintf("T%d", i),
		}
	}
	return out
}

func TestBulkIngestor_Batches(t *testing.T) {
	repo := &stubRepository{}
	ingestor := NewBulkIngestor(repo, 3, 4)

	require.NoError(t, ingestor.IngestTransactions(context.Background(), datasetOf(10)))
	assert.Equal(t, 3, repo.batches)
	assert.Len(t, repo.saved, 10)
}

func TestBulkIngestor_Empty(t *testing.T) {
	repo := &stubRepository{}
	require.NoError(t, NewBulkIngestor(repo, 0, 0).IngestTransactions(context.Background(), nil))
	assert.Zero(t, repo.batches)
}

func TestBulkIngestor_CollectsErrors(t *testing.T) {
	boom := errors.New("write failed")
	repo := &stubRepository{err: boom}

	err := NewBulkIngestor(repo, 2, 1).IngestTransactions(context.Background(), datasetOf(3))
	require.Error(t, err)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 3)
	assert.Contains(t, err.Error(), "multiple errors")
}

func TestBulkIngestor_Cancelled(t *testing.T) {
	repo := &stubRepository{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewBulkIngestor(repo, 2, 1).IngestTransactions(ctx, datasetOf(50))
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, repo.batches, 50)
}
