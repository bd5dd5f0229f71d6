package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/features"
)

func amountModel() *LinearModel {
	weights := make([]float64, features.Width)
	idx, _ := features.ColumnIndex(features.ColAmount)
	weights[idx] = 2
	return &LinearModel{
		Kind:      KindLogistic,
		Columns:   append([]string(nil), features.Columns[:]...),
		Weights:   weights,
		Bias:      -1,
		Threshold: 0.5,
	}
}

func writeModel(t *testing.T, m any) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestAdapter_MapsLabels(t *testing.T) {
	cases := []struct {
		label   int
		want    domain.Verdict
		wantErr error
	}{
		{label: 1, want: domain.Fraud},
		{label: 0, want: domain.NotFraud},
		{label: 2, wantErr: ErrInvalidLabel},
		{label: -1, wantErr: ErrInvalidLabel},
	}
	for _, tc := range cases {
		label := tc.label
		adapter := NewAdapter(PredictorFunc(func(context.Context, []float64) (int, error) { return label, nil }))
		got, err := adapter.Classify(context.Background(), features.Vector{})
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestAdapter_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	adapter := NewAdapter(PredictorFunc(func(context.Context, []float64) (int, error) { return 0, boom }))
	_, err := adapter.Classify(context.Background(), features.Vector{})
	assert.ErrorIs(t, err, boom)

	var missing *Adapter
	_, err = missing.Classify(context.Background(), features.Vector{})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestLinearModel_Predict(t *testing.T) {
	m := amountModel()
	idx, _ := features.ColumnIndex(features.ColAmount)

	var vec features.Vector
	vec[idx] = 1
	label, err := m.Predict(context.Background(), vec.Slice())
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	vec[idx] = 0
	label, err = m.Predict(context.Background(), vec.Slice())
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	_, err = m.Predict(context.Background(), []float64{1, 2})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Predict(ctx, vec.Slice())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad(t *testing.T) {
	loaded, err := Load(writeModel(t, amountModel()))
	require.NoError(t, err)
	assert.Equal(t, -1.0, loaded.Bias)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	bad := amountModel()
	bad.Columns[3], bad.Columns[4] = bad.Columns[4], bad.Columns[3]
	_, err = Load(writeModel(t, bad))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	bad = amountModel()
	bad.Kind = "xgboost"
	_, err = Load(writeModel(t, bad))
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("pickle"), 0o600))
	_, err = Load(path)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}
