package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/fraudscore/internal/config"
)

func TestMemoryClient_ReplaysQueuedResults(t *testing.T) {
	client := NewMemoryClient()
	client.PushReadResult(Result{Records: []Record{{"n": 1}}})

	params := map[string]any{"card": int64(7)}
	res, err := client.ExecuteRead(context.Background(), "MATCH (c:Card) RETURN c", params)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	params["card"] = int64(8)
	calls := client.ReadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(7), calls[0].Params["card"])

	res, err = client.ExecuteRead(context.Background(), "MATCH (c:Card) RETURN c", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestMemoryClient_Errors(t *testing.T) {
	boom := errors.New("bolt down")
	client := NewMemoryClient().WithError(boom).WithConnectivityError(boom)

	_, err := client.ExecuteWrite(context.Background(), "CREATE ()", nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, client.VerifyConnectivity(context.Background()), boom)
	assert.Empty(t, client.WriteCalls())

	require.NoError(t, client.Close(context.Background()))
	assert.True(t, client.Closed())
}

func TestNewNeo4jClient_RequiresURI(t *testing.T) {
	_, err := NewNeo4jClient(context.Background(), OptionsFromConfig(config.GraphConfig{}))
	assert.ErrorIs(t, err, ErrMissingURI)
}
