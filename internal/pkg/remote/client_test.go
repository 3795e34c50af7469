package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsdraw/internal/models"
)

func TestOracleClientRequestRandomness(t *testing.T) {
	var got randomnessRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/randomness", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewOracleClient(Options{BaseURL: srv.URL, APIKey: "secret"}, "https://draw.example/api/v1/randomness/callback")
	require.NoError(t, c.RequestRandomness(context.Background(), "job-1"))
	assert.Equal(t, "job-1", got.JobID)
	assert.Equal(t, "https://draw.example/api/v1/randomness/callback", got.CallbackURL)
}

func TestCustodyClientTransferRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "token1", req.ItemID)
		http.Error(w, "unknown item", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewCustodyClient(Options{BaseURL: srv.URL})
	err := c.Transfer(context.Background(), &models.PrizeTransfer{ID: 3, Custodian: "0:01", ItemID: "token1", Recipient: "0:02"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "unknown item")
}

func TestCustodyClientResendCarriesSameTransferID(t *testing.T) {
	var ids []int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		ids = append(ids, req.TransferID)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewCustodyClient(Options{BaseURL: srv.URL})
	transfer := &models.PrizeTransfer{ID: 3, Custodian: "0:01", ItemID: "token1", Recipient: "0:02"}
	require.NoError(t, c.Transfer(context.Background(), transfer))
	require.NoError(t, c.Transfer(context.Background(), transfer))
	assert.Equal(t, []int64{3, 3}, ids)
}
