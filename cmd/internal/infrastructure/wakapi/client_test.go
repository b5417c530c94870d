package wakapi

import (
	"context"
	"encoding/json"
	"errors"
	"gatherbeat/cmd/internal/domain/entity"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBulkPostsArrayWithFixedHeaders(t *testing.T) {
	var got []entity.Heartbeat
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/current/heartbeats.bulk", r.URL.Path)
		assert.Equal(t, "s3cr3t&x", r.URL.Query().Get("api_key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, MachineName, r.Header.Get("X-Machine-Name"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", time.Second)
	meta := entity.DefaultHeartbeatMeta()
	err := c.SendBulk(context.Background(), "s3cr3t&x", []entity.Heartbeat{meta.At(60), meta.At(120)})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, float64(60), got[0].Time)
	assert.Equal(t, "app", got[1].Type)
}

func TestSendPostsSingleObject(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/current/heartbeats", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Send(context.Background(), "k", entity.DefaultHeartbeatMeta().At(1700000000.5))
	require.NoError(t, err)

	assert.Equal(t, 1700000000.5, raw["time"])
	assert.Equal(t, "Gather", raw["entity"])
	assert.Equal(t, "main", raw["branch"])
}

func TestPostReportsStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "bad" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.Error(w, "database is locked", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	err := c.SendBulk(context.Background(), "bad", nil)
	assert.ErrorIs(t, err, ErrInvalidCredential)

	err = c.SendBulk(context.Background(), "good", nil)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "database is locked", statusErr.Body)
}

func TestPostDoesNotLeakAPIKeyOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	err := c.SendBulk(context.Background(), "very-secret", nil)
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "very-secret"))
}
