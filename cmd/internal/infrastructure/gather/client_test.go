package gather

import (
	"context"
	"gatherbeat/cmd/internal/domain/entity"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDecodesPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spaces/abc%5Cmy-office/players", r.URL.EscapedPath())
		assert.Equal(t, "gather-key", r.Header.Get("apiKey"))
		_, _ = w.Write([]byte(`{
			"sess-1": {"id": "u1", "name": "Ana Lee", "status": "Available", "displayEmail": "a@x.com"},
			"sess-2": {"id": "u2", "name": "Recording", "status": "Busy"},
			"sess-3": null
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", `abc\my-office`, "gather-key", time.Second)
	snapshot, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot, 2)
	assert.Equal(t, &entity.Participant{
		ID:           "u1",
		Name:         "Ana Lee",
		Status:       entity.StatusAvailable,
		DisplayEmail: "a@x.com",
	}, snapshot["sess-1"])
	assert.Equal(t, entity.StatusBusy, snapshot["sess-2"].Status)
}

func TestSnapshotMapsErrorStatuses(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusUnauthorized)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "space", "key", time.Second)

	_, err := c.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	status.Store(http.StatusNotFound)
	_, err = c.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	status.Store(http.StatusBadGateway)
	_, err = c.Snapshot(context.Background())
	assert.EqualError(t, err, "gather players failed with status code: 502")
}
