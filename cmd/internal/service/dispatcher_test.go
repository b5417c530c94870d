package service

import (
	"context"
	"errors"
	"gatherbeat/cmd/internal/domain/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentBatch struct {
	apiKey     string
	heartbeats []entity.Heartbeat
}

type fakeSender struct {
	batches []sentBatch
	err     error
}

func (f *fakeSender) SendBulk(_ context.Context, apiKey string, heartbeats []entity.Heartbeat) error {
	f.batches = append(f.batches, sentBatch{apiKey: apiKey, heartbeats: heartbeats})
	return f.err
}

func (f *fakeSender) Send(_ context.Context, apiKey string, heartbeat entity.Heartbeat) error {
	f.batches = append(f.batches, sentBatch{apiKey: apiKey, heartbeats: []entity.Heartbeat{heartbeat}})
	return f.err
}

func TestDispatcherBuildBatch(t *testing.T) {
	d := NewDispatcher(&fakeSender{}, entity.DefaultHeartbeatMeta())

	batch := d.BuildBatch([]int64{1700000040, 1700000100})
	require.Len(t, batch, 2)
	assert.Equal(t, entity.Heartbeat{
		Time:     1700000040,
		Entity:   "Gather",
		Type:     "app",
		Project:  "Gather Client",
		Plugin:   "gather-heartbeat/1.0.0",
		Category: "meeting",
		Branch:   "main",
	}, batch[0])
	assert.Equal(t, float64(1700000100), batch[1].Time)
}

func TestDispatcherDispatchBatch(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, entity.DefaultHeartbeatMeta())

	res := d.DispatchBatch(context.Background(), &entity.Account{ID: "AnaLee", APIKey: "k"}, []int64{60, 120})
	assert.True(t, res.OK())
	assert.Equal(t, "AnaLee", res.AccountID)
	assert.Equal(t, 2, res.Events)
	require.Len(t, sender.batches, 1)
	assert.Equal(t, "k", sender.batches[0].apiKey)
}

func TestDispatcherDispatchNowUsesFractionalTime(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	d := NewDispatcher(sender, entity.DefaultHeartbeatMeta())
	now := time.Unix(1700000000, 250_000_000)

	res := d.DispatchNow(context.Background(), &entity.Account{ID: "AnaLee", APIKey: "k"}, now)
	assert.False(t, res.OK())
	assert.EqualError(t, res.Err, "boom")
	require.Len(t, sender.batches, 1)
	assert.InDelta(t, 1700000000.25, sender.batches[0].heartbeats[0].Time, 1e-6)
}
