package service

import (
	"context"
	"gatherbeat/cmd/internal/domain/entity"
	"time"
)

type HeartbeatSender interface {
	SendBulk(ctx context.Context, apiKey string, heartbeats []entity.Heartbeat) error
	Send(ctx context.Context, apiKey string, heartbeat entity.Heartbeat) error
}

// DispatchResult is the outcome of one call to the time-tracking API.
type DispatchResult struct {
	AccountID string
	Events    int
	Err       error
}

func (r DispatchResult) OK() bool {
	return r.Err == nil
}

type Dispatcher struct {
	Sender HeartbeatSender
	Meta   entity.HeartbeatMeta
}

func NewDispatcher(sender HeartbeatSender, meta entity.HeartbeatMeta) *Dispatcher {
	return &Dispatcher{
		Sender: sender,
		Meta:   meta,
	}
}

// BuildBatch renders one heartbeat per minute, in the given order.
func (d *Dispatcher) BuildBatch(minutes []int64) []entity.Heartbeat {
	heartbeats := make([]entity.Heartbeat, len(minutes))
	for i, minute := range minutes {
		heartbeats[i] = d.Meta.At(float64(minute))
	}
	return heartbeats
}

// DispatchBatch submits all minutes for an account in a single bulk call.
func (d *Dispatcher) DispatchBatch(ctx context.Context, account *entity.Account, minutes []int64) DispatchResult {
	heartbeats := d.BuildBatch(minutes)
	err := d.Sender.SendBulk(ctx, account.APIKey, heartbeats)
	return DispatchResult{AccountID: account.ID, Events: len(heartbeats), Err: err}
}

// DispatchNow sends a single heartbeat stamped at now.
func (d *Dispatcher) DispatchNow(ctx context.Context, account *entity.Account, now time.Time) DispatchResult {
	heartbeat := d.Meta.At(entity.FractionalSeconds(now))
	err := d.Sender.Send(ctx, account.APIKey, heartbeat)
	return DispatchResult{AccountID: account.ID, Events: 1, Err: err}
}
