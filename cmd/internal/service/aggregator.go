package service

import (
	"context"
	"gatherbeat/cmd/internal/domain/entity"
	"slices"
	"sync"

	"github.com/labstack/gommon/log"
)

type AccountResolver interface {
	ResolveKey(ctx context.Context, id string) (*entity.Account, error)
}

type BatchDispatcher interface {
	DispatchBatch(ctx context.Context, account *entity.Account, minutes []int64) DispatchResult
}

// Aggregator buckets active minutes per account until they're flushed.
// A minute is stored once per account no matter how many ticks saw it.
type Aggregator struct {
	mu      sync.Mutex
	buckets map[string]map[int64]struct{}
}

func NewAggregator() *Aggregator {
	return &Aggregator{buckets: make(map[string]map[int64]struct{})}
}

// Record adds minute to the account's bucket. Returns false if it was already there.
func (a *Aggregator) Record(accountID string, minute int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	bucket, ok := a.buckets[accountID]
	if !ok {
		bucket = make(map[int64]struct{})
		a.buckets[accountID] = bucket
	}

	if _, seen := bucket[minute]; seen {
		return false
	}
	bucket[minute] = struct{}{}
	return true
}

// Minutes returns the account's pending minutes in ascending order.
func (a *Aggregator) Minutes(accountID string) []int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return sortedMinutes(a.buckets[accountID])
}

// Pending returns a copy of every non-empty bucket.
func (a *Aggregator) Pending() map[string][]int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	pending := make(map[string][]int64, len(a.buckets))
	for id, bucket := range a.buckets {
		if len(bucket) > 0 {
			pending[id] = sortedMinutes(bucket)
		}
	}
	return pending
}

// Flush re-resolves every account with pending minutes and submits them as one
// batch per account. A bucket is emptied once its batch was attempted, whether
// or not the call succeeded. Buckets of accounts that no longer resolve are
// dropped. A failed lookup leaves the bucket untouched for the next flush.
func (a *Aggregator) Flush(ctx context.Context, resolver AccountResolver, dispatcher BatchDispatcher) []DispatchResult {
	var results []DispatchResult
	for _, id := range a.accountIDs() {
		if ctx.Err() != nil {
			break
		}

		minutes := a.Minutes(id)
		if len(minutes) == 0 {
			a.forget(id, nil)
			continue
		}

		account, err := resolver.ResolveKey(ctx, id)
		if err != nil {
			results = append(results, DispatchResult{AccountID: id, Err: err})
			continue
		}

		if account == nil {
			log.Debugf("Aggregator: account %s no longer resolves, dropping %d minutes", id, len(minutes))
			a.forget(id, nil)
			continue
		}

		result := dispatcher.DispatchBatch(ctx, account, minutes)
		a.forget(id, minutes)
		results = append(results, result)
	}
	return results
}

func (a *Aggregator) accountIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, 0, len(a.buckets))
	for id := range a.buckets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// forget removes the given minutes from the bucket, or the whole bucket if minutes is nil.
// Empty buckets are deleted.
func (a *Aggregator) forget(accountID string, minutes []int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	bucket, ok := a.buckets[accountID]
	if !ok {
		return
	}

	if minutes == nil {
		delete(a.buckets, accountID)
		return
	}

	for _, m := range minutes {
		delete(bucket, m)
	}
	if len(bucket) == 0 {
		delete(a.buckets, accountID)
	}
}

func sortedMinutes(bucket map[int64]struct{}) []int64 {
	minutes := make([]int64, 0, len(bucket))
	for m := range bucket {
		minutes = append(minutes, m)
	}
	slices.Sort(minutes)
	return minutes
}
