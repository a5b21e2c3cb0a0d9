// Package livequery delivers live full-snapshot streams from a remote
// document collection. Every change to the matching set republishes the
// entire current result, never a diff; local holders of a previous snapshot
// always discard it in favor of the latest.
package livequery

import (
	"context"
	"errors"
	"sync"

	"listinghub-go/internal/models"
)

// Filter is one equality predicate on a document field.
type Filter struct {
	Path  string
	Value interface{}
}

// Query identifies a collection and a conjunction of equality predicates.
type Query struct {
	Collection string
	Filters    []Filter
}

// Snapshot is the complete current matching set of a query at one instant.
type Snapshot struct {
	Listings []models.Listing
}

// SnapshotIterator blocks on Next until the backend emits the next full
// snapshot. The first Next always yields the initial result set, even when
// it is empty.
type SnapshotIterator interface {
	Next() ([]models.Listing, error)
	Stop()
}

// Watcher opens snapshot iterators against the backend. The Firestore
// implementation is in watcher_firestore.go; tests substitute fakes.
type Watcher interface {
	Watch(ctx context.Context, q Query) SnapshotIterator
}

// Subscriber opens live subscriptions through a Watcher.
type Subscriber struct {
	watcher Watcher
}

// NewSubscriber creates a Subscriber on top of the given Watcher.
func NewSubscriber(w Watcher) *Subscriber {
	return &Subscriber{watcher: w}
}

// Subscription is one live query. Snapshots are received from the channel
// until Unsubscribe; the channel is closed once no further deliveries can
// occur.
type Subscription struct {
	snapshots chan Snapshot
	cancel    context.CancelFunc
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// Subscribe establishes a live subscription for q. The initial snapshot is
// always delivered, empty set included. Snapshots arrive in the order the
// backend emits them; no ordering holds across independent subscriptions.
func (s *Subscriber) Subscribe(ctx context.Context, q Query) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		snapshots: make(chan Snapshot),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go sub.pump(ctx, s.watcher.Watch(ctx, q))
	return sub
}

func (sub *Subscription) pump(ctx context.Context, iter SnapshotIterator) {
	defer func() {
		iter.Stop()
		close(sub.snapshots)
		close(sub.done)
	}()

	for {
		listings, err := iter.Next()
		if err != nil {
			if !errors.Is(err, context.Canceled) && ctx.Err() == nil {
				sub.mu.Lock()
				sub.err = err
				sub.mu.Unlock()
			}
			return
		}
		select {
		case sub.snapshots <- Snapshot{Listings: listings}:
		case <-ctx.Done():
			return
		}
	}
}

// Snapshots returns the delivery channel. It is closed after Unsubscribe or
// a stream failure; check Err afterwards.
func (sub *Subscription) Snapshots() <-chan Snapshot {
	return sub.snapshots
}

// Unsubscribe tears the subscription down and returns only once delivery has
// fully stopped: after it returns, no further snapshot is ever received.
// Calling it again is safe and has no further side effects.
func (sub *Subscription) Unsubscribe() {
	sub.cancel()
	<-sub.done
}

// Err reports why the stream terminated, nil for a plain unsubscribe.
func (sub *Subscription) Err() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.err
}
