package service

import (
	"sync"

	"github.com/forgo/quest/internal/model"
)

// DefaultFeedBuffer is the number of pending updates kept per subscriber
const DefaultFeedBuffer = 16

// ProgressSubscription receives committed progress snapshots for one user
type ProgressSubscription struct {
	feed    *ProgressFeed
	userID  string
	updates chan model.UserProgress
	once    sync.Once
}

// Updates returns the channel of progress snapshots in increasing Revision
// order. It is closed on Unsubscribe or when the feed closes. Snapshots may
// share maps with other subscribers and must be treated as read-only.
func (s *ProgressSubscription) Updates() <-chan model.UserProgress {
	return s.updates
}

// UserID returns the subscribed user
func (s *ProgressSubscription) UserID() string {
	return s.userID
}

// Unsubscribe stops delivery and closes the channel. Safe to call more
// than once.
func (s *ProgressSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.remove(s)
	})
}

// ProgressFeed fans committed progress out to per-user subscribers.
// Publishing never blocks: a full subscriber drops its oldest pending
// update. A snapshot whose Revision is not newer than the last one
// delivered for that user is discarded, so commits that publish out of
// order never leave a subscriber on stale state.
type ProgressFeed struct {
	mu     sync.Mutex
	subs   map[string]map[*ProgressSubscription]struct{} // userID -> subscriptions
	latest map[string]int64                              // userID -> last delivered revision
	buffer int
	closed bool
}

// NewProgressFeed creates a feed with the given per-subscriber buffer
func NewProgressFeed(buffer int) *ProgressFeed {
	if buffer <= 0 {
		buffer = DefaultFeedBuffer
	}
	return &ProgressFeed{
		subs:   make(map[string]map[*ProgressSubscription]struct{}),
		latest: make(map[string]int64),
		buffer: buffer,
	}
}

// Subscribe registers a subscription for userID. On a closed feed the
// returned subscription's channel is already closed.
func (f *ProgressFeed) Subscribe(userID string) *ProgressSubscription {
	sub := &ProgressSubscription{
		feed:    f,
		userID:  userID,
		updates: make(chan model.UserProgress, f.buffer),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		close(sub.updates)
		return sub
	}
	if f.subs[userID] == nil {
		f.subs[userID] = make(map[*ProgressSubscription]struct{})
	}
	f.subs[userID][sub] = struct{}{}
	return sub
}

func (f *ProgressFeed) remove(sub *ProgressSubscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userSubs, ok := f.subs[sub.userID]
	if !ok {
		return
	}
	if _, ok := userSubs[sub]; !ok {
		return
	}
	delete(userSubs, sub)
	close(sub.updates)
	if len(userSubs) == 0 {
		delete(f.subs, sub.userID)
		delete(f.latest, sub.userID)
	}
}

// Publish delivers a snapshot to every subscriber of progress.UserID.
// Snapshots with a zero Revision are always delivered.
func (f *ProgressFeed) Publish(progress model.UserProgress) {
	f.mu.Lock()
	defer f.mu.Unlock()

	userSubs := f.subs[progress.UserID]
	if len(userSubs) == 0 {
		return
	}
	if progress.Revision > 0 {
		if progress.Revision <= f.latest[progress.UserID] {
			return
		}
		f.latest[progress.UserID] = progress.Revision
	}

	for sub := range userSubs {
		select {
		case sub.updates <- progress:
			continue
		default:
		}
		// Buffer full: drop the oldest pending update and retry once
		select {
		case <-sub.updates:
		default:
		}
		select {
		case sub.updates <- progress:
		default:
		}
	}
}

// SubscriberCount returns the number of live subscriptions for userID
func (f *ProgressFeed) SubscriberCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[userID])
}

// Close closes every subscription. Later Publish calls are no-ops.
func (f *ProgressFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for userID, userSubs := range f.subs {
		for sub := range userSubs {
			close(sub.updates)
		}
		delete(f.subs, userID)
	}
	clear(f.latest)
}
