package quiztake

import (
	"context"
	"strconv"

	"edulearn-cli/internal/kv"
)

// TimerStore is the keyed countdown cache: submission id to remaining
// seconds, persisted so a reload resumes mid-countdown instead of
// restarting at the full limit. It is not authoritative; the server's own
// deadline decides whether a submission is still acceptable.
//
// Lifecycle: an entry is created at the first time-limit computation for a
// submission and deleted exactly when that submission is submitted.
type TimerStore struct {
	kv kv.Store
}

func NewTimerStore(store kv.Store) *TimerStore {
	return &TimerStore{kv: store}
}

// Remaining returns the persisted seconds for a submission, if any.
func (t *TimerStore) Remaining(ctx context.Context, submissionID int64) (int, bool, error) {
	raw, ok, err := t.kv.Get(ctx, kv.TimerKey(submissionID))
	if err != nil || !ok {
		return 0, false, err
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		// Unreadable entries are treated as absent rather than poisoning
		// the session.
		return 0, false, nil
	}
	return seconds, true, nil
}

func (t *TimerStore) Save(ctx context.Context, submissionID int64, seconds int) error {
	return t.kv.Set(ctx, kv.TimerKey(submissionID), strconv.Itoa(seconds))
}

func (t *TimerStore) Clear(ctx context.Context, submissionID int64) error {
	return t.kv.Delete(ctx, kv.TimerKey(submissionID))
}
