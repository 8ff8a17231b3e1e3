package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/absensi-pegawai/portal/internal/core/domain"
)

type recordingRepo struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
	err      error
	block    chan struct{}
}

func (r *recordingRepo) InsertAttempt(ctx context.Context, a domain.LoginAttempt) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	return r.err
}

func (r *recordingRepo) snapshot() []domain.LoginAttempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LoginAttempt(nil), r.attempts...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	outcomes := []domain.LoginOutcome{
		domain.OutcomeInvalidCredentials,
		domain.OutcomeInvalidCredentials,
		domain.OutcomeSuccess,
	}
	for _, o := range outcomes {
		d.Record(domain.LoginAttempt{Username: "budi", Outcome: o, At: time.Now()})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == len(outcomes) })
	for i, a := range repo.snapshot() {
		if a.Outcome != outcomes[i] {
			t.Fatalf("attempt %d: expected %s, got %s", i, outcomes[i], a.Outcome)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())
	first := d.shardIndex("adminUser")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("adminUser"); got != first {
			t.Fatalf("expected shard %d, got %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_RecordNeverBlocks(t *testing.T) {
	repo := &recordingRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	// Workers not started: the buffer fills and further attempts are dropped.
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.LoginAttempt{Username: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Record blocked on a full buffer")
	}
}

func TestDispatcher_WriteErrorDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.LoginAttempt{Username: "a"})
	d.Record(domain.LoginAttempt{Username: "a"})
	waitFor(t, func() bool { return len(repo.snapshot()) == 2 })

	cancel()
	d.Wait()
}
