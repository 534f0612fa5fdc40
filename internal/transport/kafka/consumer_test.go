package kafka

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studiodex/internal/domain"
)

// --- Mocks ---

// fakeReader serves queued messages, then blocks until the fetch context ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.queue) > 0 {
		msg := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return msg, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) commits() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

type mockUpdater struct {
	mu    sync.Mutex
	calls [][]string
	err   error
	done  chan struct{}
	want  int
}

func (m *mockUpdater) UpdateByID(_ context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string(nil), ids...))
	if len(m.calls) == m.want {
		close(m.done)
	}
	return len(ids), m.err
}

func message(offset int64, value string) kafka.Message {
	return kafka.Message{Topic: "studio-changes", Offset: offset, Value: []byte(value)}
}

func runUntil(t *testing.T, c *Consumer, done <-chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for updates")
	}
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// --- Tests ---

func TestEventIDs(t *testing.T) {
	ev := Event{StudioID: "st_1", StudioIDs: []string{"st_2", "", "st_3"}}
	if got := ev.IDs(); !reflect.DeepEqual(got, []string{"st_1", "st_2", "st_3"}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestRun_BatchesAndCommits(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{
		message(1, `{"event":"studio.updated","studio_id":"st_1"}`),
		message(2, `{"event":"studio.updated","studio_ids":["st_2","st_1"]}`),
		message(3, `{"event":"studio.updated","studio_id":"st_3"}`),
	}}
	u := &mockUpdater{done: make(chan struct{}), want: 2}
	c := NewConsumer(r, u, zap.NewNop()).WithBatch(2, 20*time.Millisecond)

	runUntil(t, c, u.done)

	want := [][]string{{"st_1", "st_2"}, {"st_3"}}
	if !reflect.DeepEqual(u.calls, want) {
		t.Errorf("update calls = %v, want %v", u.calls, want)
	}
	if got := r.commits(); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Errorf("committed offsets = %v", got)
	}
}

func TestRun_SkipsMalformedButCommits(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{
		message(7, `not json`),
		message(8, `{"event":"studio.updated","studio_id":"st_9"}`),
	}}
	u := &mockUpdater{done: make(chan struct{}), want: 1}
	c := NewConsumer(r, u, zap.NewNop()).WithBatch(10, 20*time.Millisecond)

	runUntil(t, c, u.done)

	if !reflect.DeepEqual(u.calls, [][]string{{"st_9"}}) {
		t.Errorf("update calls = %v", u.calls)
	}
	if got := r.commits(); !reflect.DeepEqual(got, []int64{7, 8}) {
		t.Errorf("committed offsets = %v", got)
	}
}

func TestFlush_IndexNotBuiltCommits(t *testing.T) {
	r := &fakeReader{}
	u := &mockUpdater{err: domain.ErrIndexNotBuilt, done: make(chan struct{}), want: 1}
	c := NewConsumer(r, u, zap.NewNop())

	var b batch
	b.add(message(4, ""), []string{"st_1"})
	if err := c.flush(context.Background(), &b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.commits(); !reflect.DeepEqual(got, []int64{4}) {
		t.Errorf("committed offsets = %v", got)
	}
	if !b.empty() {
		t.Error("batch should be reset")
	}
}

func TestFlush_ErrorKeepsBatch(t *testing.T) {
	r := &fakeReader{}
	boom := errors.New("engine down")
	u := &mockUpdater{err: boom, done: make(chan struct{}), want: 1}
	c := NewConsumer(r, u, zap.NewNop())

	var b batch
	b.add(message(5, ""), []string{"st_1", "st_1"})
	if err := c.flush(context.Background(), &b); !errors.Is(err, boom) {
		t.Fatalf("expected error, got %v", err)
	}
	if len(r.commits()) != 0 {
		t.Error("nothing may be committed when the update failed")
	}
	if len(b.ids) != 1 || len(b.msgs) != 1 {
		t.Errorf("batch = %d ids / %d msgs, want it kept and deduplicated", len(b.ids), len(b.msgs))
	}
}
