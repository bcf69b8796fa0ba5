package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-launch-alerts/internal/solana"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeWS struct {
	mu      sync.Mutex
	filters []solana.LogsFilter
	chans   map[string]chan solana.LogNotification
	err     error
}

func newFakeWS() *fakeWS {
	return &fakeWS{chans: make(map[string]chan solana.LogNotification)}
}

func (f *fakeWS) SubscribeLogs(_ context.Context, filter solana.LogsFilter) (<-chan solana.LogNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.filters = append(f.filters, filter)
	ch := make(chan solana.LogNotification, 10)
	f.chans[filter.Mentions[0]] = ch
	return ch, nil
}

func (f *fakeWS) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.chans {
		close(ch)
	}
	return nil
}

func (f *fakeWS) send(program string, n solana.LogNotification) {
	f.mu.Lock()
	ch := f.chans[program]
	f.mu.Unlock()
	ch <- n
}

func collect(t *testing.T, ch <-chan solana.LogNotification) []solana.LogNotification {
	t.Helper()
	var out []solana.LogNotification
	timeout := time.After(2 * time.Second)
	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, n)
		case <-timeout:
			t.Fatal("stream did not close")
		}
	}
}

func TestWSSource_ForwardsProgram(t *testing.T) {
	ws := newFakeWS()
	src := NewWSSource(ws, WSSourceOptions{Program: solana.PumpFun, Logger: quietLogger()})

	ch, err := src.Subscribe(context.Background())
	require.NoError(t, err)
	require.Len(t, ws.filters, 1)
	assert.Equal(t, []string{solana.PumpFun}, ws.filters[0].Mentions)

	ws.send(solana.PumpFun, solana.LogNotification{Signature: "a1"})
	ws.send(solana.PumpFun, solana.LogNotification{Signature: "a2"})
	require.NoError(t, ws.Close())

	got := collect(t, ch)
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].Signature)
	assert.Equal(t, "a2", got[1].Signature)
}

func TestWSSource_RequiresProgram(t *testing.T) {
	ws := newFakeWS()
	_, err := NewWSSource(ws, WSSourceOptions{Logger: quietLogger()}).Subscribe(context.Background())
	assert.Error(t, err)
	assert.Empty(t, ws.filters)
}

func TestWSSource_ClosesOnCancel(t *testing.T) {
	ws := newFakeWS()
	src := NewWSSource(ws, WSSourceOptions{Program: solana.PumpFun, Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := src.Subscribe(ctx)
	require.NoError(t, err)

	cancel()
	assert.Empty(t, collect(t, ch))
}

func TestWSSource_SubscribeError(t *testing.T) {
	ws := newFakeWS()
	ws.err = errors.New("subscribe timeout")
	src := NewWSSource(ws, WSSourceOptions{Program: solana.PumpFun, Logger: quietLogger()})

	_, err := src.Subscribe(context.Background())
	assert.Error(t, err)
}

func TestReplaySource_RoundTrip(t *testing.T) {
	recorded := []solana.LogNotification{
		{Signature: "s1", Slot: 1, Logs: []string{"Program log: Instruction: Create", "Program data: AAAA"}},
		{Signature: "s2", Slot: 2, Logs: []string{"Program log: Instruction: Buy"}, Err: map[string]any{"InstructionError": []any{float64(0), "Custom"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, recorded))

	ch, err := NewReplaySource(&buf, quietLogger()).Subscribe(context.Background())
	require.NoError(t, err)

	got := collect(t, ch)
	require.Len(t, got, 2)
	assert.Equal(t, recorded[0], got[0])
	assert.Equal(t, "s2", got[1].Signature)
	assert.True(t, got[1].Failed())
	assert.False(t, got[0].Failed())
}

func TestReplaySource_SkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		`# recorded 2024-06-01`,
		`{"signature":"ok1","logs":[]}`,
		``,
		`{not json`,
		`{"signature":"ok2","logs":["x"],"err":null}`,
	}, "\n")

	var logBuf bytes.Buffer
	ch, err := NewReplaySource(strings.NewReader(input), log.New(&logBuf, "", 0)).Subscribe(context.Background())
	require.NoError(t, err)

	got := collect(t, ch)
	require.Len(t, got, 2)
	assert.Equal(t, "ok1", got[0].Signature)
	assert.Equal(t, "ok2", got[1].Signature)
	assert.Contains(t, logBuf.String(), "line 4")
}

func TestFileReplaySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteJSONL(f, []solana.LogNotification{{Signature: "file1"}}))
	require.NoError(t, f.Close())

	ch, err := NewFileReplaySource(path, quietLogger()).Subscribe(context.Background())
	require.NoError(t, err)
	got := collect(t, ch)
	require.Len(t, got, 1)
	assert.Equal(t, "file1", got[0].Signature)

	_, err = NewFileReplaySource(filepath.Join(t.TempDir(), "missing.jsonl"), quietLogger()).Subscribe(context.Background())
	assert.Error(t, err)
}

func TestReplaySource_StopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, []solana.LogNotification{{Signature: "a"}, {Signature: "b"}}))

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewReplaySource(&buf, quietLogger()).Subscribe(ctx)
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, "a", first.Signature)
	cancel()

	// The pending send may or may not win the race with cancellation.
	rest := collect(t, ch)
	assert.LessOrEqual(t, len(rest), 1)
}
