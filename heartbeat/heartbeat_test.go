package heartbeat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chabad360/osc-spatial/engine"
	"github.com/chabad360/osc-spatial/osc"
)

type fakeTx struct {
	mu    sync.Mutex
	ready bool
	err   error
	sent  []osc.Packet
}

func (f *fakeTx) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeTx) Send(p osc.Packet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeTx) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestInitialState(t *testing.T) {
	m := New(&fakeTx{})
	assert.Equal(t, Disconnected, m.Status().State)
	assert.False(t, m.Connected())
	assert.Equal(t, "disconnected", m.Status().Name)
}

func TestBeatSendsOnlyWhenReady(t *testing.T) {
	tx := &fakeTx{}
	m := New(tx)
	m.Beat()
	assert.Equal(t, 0, tx.count())

	tx.ready = true
	m.Beat()
	require.Equal(t, 1, tx.count())
	msg := tx.sent[0].(*osc.Message)
	assert.Equal(t, engine.AddrHeartbeat, msg.Address)
	assert.Equal(t, []interface{}{int32(1)}, msg.Arguments)
	assert.Equal(t, uint64(1), m.Status().Sent)

	tx.err = errors.New("network down")
	m.Beat()
	assert.Equal(t, uint64(1), m.Status().Sent)
}

func TestBeatContinuesWhileDisconnected(t *testing.T) {
	tx := &fakeTx{ready: true}
	m := New(tx)
	for range 5 {
		m.Beat()
	}
	assert.Equal(t, 5, tx.count())
	assert.Equal(t, Disconnected, m.Status().State)
}

func TestTimeoutTransitions(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	var changes []State
	m := New(&fakeTx{ready: true}, WithClock(c.now), OnChange(func(s State) { changes = append(changes, s) }))

	m.Beat()
	m.Ack()
	assert.Equal(t, Connected, m.Status().State)
	assert.Equal(t, c.t, m.Status().LastAck)

	c.advance(2 * time.Second)
	m.Beat()
	assert.Equal(t, Connected, m.Status().State, "exactly the timeout is not yet lost")

	c.advance(time.Millisecond)
	m.Beat()
	assert.Equal(t, Disconnected, m.Status().State)

	c.advance(10 * time.Second)
	m.Ack()
	assert.Equal(t, Connected, m.Status().State)
	assert.Equal(t, []State{Connected, Disconnected, Connected}, changes)
}

func TestAckRefreshesWithoutNotifying(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	n := 0
	m := New(nil, WithClock(c.now), OnChange(func(State) { n++ }))
	m.Ack()
	c.advance(1500 * time.Millisecond)
	m.Ack()
	c.advance(1500 * time.Millisecond)
	m.Beat()
	assert.True(t, m.Connected())
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(2), m.Status().Acks)
}

func TestBindDispatchesAck(t *testing.T) {
	d := &osc.Dispatcher{}
	m := New(nil)
	require.NoError(t, m.Bind(d))
	d.Dispatch(osc.NewMessage(engine.AddrHeartbeatAck), nil)
	assert.True(t, m.Connected())
}

func TestRunStopsOnCancel(t *testing.T) {
	tx := &fakeTx{ready: true}
	m := New(tx, WithInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return tx.count() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestConcurrentTransitionsStayOrdered(t *testing.T) {
	var mu sync.Mutex
	now := time.Unix(0, 0)
	// Every reading moves the clock past the timeout.
	tick := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
	var changes []State
	m := New(nil, WithTimeout(500*time.Millisecond), WithClock(tick),
		OnChange(func(s State) { changes = append(changes, s) }))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				m.Ack()
				m.Beat()
			}
		}()
	}
	wg.Wait()

	require.NotEmpty(t, changes)
	assert.Equal(t, Connected, changes[0])
	for i := 1; i < len(changes); i++ {
		assert.NotEqual(t, changes[i-1], changes[i], "change %d repeats the previous state", i)
	}
	assert.Equal(t, m.Status().State, changes[len(changes)-1])
}
