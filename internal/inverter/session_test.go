package inverter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

type mockTransport struct {
	ReadHoldingRegistersFunc  func(ctx context.Context, address, quantity uint16) ([]byte, error)
	ReadDeviceDescriptionFunc func(ctx context.Context) ([]byte, error)

	mu     sync.Mutex
	closed bool
}

func (m *mockTransport) ReadHoldingRegisters(ctx context.Context, address, quantity uint16) ([]byte, error) {
	if m.ReadHoldingRegistersFunc != nil {
		return m.ReadHoldingRegistersFunc(ctx, address, quantity)
	}
	return nil, fmt.Errorf("ReadHoldingRegisters not implemented")
}

func (m *mockTransport) ReadDeviceDescription(ctx context.Context) ([]byte, error) {
	if m.ReadDeviceDescriptionFunc != nil {
		return m.ReadDeviceDescriptionFunc(ctx)
	}
	return nil, fmt.Errorf("device description not supported")
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

type notifyingSink struct {
	mockSink
	seen chan telemetry.Record
}

func (s *notifyingSink) Write(record telemetry.Record) {
	s.mockSink.Write(record)
	select {
	case s.seen <- record:
	default:
	}
}

func sessionTestCatalog() Catalog {
	return Catalog{
		mustBlock(
			param("model_name", Text, "", "", 1, 30000, 2, true, true),
		),
		mustBlock(
			param("active_power", Int32, "", "W", 1, 32080, 2, false, true),
		),
	}
}

func fastSessionOptions() SessionOptions {
	return SessionOptions{
		SettleDelay:    time.Millisecond,
		PollInterval:   time.Millisecond,
		StatsInterval:  time.Hour,
		ReconnectDelay: time.Millisecond,
		IdleSleep:      time.Millisecond,
	}
}

func TestSessionRun(t *testing.T) {
	t.Run("incomplete scan tears the session down and reconnects", func(t *testing.T) {
		// First transport answers the identity block but fails every
		// power read, so the steady-state scan comes back short. The
		// session must drop it and dial again.
		degraded := &mockTransport{
			ReadHoldingRegistersFunc: func(_ context.Context, address, _ uint16) ([]byte, error) {
				if address == 30000 {
					return registerBytes(0x4142, 0x0043), nil
				}
				return nil, fmt.Errorf("illegal data address")
			},
		}
		healthy := &mockTransport{
			ReadHoldingRegistersFunc: func(_ context.Context, address, _ uint16) ([]byte, error) {
				switch address {
				case 30000:
					return registerBytes(0x4142, 0x0043), nil
				case 32080:
					return registerBytes(0x0000, 0x2710), nil
				default:
					return nil, fmt.Errorf("unexpected address %d", address)
				}
			},
		}

		var dials atomic.Int32
		dial := func(context.Context) (Transport, error) {
			if dials.Add(1) == 1 {
				return degraded, nil
			}
			return healthy, nil
		}

		sink := &notifyingSink{seen: make(chan telemetry.Record, 16)}
		session := NewSession("test", dial, sessionTestCatalog(), sink,
			ScannerOptions{Attempts: 1, ReadTimeout: 100 * time.Millisecond, RetryDelay: time.Millisecond},
			fastSessionOptions(), nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			session.Run(ctx)
			close(done)
		}()

		deadline := time.After(5 * time.Second)
		for {
			var record telemetry.Record
			select {
			case record = <-sink.seen:
			case <-deadline:
				t.Fatal("timed out waiting for a poll through the healthy transport")
			}
			if record.Measurement == "active_power" {
				break
			}
		}
		cancel()
		<-done

		snapshot := session.Snapshot()
		assert.GreaterOrEqual(t, dials.Load(), int32(2))
		assert.True(t, degraded.Closed())
		assert.GreaterOrEqual(t, snapshot.PollErrors, uint64(1))
		assert.GreaterOrEqual(t, snapshot.PollOk, uint64(1))
		assert.Equal(t, "ABC", snapshot.Identity.ModelName)

		records := sink.byMeasurement("active_power")
		require.NotEmpty(t, records)
		assert.Equal(t, int64(10000), records[0].Value)
	})

	t.Run("cancel during connect retries returns promptly", func(t *testing.T) {
		hook := logrustest.NewGlobal()
		defer hook.Reset()

		dial := func(context.Context) (Transport, error) {
			return nil, fmt.Errorf("connection refused")
		}

		session := NewSession("test", dial, sessionTestCatalog(), &mockSink{},
			ScannerOptions{Attempts: 1, ReadTimeout: 100 * time.Millisecond, RetryDelay: time.Millisecond},
			fastSessionOptions(), nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			session.Run(ctx)
			close(done)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("session did not stop after cancellation")
		}

		assert.False(t, session.Snapshot().Connected)

		// One closing stats line on the way out.
		statsLines := 0
		for _, entry := range hook.AllEntries() {
			if strings.Contains(entry.Message, "polls ok") {
				statsLines++
			}
		}
		assert.Equal(t, 1, statsLines)
	})
}
