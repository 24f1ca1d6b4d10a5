package inverter

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

const (
	defaultSettleDelay    = 2 * time.Second
	defaultPollInterval   = 2 * time.Second
	defaultStatsInterval  = time.Hour
	defaultReconnectDelay = 2 * time.Second
	defaultIdleSleep      = 30 * time.Millisecond
)

// SessionOptions tune the polling cadence. Zero values take defaults.
type SessionOptions struct {
	SettleDelay    time.Duration
	PollInterval   time.Duration
	StatsInterval  time.Duration
	ReconnectDelay time.Duration
	IdleSleep      time.Duration
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.SettleDelay == 0 {
		o.SettleDelay = defaultSettleDelay
	}
	if o.PollInterval == 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.StatsInterval == 0 {
		o.StatsInterval = defaultStatsInterval
	}
	if o.ReconnectDelay == 0 {
		o.ReconnectDelay = defaultReconnectDelay
	}
	if o.IdleSleep == 0 {
		o.IdleSleep = defaultIdleSleep
	}
	return o
}

// Identity holds the nameplate parameters captured during the initial read.
type Identity struct {
	ModelName     string `json:"modelName"`
	SerialNumber  string `json:"serialNumber"`
	ProductNumber string `json:"productNumber"`
	RatedPowerW   int64  `json:"ratedPower"`
}

// Snapshot is the externally visible session state, served over HTTP.
type Snapshot struct {
	Connected      bool     `json:"connected"`
	Identity       Identity `json:"identity"`
	PollOk         uint64   `json:"pollOk"`
	PollErrors     uint64   `json:"pollErrors"`
	DailyYieldKwh  float64  `json:"dailyYieldKwh"`
	LastScanMillis int64    `json:"lastScanMillis"`
}

// Session owns the connect/discover/poll loop for one inverter. It reconnects
// forever until the context is cancelled.
type Session struct {
	name        string
	dial        Dialer
	catalog     Catalog
	sink        telemetry.Sink
	scannerOpts ScannerOptions
	opts        SessionOptions
	metrics     MetricsCollector

	mu       sync.RWMutex
	snapshot Snapshot
}

func NewSession(name string, dial Dialer, catalog Catalog, sink telemetry.Sink,
	scannerOpts ScannerOptions, opts SessionOptions, metrics MetricsCollector) *Session {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Session{
		name:        name,
		dial:        dial,
		catalog:     catalog,
		sink:        sink,
		scannerOpts: scannerOpts,
		opts:        opts.withDefaults(),
		metrics:     metrics,
	}
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Run drives the session until ctx is cancelled. Every connection loss or
// incomplete scan tears the transport down and starts over from connect. A
// closing stats line is logged on the way out.
func (s *Session) Run(ctx context.Context) {
	for ctx.Err() == nil {
		transport := s.connect(ctx)
		if transport == nil {
			break
		}

		s.runSession(ctx, transport)

		if err := transport.Close(); err != nil {
			log.Warnf("%s: closing transport: %s", s.name, err)
		}
		s.update(func(snap *Snapshot) { snap.Connected = false })

		if ctx.Err() == nil {
			log.Infof("%s: reconnecting in %s", s.name, s.opts.ReconnectDelay)
			sleepCtx(ctx, s.opts.ReconnectDelay)
		}
	}

	s.logStats()
}

// connect dials until it succeeds or the context is cancelled.
func (s *Session) connect(ctx context.Context) Transport {
	for ctx.Err() == nil {
		transport, err := s.dial(ctx)
		if err == nil {
			log.Infof("%s: connected", s.name)
			s.update(func(snap *Snapshot) { snap.Connected = true })
			return transport
		}

		log.Errorf("%s: connect failed, retrying in %s: %s", s.name, s.opts.ReconnectDelay, err)
		sleepCtx(ctx, s.opts.ReconnectDelay)
	}
	return nil
}

// runSession runs one connected session: settle, initial read, then poll
// until the session degrades or ctx is cancelled.
func (s *Session) runSession(ctx context.Context, transport Transport) {
	// Some dongles accept the TCP connection before the Modbus bridge is
	// ready and drop the first requests.
	sleepCtx(ctx, s.opts.SettleDelay)
	if ctx.Err() != nil {
		return
	}

	scanner := NewScanner(s.name, s.catalog, transport, s.sink, s.scannerOpts)

	initial := scanner.Scan(ctx, true)
	if initial.SessionLost || ctx.Err() != nil {
		return
	}
	if expected := s.catalog.ExpectedCount(true); len(initial.Readings) != expected {
		log.Errorf("%s: initial read returned %d of %d parameters", s.name, len(initial.Readings), expected)
		return
	}

	s.captureIdentity(initial.Readings)
	s.logDeviceDescription(ctx, transport)

	expected := s.catalog.ExpectedCount(false)
	nextPoll := time.Now()
	nextStats := time.Now().Add(s.opts.StatsInterval)

	for ctx.Err() == nil {
		now := time.Now()

		if !now.Before(nextPoll) {
			if !s.poll(ctx, scanner, expected) {
				return
			}
			nextPoll = time.Now().Add(s.opts.PollInterval)
		}

		if !now.Before(nextStats) {
			s.logStats()
			nextStats = now.Add(s.opts.StatsInterval)
		}

		sleepCtx(ctx, s.opts.IdleSleep)
	}
}

// poll runs one steady-state scan. Returns false when the session must be
// torn down.
func (s *Session) poll(ctx context.Context, scanner *Scanner, expected int) bool {
	result := scanner.Scan(ctx, false)
	if ctx.Err() != nil {
		return false
	}

	if result.SessionLost {
		s.metrics.IncrementPollErrors()
		s.update(func(snap *Snapshot) { snap.PollErrors++ })
		return false
	}

	if len(result.Readings) != expected {
		log.Errorf("%s: scan returned %d of %d parameters, reconnecting", s.name, len(result.Readings), expected)
		s.metrics.IncrementPollErrors()
		s.update(func(snap *Snapshot) { snap.PollErrors++ })
		return false
	}

	s.metrics.IncrementPollOk()
	s.metrics.ObserveScanDuration(result.Duration)

	dailyYield, haveYield := dailyYieldKwh(result.Readings)
	if haveYield {
		s.metrics.SetDailyYield(dailyYield)
	}

	s.update(func(snap *Snapshot) {
		snap.PollOk++
		snap.LastScanMillis = result.Duration.Milliseconds()
		if haveYield {
			snap.DailyYieldKwh = dailyYield
		}
	})

	return true
}

func (s *Session) captureIdentity(readings []Reading) {
	var identity Identity
	for _, r := range readings {
		switch r.Name {
		case "model_name":
			identity.ModelName = r.Value.Str
		case "serial_number":
			identity.SerialNumber = r.Value.Str
		case "product_number":
			identity.ProductNumber = r.Value.Str
		case "rated_power":
			identity.RatedPowerW = r.Value.Number
		}
	}

	log.Infof("%s: model %s, serial %s, product %s, rated power %d W",
		s.name, identity.ModelName, identity.SerialNumber, identity.ProductNumber, identity.RatedPowerW)

	s.update(func(snap *Snapshot) { snap.Identity = identity })
}

// logDeviceDescription is best effort. Direct LAN attachments often reject
// the vendor function code.
func (s *Session) logDeviceDescription(ctx context.Context, transport Transport) {
	data, err := transport.ReadDeviceDescription(ctx)
	if err != nil {
		log.Warnf("%s: device description unavailable: %s", s.name, err)
		return
	}

	attributes, err := ParseDeviceDescription(data)
	if err != nil {
		log.Warnf("%s: device description unreadable: %s", s.name, err)
		return
	}

	for _, a := range attributes {
		log.Infof("%s: %s: %s", s.name, a.Name, a.Value)
	}
}

func (s *Session) logStats() {
	snap := s.Snapshot()
	log.Infof("%s: polls ok %d, errors %d, daily yield %.2f kWh",
		s.name, snap.PollOk, snap.PollErrors, snap.DailyYieldKwh)
}

func (s *Session) update(apply func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.snapshot)
}

func dailyYieldKwh(readings []Reading) (float64, bool) {
	for _, r := range readings {
		if r.Name == "daily_yield_energy" && r.Value.Present {
			return float64(r.Value.Number) / float64(r.Gain), true
		}
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
