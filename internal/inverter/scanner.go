package inverter

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	log "github.com/sirupsen/logrus"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

// RegisterReader is the slice of the transport the scanner needs.
type RegisterReader interface {
	ReadHoldingRegisters(ctx context.Context, address, quantity uint16) ([]byte, error)
}

const (
	defaultReadAttempts = 3
	defaultReadTimeout  = 5 * time.Second
	defaultRetryDelay   = 1 * time.Second
	defaultLagThreshold = 3500 * time.Millisecond

	summaryMeasurement = "inverter_query_time"
)

// ScannerOptions tune the read strategy. Zero values take defaults.
type ScannerOptions struct {
	// PartialReads issues one request per parameter instead of one per
	// block. Slower, but some dongle firmwares reject long block reads.
	PartialReads bool
	Attempts     uint
	ReadTimeout  time.Duration
	RetryDelay   time.Duration
	LagThreshold time.Duration
}

func (o ScannerOptions) withDefaults() ScannerOptions {
	if o.Attempts == 0 {
		o.Attempts = defaultReadAttempts
	}
	if o.ReadTimeout == 0 {
		o.ReadTimeout = defaultReadTimeout
	}
	if o.RetryDelay == 0 {
		o.RetryDelay = defaultRetryDelay
	}
	if o.LagThreshold == 0 {
		o.LagThreshold = defaultLagThreshold
	}
	return o
}

// ScanResult is the outcome of one pass over the catalog. SessionLost means
// the scan aborted early on a connection-level failure and the caller must
// reconnect before scanning again.
type ScanResult struct {
	Readings    []Reading
	Duration    time.Duration
	SessionLost bool
}

// Scanner walks the register catalog over a connected transport, decodes the
// selected parameters and forwards persisted steady-state values to the sink
// as they arrive.
type Scanner struct {
	name    string
	catalog Catalog
	reader  RegisterReader
	sink    telemetry.Sink
	opts    ScannerOptions
}

func NewScanner(name string, catalog Catalog, reader RegisterReader, sink telemetry.Sink, opts ScannerOptions) *Scanner {
	return &Scanner{
		name:    name,
		catalog: catalog,
		reader:  reader,
		sink:    sink,
		opts:    opts.withDefaults(),
	}
}

// Scan performs one pass over the catalog. During the initial read it fetches
// only identity parameters and forwards nothing per parameter. In steady
// state it fetches the persisted and fault-indicating parameters and forwards
// each persisted value immediately. Every completed scan closes with a
// summary record. A unit that keeps failing with transient errors is skipped;
// a session-fatal error aborts the remainder of the scan.
func (s *Scanner) Scan(ctx context.Context, initialRead bool) ScanResult {
	start := time.Now()
	result := ScanResult{}

	for _, block := range s.catalog {
		if ctx.Err() != nil {
			break
		}

		selected := selectedParameters(block, initialRead)
		if len(selected) == 0 {
			continue
		}

		var lost bool
		if s.opts.PartialReads {
			result.Readings, lost = s.scanPartial(ctx, selected, initialRead, result.Readings)
		} else {
			result.Readings, lost = s.scanBlock(ctx, block, selected, initialRead, result.Readings)
		}
		if lost {
			result.SessionLost = true
			break
		}
	}

	result.Duration = time.Since(start)

	if !result.SessionLost && ctx.Err() == nil {
		s.sink.Write(telemetry.Record{
			Measurement: summaryMeasurement,
			Time:        time.Now(),
			Value:       result.Duration.Milliseconds(),
			ParamCount:  len(result.Readings),
		})
	}

	return result
}

func selectedParameters(block Block, initialRead bool) []Parameter {
	var selected []Parameter
	for _, p := range block.Parameters {
		if p.SelectedFor(initialRead) {
			selected = append(selected, p)
		}
	}
	return selected
}

// scanBlock reads the whole block in one request and slices each parameter
// out by its register offset, so parameters filtered from this phase never
// shift the ones that follow them.
func (s *Scanner) scanBlock(ctx context.Context, block Block, selected []Parameter, initialRead bool, readings []Reading) ([]Reading, bool) {
	words, err := s.readUnit(ctx, block.Address, block.Length)
	if err != nil {
		if isSessionFatal(err) {
			log.Errorf("%s: block %d read failed, session lost: %s", s.name, block.Address, err)
			return readings, true
		}
		log.Errorf("%s: block %d read failed, skipping: %s", s.name, block.Address, err)
		return readings, false
	}

	// A short response is malformed, not fatal: skip the block and let the
	// scan-level count check decide whether the session is degraded.
	if len(words) != int(block.Length) {
		log.Errorf("%s: block %d returned %d of %d registers, skipping", s.name, block.Address, len(words), block.Length)
		return readings, false
	}

	for _, p := range selected {
		offset := p.Address - block.Address
		value, err := DecodeValue(p, words[offset:offset+p.Length])
		if err != nil {
			log.Errorf("%s: decoding %s failed: %s", s.name, p.Name, err)
			continue
		}
		readings = s.record(Reading{Parameter: p, Value: value}, initialRead, readings)
	}

	return readings, false
}

func (s *Scanner) scanPartial(ctx context.Context, selected []Parameter, initialRead bool, readings []Reading) ([]Reading, bool) {
	for _, p := range selected {
		if ctx.Err() != nil {
			return readings, false
		}

		words, err := s.readUnit(ctx, p.Address, p.Length)
		if err != nil {
			if isSessionFatal(err) {
				log.Errorf("%s: reading %s failed, session lost: %s", s.name, p.Name, err)
				return readings, true
			}
			log.Errorf("%s: reading %s failed, skipping: %s", s.name, p.Name, err)
			continue
		}

		value, err := DecodeValue(p, words)
		if err != nil {
			log.Errorf("%s: decoding %s failed: %s", s.name, p.Name, err)
			continue
		}
		readings = s.record(Reading{Parameter: p, Value: value}, initialRead, readings)
	}

	return readings, false
}

func (s *Scanner) record(r Reading, initialRead bool, readings []Reading) []Reading {
	readings = append(readings, r)

	if !initialRead && r.Persist {
		if v := r.SinkValue(); v != nil {
			s.sink.Write(telemetry.Record{
				Measurement: r.Name,
				Time:        time.Now(),
				Value:       v,
			})
		}
	}

	return readings
}

// readUnit fetches one read unit, a block or a single parameter, with bounded
// retries. Session-fatal errors short-circuit the retry loop.
func (s *Scanner) readUnit(ctx context.Context, address, quantity uint16) ([]uint16, error) {
	var data []byte

	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
			defer cancel()

			attemptStart := time.Now()
			var readErr error
			data, readErr = s.reader.ReadHoldingRegisters(attemptCtx, address, quantity)

			if lag := time.Since(attemptStart); lag > s.opts.LagThreshold {
				log.Warnf("%s: read of address %d took %s", s.name, address, lag)
			}

			return readErr
		},
		retry.Attempts(s.opts.Attempts),
		retry.Delay(s.opts.RetryDelay),
		retry.RetryIf(func(err error) bool {
			return !isSessionFatal(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("%s: read of address %d retry #%d: %s", s.name, address, n, err)
		}),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}

	return registerWords(data)
}
