package remotewrite

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/snappy"
	"github.com/prometheus/prometheus/prompb"
	log "github.com/sirupsen/logrus"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

const (
	metricPrefix = "sun2000"

	// flushSize keeps batches roughly one scan in size.
	flushSize    = 64
	batchTimeout = 5 * time.Second
)

// Sink batches numeric records and ships them to a Prometheus remote_write
// endpoint. Text records have no sample representation and are dropped.
type Sink struct {
	config       *Configuration
	httpClient   *http.Client
	inverterName string

	mu        sync.Mutex
	batch     []sample
	lastFlush time.Time
}

type sample struct {
	metricName string
	value      float64
	timestamp  int64
}

func NewSink(config *Configuration, inverterName string) (*Sink, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid remote_write configuration: %w", err)
	}

	if !config.Enabled {
		log.Info("remote_write sink disabled via configuration")
		return &Sink{}, nil
	}

	log.Infof("remote_write sink initialized: %s", config.URL)

	return &Sink{
		config:       config,
		httpClient:   &http.Client{Timeout: config.GetTimeout()},
		inverterName: inverterName,
		batch:        make([]sample, 0, flushSize),
		lastFlush:    time.Now(),
	}, nil
}

func (s *Sink) Write(record telemetry.Record) {
	if s.httpClient == nil {
		return
	}

	var value float64
	switch v := record.Value.(type) {
	case float64:
		value = v
	case int64:
		value = float64(v)
	default:
		log.Debugf("remote_write dropping non-numeric record %s", record.Measurement)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.batch = append(s.batch, sample{
		metricName: fmt.Sprintf("%s_%s", metricPrefix, record.Measurement),
		value:      value,
		timestamp:  record.Time.UnixMilli(),
	})

	if len(s.batch) >= flushSize || time.Since(s.lastFlush) > batchTimeout {
		s.flush()
	}
}

// flush must be called with s.mu held.
func (s *Sink) flush() {
	if len(s.batch) == 0 {
		return
	}

	writeRequest := &prompb.WriteRequest{
		Timeseries: s.toTimeSeries(s.batch),
	}

	data, err := writeRequest.Marshal()
	if err != nil {
		log.Errorf("failed to marshal remote_write request: %s", err)
		s.batch = s.batch[:0]
		return
	}

	compressed := snappy.Encode(nil, data)

	if err := s.send(compressed); err != nil {
		log.Errorf("remote_write of %d samples failed: %s", len(s.batch), err)
	}

	s.batch = s.batch[:0]
	s.lastFlush = time.Now()
}

func (s *Sink) toTimeSeries(samples []sample) []prompb.TimeSeries {
	seriesByName := make(map[string]*prompb.TimeSeries)

	for _, sm := range samples {
		ts, exists := seriesByName[sm.metricName]
		if !exists {
			ts = &prompb.TimeSeries{
				Labels: []prompb.Label{
					{Name: "__name__", Value: sm.metricName},
					{Name: "inverter", Value: s.inverterName},
				},
			}
			seriesByName[sm.metricName] = ts
		}
		ts.Samples = append(ts.Samples, prompb.Sample{
			Value:     sm.value,
			Timestamp: sm.timestamp,
		})
	}

	result := make([]prompb.TimeSeries, 0, len(seriesByName))
	for _, ts := range seriesByName {
		result = append(result, *ts)
	}
	return result
}

func (s *Sink) send(compressed []byte) error {
	req, err := http.NewRequest(http.MethodPost, s.config.URL, bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-protobuf")
	req.Header.Set("Content-Encoding", "snappy")
	req.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")
	req.Header.Set("User-Agent", "sun2000-poller/1.0")

	if s.config.BasicAuth != nil {
		req.SetBasicAuth(s.config.BasicAuth.Username, s.config.BasicAuth.Password)
	} else if s.config.BearerToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.config.BearerToken))
	}

	for k, v := range s.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body) // nolint:errcheck // Body is only used for error logging

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote write failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Close flushes any buffered samples.
func (s *Sink) Close() {
	if s.httpClient == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.flush()
}
