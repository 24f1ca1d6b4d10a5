package sinks

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumberbarons/sun2000-poller/internal/config"
	"github.com/lumberbarons/sun2000-poller/internal/file"
	"github.com/lumberbarons/sun2000-poller/internal/influx"
	"github.com/lumberbarons/sun2000-poller/internal/remotewrite"
	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

func baseConfiguration() config.PollerConfiguration {
	cfg := config.PollerConfiguration{}
	cfg.Inverter.Name = "garage"
	return cfg
}

func TestNewSink(t *testing.T) {
	t.Run("no sink enabled returns nop", func(t *testing.T) {
		cfg := baseConfiguration()

		sink, err := NewSink(&cfg)
		require.NoError(t, err)
		assert.IsType(t, telemetry.NopSink{}, sink)
	})

	t.Run("multiple sinks enabled is rejected", func(t *testing.T) {
		cfg := baseConfiguration()
		cfg.InfluxDB.Enabled = true
		cfg.File.Enabled = true

		_, err := NewSink(&cfg)
		require.Error(t, err)
	})

	t.Run("influxdb sink", func(t *testing.T) {
		cfg := baseConfiguration()
		cfg.InfluxDB.Enabled = true
		cfg.InfluxDB.URL = "http://localhost:8086"
		cfg.InfluxDB.Bucket = "solar"

		sink, err := NewSink(&cfg)
		require.NoError(t, err)
		assert.IsType(t, &influx.Sink{}, sink)
		sink.Close()
	})

	t.Run("remote write sink", func(t *testing.T) {
		cfg := baseConfiguration()
		cfg.RemoteWrite.Enabled = true
		cfg.RemoteWrite.URL = "http://localhost:9090/api/v1/write"

		sink, err := NewSink(&cfg)
		require.NoError(t, err)
		assert.IsType(t, &remotewrite.Sink{}, sink)
		sink.Close()
	})

	t.Run("file sink", func(t *testing.T) {
		cfg := baseConfiguration()
		cfg.File.Enabled = true
		cfg.File.Filename = filepath.Join(t.TempDir(), "telemetry.log")

		sink, err := NewSink(&cfg)
		require.NoError(t, err)
		assert.IsType(t, &file.Sink{}, sink)
		sink.Close()
	})
}
