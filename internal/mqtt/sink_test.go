package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

func TestSinkDisabled(t *testing.T) {
	sink, err := NewSink(&Configuration{Enabled: false})
	require.NoError(t, err)

	sink.Write(telemetry.Record{Measurement: "active_power", Time: time.Now(), Value: int64(1)})
	sink.Close()
}

func TestSinkEnabledWithoutHost(t *testing.T) {
	sink, err := NewSink(&Configuration{Enabled: true})
	require.NoError(t, err)

	sink.Write(telemetry.Record{Measurement: "active_power", Time: time.Now(), Value: int64(1)})
	sink.Close()
}
