package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

func TestSinkWrite(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "telemetry.log")

	sink, err := NewSink(&Configuration{Enabled: true, Filename: filename})
	require.NoError(t, err)

	when := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	sink.Write(telemetry.Record{Measurement: "active_power", Time: when, Value: int64(4200)})
	sink.Write(telemetry.Record{Measurement: "grid_frequency", Time: when, Value: 50.02})
	sink.Write(telemetry.Record{Measurement: "inverter_query_time", Time: when, Value: int64(150), ParamCount: 42})
	sink.Close()

	data, err := os.ReadFile(filename)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "active_power", first["measurement"])
	assert.Equal(t, float64(4200), first["value"])
	assert.NotContains(t, first, "paramCount")

	var third map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))
	assert.Equal(t, float64(42), third["paramCount"])
}

func TestSinkDisabled(t *testing.T) {
	sink, err := NewSink(&Configuration{Enabled: false})
	require.NoError(t, err)

	// Writes on a disabled sink are dropped without error.
	sink.Write(telemetry.Record{Measurement: "active_power", Time: time.Now(), Value: int64(1)})
	sink.Close()
}

func TestSinkEnabledWithoutFilename(t *testing.T) {
	sink, err := NewSink(&Configuration{Enabled: true})
	require.NoError(t, err)

	sink.Write(telemetry.Record{Measurement: "active_power", Time: time.Now(), Value: int64(1)})
	sink.Close()
}
