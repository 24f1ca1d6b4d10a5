package inverter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.NotEmpty(t, catalog)

	byName := map[string][]Parameter{}
	for _, block := range catalog {
		for _, p := range block.Parameters {
			byName[p.Name] = append(byName[p.Name], p)
		}
	}

	t.Run("identity parameters", func(t *testing.T) {
		require.Len(t, byName["model_name"], 1)
		p := byName["model_name"][0]
		assert.Equal(t, Text, p.Kind)
		assert.Equal(t, uint16(30000), p.Address)
		assert.Equal(t, uint16(15), p.Length)
		assert.True(t, p.InitialRead)

		require.Len(t, byName["rated_power"], 1)
		assert.Equal(t, Uint32, byName["rated_power"][0].Kind)
		assert.True(t, byName["rated_power"][0].InitialRead)
	})

	t.Run("pv string parameters are generated", func(t *testing.T) {
		require.Len(t, byName["pv_01_voltage"], 1)
		require.Len(t, byName["pv_04_current"], 1)
		assert.Equal(t, uint16(32016), byName["pv_01_voltage"][0].Address)
		assert.Equal(t, uint16(10), byName["pv_01_voltage"][0].Gain)
		assert.Equal(t, uint16(32023), byName["pv_04_current"][0].Address)
		assert.Equal(t, uint16(100), byName["pv_04_current"][0].Gain)
	})

	t.Run("optimizer count is not persisted", func(t *testing.T) {
		require.Len(t, byName["nb_optimizers"], 1)
		assert.False(t, byName["nb_optimizers"][0].Persist)
		require.Len(t, byName["nb_online_optimizers"], 1)
		assert.True(t, byName["nb_online_optimizers"][0].Persist)
	})

	t.Run("epoch parameters use 32 bit unsigned", func(t *testing.T) {
		for _, name := range []string{"startup_time", "shutdown_time", "system_time", "unknown_time_1"} {
			require.Len(t, byName[name], 1, name)
			assert.Equal(t, Uint32, byName[name][0].Kind, name)
			assert.Equal(t, unitEpoch, byName[name][0].Unit, name)
		}
	})

	t.Run("blocks never exceed the modbus read limit", func(t *testing.T) {
		for _, block := range catalog {
			assert.LessOrEqual(t, block.Length, uint16(125), "block %d", block.Address)
		}
	})

	t.Run("initial read covers the nameplate", func(t *testing.T) {
		assert.Equal(t, 8, catalog.ExpectedCount(true))
	})
}
