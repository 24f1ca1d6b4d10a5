package inverter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadingDisplayValue(t *testing.T) {
	tests := []struct {
		name    string
		reading Reading
		want    string
	}{
		{
			"absent value",
			Reading{Parameter: param("startup_time", Uint32, "", "epoch", 1, 0, 2, false, true), Value: Value{Kind: Uint32}},
			"none",
		},
		{
			"text value",
			Reading{Parameter: param("model_name", Text, "", "", 1, 0, 15, true, true), Value: textValue("SUN2000-10KTL")},
			"SUN2000-10KTL",
		},
		{
			"gain scaled value",
			Reading{Parameter: param("pv_01_voltage", Int16, "", "V", 10, 0, 1, false, true), Value: numberValue(Int16, 1234)},
			"123.4",
		},
		{
			"gain scaled negative value",
			Reading{Parameter: param("internal_temperature", Int16, "", "°C", 10, 0, 1, false, true), Value: numberValue(Int16, -52)},
			"-5.2",
		},
		{
			"plain integer",
			Reading{Parameter: param("active_power", Int32, "", "W", 1, 0, 2, false, true), Value: numberValue(Int32, 10000)},
			"10000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reading.DisplayValue())
		})
	}

	t.Run("epoch timestamp renders seconds and local time", func(t *testing.T) {
		r := Reading{
			Parameter: param("system_time", Uint32, "", "epoch", 1, 0, 2, false, true),
			Value:     numberValue(Uint32, 1700000000),
		}
		got := r.DisplayValue()
		assert.Contains(t, got, "1700000000, ")
		assert.Contains(t, got, "2023")
	})
}

func TestReadingSinkValue(t *testing.T) {
	t.Run("absent value is nil", func(t *testing.T) {
		r := Reading{
			Parameter: param("startup_time", Uint32, "", "epoch", 1, 0, 2, false, true),
			Value:     Value{Kind: Uint32},
		}
		assert.Nil(t, r.SinkValue())
	})

	t.Run("text is string", func(t *testing.T) {
		r := Reading{
			Parameter: param("serial_number", Text, "", "", 1, 0, 10, true, true),
			Value:     textValue("HV1234567"),
		}
		assert.Equal(t, "HV1234567", r.SinkValue())
	})

	t.Run("gain scaled is float64", func(t *testing.T) {
		r := Reading{
			Parameter: param("grid_frequency", Uint16, "", "Hz", 100, 0, 1, false, true),
			Value:     numberValue(Uint16, 5002),
		}
		assert.Equal(t, 50.02, r.SinkValue())
	})

	t.Run("gain one is int64", func(t *testing.T) {
		r := Reading{
			Parameter: param("input_power", Int32, "", "W", 1, 0, 2, false, true),
			Value:     numberValue(Int32, -250),
		}
		assert.Equal(t, int64(-250), r.SinkValue())
	})
}
