package sinks

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/lumberbarons/sun2000-poller/internal/config"
	"github.com/lumberbarons/sun2000-poller/internal/file"
	"github.com/lumberbarons/sun2000-poller/internal/influx"
	"github.com/lumberbarons/sun2000-poller/internal/mqtt"
	"github.com/lumberbarons/sun2000-poller/internal/remotewrite"
	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

// NewSink creates the telemetry sink selected by the configuration. Sinks are
// mutually exclusive; with none enabled a no-op sink is returned so the
// session can run for its HTTP surface alone.
func NewSink(cfg *config.PollerConfiguration) (telemetry.Sink, error) {
	enabledCount := 0
	if cfg.InfluxDB.Enabled {
		enabledCount++
	}
	if cfg.Mqtt.Enabled {
		enabledCount++
	}
	if cfg.RemoteWrite.Enabled {
		enabledCount++
	}
	if cfg.File.Enabled {
		enabledCount++
	}

	if enabledCount > 1 {
		return nil, fmt.Errorf("multiple sinks are enabled - only one sink can be active")
	}

	if cfg.InfluxDB.Enabled {
		log.Info("creating influxdb sink")
		return influx.NewSink(&cfg.InfluxDB, cfg.Inverter.Name)
	}

	if cfg.Mqtt.Enabled {
		log.Info("creating mqtt sink")
		return mqtt.NewSink(&cfg.Mqtt)
	}

	if cfg.RemoteWrite.Enabled {
		log.Info("creating remote_write sink")
		return remotewrite.NewSink(&cfg.RemoteWrite, cfg.Inverter.Name)
	}

	if cfg.File.Enabled {
		log.Info("creating file sink")
		return file.NewSink(&cfg.File)
	}

	log.Info("no telemetry sink enabled")
	return telemetry.NopSink{}, nil
}
