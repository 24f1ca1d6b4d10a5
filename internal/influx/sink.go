package influx

import (
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	log "github.com/sirupsen/logrus"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

type Configuration struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// Sink writes records to InfluxDB through the non-blocking write API. Points
// are queued and batched by the client; write failures surface on the error
// channel and are logged.
type Sink struct {
	client       influxdb2.Client
	writeAPI     api.WriteAPI
	inverterName string
}

func NewSink(config *Configuration, inverterName string) (*Sink, error) {
	if !config.Enabled {
		log.Info("influxdb sink disabled via configuration")
		return &Sink{}, nil
	}

	if config.URL == "" || config.Bucket == "" {
		return nil, fmt.Errorf("influxdb enabled but url or bucket missing")
	}

	client := influxdb2.NewClient(config.URL, config.Token)
	writeAPI := client.WriteAPI(config.Org, config.Bucket)

	go func() {
		for err := range writeAPI.Errors() {
			log.Errorf("influxdb write failed: %s", err)
		}
	}()

	log.Infof("influxdb sink initialized: %s bucket %s", config.URL, config.Bucket)

	return &Sink{
		client:       client,
		writeAPI:     writeAPI,
		inverterName: inverterName,
	}, nil
}

func (s *Sink) Write(record telemetry.Record) {
	if s.writeAPI == nil {
		return
	}

	point := influxdb2.NewPointWithMeasurement(record.Measurement).
		AddTag("inverter", s.inverterName).
		AddField("value", record.Value).
		SetTime(record.Time)

	if record.ParamCount > 0 {
		point.AddField("param_count", record.ParamCount)
	}

	s.writeAPI.WritePoint(point)
}

func (s *Sink) Close() {
	if s.client != nil {
		s.writeAPI.Flush()
		s.client.Close()
	}
}
