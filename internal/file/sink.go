package file

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

type Configuration struct {
	Enabled    bool   `yaml:"enabled"`
	Filename   string `yaml:"filename"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

type line struct {
	Time        string      `json:"time"`
	Measurement string      `json:"measurement"`
	Value       interface{} `json:"value"`
	ParamCount  int         `json:"paramCount,omitempty"`
}

// Sink appends one JSON line per record to a size-rotated file.
type Sink struct {
	logger *lumberjack.Logger
	config Configuration
}

func NewSink(config *Configuration) (*Sink, error) {
	if !config.Enabled {
		log.Info("file sink disabled via configuration")
		return &Sink{}, nil
	}

	if config.Filename == "" {
		log.Warn("file sink enabled but no filename provided, sink disabled")
		return &Sink{}, nil
	}

	maxSize := config.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}

	maxBackups := config.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 10
	}

	logger := &lumberjack.Logger{
		Filename:   config.Filename,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   config.Compress,
		LocalTime:  true,
	}

	log.Infof("file sink initialized: %s (maxSize: %dMB, maxBackups: %d, compress: %t)",
		config.Filename, maxSize, maxBackups, config.Compress)

	return &Sink{logger: logger, config: *config}, nil
}

func (s *Sink) Write(record telemetry.Record) {
	if s.logger == nil {
		return
	}

	body, err := json.Marshal(line{
		Time:        record.Time.Format(time.RFC3339),
		Measurement: record.Measurement,
		Value:       record.Value,
		ParamCount:  record.ParamCount,
	})
	if err != nil {
		log.Errorf("failed to marshal record for %s: %v", record.Measurement, err)
		return
	}

	if _, err := s.logger.Write(append(body, '\n')); err != nil {
		log.Errorf("failed to write to file: %v", err)
	}
}

func (s *Sink) Close() {
	if s.logger != nil {
		if err := s.logger.Close(); err != nil {
			log.Errorf("failed to close file: %v", err)
		}
	}
}
