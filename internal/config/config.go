package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lumberbarons/sun2000-poller/internal/file"
	"github.com/lumberbarons/sun2000-poller/internal/influx"
	"github.com/lumberbarons/sun2000-poller/internal/mqtt"
	"github.com/lumberbarons/sun2000-poller/internal/remotewrite"
)

const defaultModbusPort = 502

type Config struct {
	InverterPoller PollerConfiguration `yaml:"inverterPoller"`
}

type PollerConfiguration struct {
	HTTPPort int    `yaml:"httpPort"`
	Debug    bool   `yaml:"debug"`
	LogFile  string `yaml:"logFile"`

	Inverter InverterConfiguration `yaml:"inverter"`

	InfluxDB    influx.Configuration      `yaml:"influxdb"`
	Mqtt        mqtt.Configuration        `yaml:"mqtt"`
	RemoteWrite remotewrite.Configuration `yaml:"remoteWrite"`
	File        file.Configuration        `yaml:"file"`
}

type InverterConfiguration struct {
	Name string `yaml:"name"`
	Host string `yaml:"host"`

	// DongleConnection selects Modbus unit 1 for inverters reached through
	// the vendor WiFi/LTE dongle; direct LAN attachments use unit 0.
	DongleConnection bool `yaml:"dongleConnection"`

	// PartialReads reads registers one parameter at a time for dongle
	// firmwares that reject long block reads.
	PartialReads bool `yaml:"partialReads"`

	PollIntervalSecs   int `yaml:"pollIntervalSecs"`
	StatsIntervalSecs  int `yaml:"statsIntervalSecs"`
	ReadTimeoutSecs    int `yaml:"readTimeoutSecs"`
	ConnectTimeoutSecs int `yaml:"connectTimeoutSecs"`
	ReconnectDelaySecs int `yaml:"reconnectDelaySecs"`
}

// Load parses and validates configuration from YAML bytes.
// This is a pure function for testing - it doesn't read files or exit the process.
func Load(data []byte) (Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyDefaults sets default values for optional configuration fields
func (c *Config) applyDefaults() {
	p := &c.InverterPoller

	if p.HTTPPort == 0 {
		p.HTTPPort = 8080
	}

	if p.Inverter.Name == "" {
		p.Inverter.Name = "inverter"
	}

	if p.Inverter.Host != "" && !strings.Contains(p.Inverter.Host, ":") {
		p.Inverter.Host = fmt.Sprintf("%s:%d", p.Inverter.Host, defaultModbusPort)
	}

	if p.Inverter.PollIntervalSecs == 0 {
		p.Inverter.PollIntervalSecs = 2
	}
	if p.Inverter.StatsIntervalSecs == 0 {
		p.Inverter.StatsIntervalSecs = 3600
	}
	if p.Inverter.ReadTimeoutSecs == 0 {
		p.Inverter.ReadTimeoutSecs = 5
	}
	if p.Inverter.ConnectTimeoutSecs == 0 {
		p.Inverter.ConnectTimeoutSecs = 5
	}
	if p.Inverter.ReconnectDelaySecs == 0 {
		p.Inverter.ReconnectDelaySecs = 2
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	p := &c.InverterPoller

	if p.HTTPPort <= 0 || p.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d (must be 1-65535)", p.HTTPPort)
	}

	if p.Inverter.Host == "" {
		return fmt.Errorf("inverter host is required")
	}

	if p.Inverter.PollIntervalSecs < 0 || p.Inverter.StatsIntervalSecs < 0 ||
		p.Inverter.ReadTimeoutSecs < 0 || p.Inverter.ConnectTimeoutSecs < 0 ||
		p.Inverter.ReconnectDelaySecs < 0 {
		return fmt.Errorf("inverter intervals must be positive")
	}

	// Sinks are mutually exclusive
	enabledCount := 0
	if p.InfluxDB.Enabled {
		enabledCount++
	}
	if p.Mqtt.Enabled {
		enabledCount++
	}
	if p.RemoteWrite.Enabled {
		enabledCount++
	}
	if p.File.Enabled {
		enabledCount++
	}
	if enabledCount > 1 {
		return fmt.Errorf("only one sink can be enabled at a time (influxdb, mqtt, remoteWrite or file)")
	}

	if p.InfluxDB.Enabled {
		if p.InfluxDB.URL == "" {
			return fmt.Errorf("influxdb url is required when influxdb is enabled")
		}
		if p.InfluxDB.Bucket == "" {
			return fmt.Errorf("influxdb bucket is required when influxdb is enabled")
		}
	}

	if p.Mqtt.Enabled && p.Mqtt.Host == "" {
		return fmt.Errorf("MQTT host is required when MQTT is enabled")
	}

	if err := p.RemoteWrite.Validate(); err != nil {
		return err
	}

	if p.File.Enabled && p.File.Filename == "" {
		return fmt.Errorf("file filename is required when file sink is enabled")
	}

	return nil
}
