package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

type Configuration struct {
	Enabled     bool   `yaml:"enabled"`
	Host        string `yaml:"host"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topicPrefix"`
}

type payload struct {
	Value      interface{} `json:"value"`
	Time       string      `json:"time"`
	ParamCount int         `json:"paramCount,omitempty"`
}

// Sink publishes each record as a JSON payload under
// <topicPrefix>/<measurement>.
type Sink struct {
	client mqtt.Client
	config Configuration
}

func NewSink(config *Configuration) (*Sink, error) {
	if !config.Enabled {
		log.Info("mqtt sink disabled via configuration")
		return &Sink{}, nil
	}

	if config.Host == "" {
		log.Warn("mqtt enabled but no host provided, sink disabled")
		return &Sink{}, nil
	}

	mqtt.ERROR = log.New()

	opts := mqtt.NewClientOptions().
		AddBroker(config.Host).
		SetUsername(config.Username).
		SetPassword(config.Password).
		SetKeepAlive(2 * time.Second).
		SetPingTimeout(1 * time.Second)

	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", token.Error())
	}

	log.Infof("connected to broker %s", config.Host)

	return &Sink{client: client, config: *config}, nil
}

func (s *Sink) Write(record telemetry.Record) {
	if s.client == nil {
		return
	}

	topic := fmt.Sprintf("%s/%s", s.config.TopicPrefix, record.Measurement)

	body, err := json.Marshal(payload{
		Value:      record.Value,
		Time:       record.Time.Format(time.RFC3339),
		ParamCount: record.ParamCount,
	})
	if err != nil {
		log.Errorf("failed to marshal record for %s: %s", topic, err)
		return
	}

	token := s.client.Publish(topic, 0, false, body)
	if !token.WaitTimeout(5 * time.Second) {
		log.Errorf("timeout publishing to %s", topic)
	} else if token.Error() != nil {
		log.Errorf("failed to publish to %s: %s", topic, token.Error())
	}
}

func (s *Sink) Close() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
}
