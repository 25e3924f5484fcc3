package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/san-kum/powersim/internal/logger"
	"github.com/san-kum/powersim/internal/sim"
)

// MQTTSink publishes each tick snapshot as JSON on a fixed topic.
type MQTTSink struct {
	client mqtt.Client
	topic  string
	qos    byte
	log    logger.Logger
}

// NewMQTTSink connects to the broker and returns a publishing sink.
func NewMQTTSink(cfg MQTTConfig) (*MQTTSink, error) {
	s := &MQTTSink{
		topic: cfg.Topic,
		qos:   cfg.QoS,
		log:   logger.New("mqtt-sink"),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectionLostHandler(s.onConnectionLost)
	opts.SetOnConnectHandler(s.onConnect)

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return s, nil
}

// Record publishes the snapshot and waits for broker acknowledgment.
func (s *MQTTSink) Record(snap sim.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, s.qos, false, payload)
	token.Wait()
	return token.Error()
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}

func (s *MQTTSink) onConnect(mqtt.Client) {
	s.log.Infof("connected, publishing on %s", s.topic)
}

func (s *MQTTSink) onConnectionLost(_ mqtt.Client, err error) {
	s.log.Errorf("connection lost: %v", err)
}
