package publisher

import (
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/loryanstrant/HA-CustomComponentMonitor/pkg/config"
)

const (
	connectTimeout   = 10 * time.Second
	publishTimeout   = 5 * time.Second
	disconnectQuiety = 250 // milliseconds for paho's disconnect quiesce
)

// Publisher pushes scan results to an MQTT broker as Home Assistant
// discovery sensors, so a monitor loop can feed a dashboard without any
// custom integration installed on the instance.
type Publisher struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig
}

// Connect dials the broker and announces availability. The last-will
// message flips the availability topic to offline if the process dies
// without a clean shutdown.
func Connect(cfg config.MQTTConfig) (*Publisher, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetWill(availabilityTopic(cfg), "offline", cfg.QoS, true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	p := &Publisher{cfg: cfg}
	p.client = pahomqtt.NewClient(opts)

	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect timeout after %v", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	if err := p.publish(availabilityTopic(cfg), "online", true); err != nil {
		_ = p.Close()
		return nil, err
	}

	slog.Debug("connected to mqtt broker", slog.String("broker", cfg.Broker))
	return p, nil
}

// Close announces a graceful offline status and disconnects.
func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	if p.client.IsConnected() {
		token := p.client.Publish(availabilityTopic(p.cfg), p.cfg.QoS, true, "offline")
		token.WaitTimeout(publishTimeout)
	}
	p.client.Disconnect(disconnectQuiety)
	return nil
}

// publish sends one payload and waits for broker acknowledgement.
func (p *Publisher) publish(topic string, payload any, retained bool) error {
	token := p.client.Publish(topic, p.cfg.QoS, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish timeout on %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", topic, err)
	}
	return nil
}

func availabilityTopic(cfg config.MQTTConfig) string {
	return cfg.TopicPrefix + "/status"
}
