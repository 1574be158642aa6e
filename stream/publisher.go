package stream

import (
	"fmt"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
)

// A Publisher delivers a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MQTTPublisher publishes through an MQTT client and waits for delivery.
type MQTTPublisher struct {
	client  mqtt.Client
	qos     byte
	timeout time.Duration
}

// NewMQTTPublisher creates a Publisher for client using QoS 2.
func NewMQTTPublisher(client mqtt.Client) *MQTTPublisher {
	p := new(MQTTPublisher)
	p.client = client
	p.qos = 2
	p.timeout = 5 * time.Second
	return p
}

// Publish sends payload and blocks until the broker acknowledges it.
func (p *MQTTPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish to %s: timed out after %v", topic, p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
