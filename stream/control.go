package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/eclipse/paho.mqtt.golang"
)

var (
	// ErrUnknownCommand is returned for a control message with an unknown type.
	ErrUnknownCommand = errors.New("unknown control command")
	// ErrNotPlayable is returned when the active animation has no playback controls.
	ErrNotPlayable = errors.New("active animation is not playable")
)

// ControlMessage is a JSON command received on the control topic, e.g.
// {"type": "seek", "positionMs": 10000}.
type ControlMessage struct {
	Type       string  `json:"type"`
	PositionMs float64 `json:"positionMs,omitempty"`
	Frame      int     `json:"frame,omitempty"`
	Repeat     bool    `json:"repeat,omitempty"`
}

// Playable is the playback surface control messages drive.
type Playable interface {
	Seek(positionMs float64)
	GotoFrame(index int)
	Play()
	Stop()
	Restart()
	SetRepeat(repeat bool)
}

// Control applies control messages to the Controller's active animation.
type Control struct {
	controller *Controller
	client     mqtt.Client
	topic      string
}

// NewControl creates a Control listening on the configured control topic.
func NewControl(config Config, client mqtt.Client, controller *Controller) *Control {
	c := new(Control)
	c.controller = controller
	c.client = client
	c.topic = config.Mqtt.Topics.Control
	return c
}

// Apply decodes and executes a single control message.
func (c *Control) Apply(payload []byte) error {
	var message ControlMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		return fmt.Errorf("decode control message: %w", err)
	}

	if message.Type == "next" {
		c.controller.Rotate()
		return nil
	}

	p, ok := c.controller.Active().(Playable)
	if !ok {
		return ErrNotPlayable
	}

	switch message.Type {
	case "seek":
		p.Seek(message.PositionMs)
	case "goto":
		p.GotoFrame(message.Frame)
	case "play":
		p.Play()
	case "stop":
		p.Stop()
	case "restart":
		p.Restart()
	case "repeat":
		p.SetRepeat(message.Repeat)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, message.Type)
	}
	return nil
}

func (c *Control) handleClientMessages(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received msg %d on %s: %s\n", msg.MessageID(), msg.Topic(), msg.Payload())
	if err := c.Apply(msg.Payload()); err != nil {
		log.Printf("Control message rejected: %v", err)
	}
}

// Subscribe starts listening for control messages. It does nothing when no
// control topic is configured.
func (c *Control) Subscribe() error {
	if c.topic == "" {
		return nil
	}
	token := c.client.Subscribe(c.topic, 0, c.handleClientMessages)
	token.Wait()
	return token.Error()
}
