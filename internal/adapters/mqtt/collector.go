// Package mqtt subscribes to a broker and feeds raw messages into the
// ingestion handler.
package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/Niewiaro/sensegrid/internal/ports"
)

// Config captures the runtime details required to open a broker session.
type Config struct {
	Broker    string        `yaml:"broker"`
	Port      int           `yaml:"port"`
	Topic     string        `yaml:"topic"`
	KeepAlive time.Duration `yaml:"keep_alive"`
	ClientID  string        `yaml:"client_id"`
	QoS       byte          `yaml:"qos"`
}

func (c *Config) ApplyDefaults() {
	if c.Broker == "" {
		c.Broker = "localhost"
	}
	if c.Port <= 0 {
		c.Port = 1883
	}
	if c.Topic == "" {
		c.Topic = "sensor/+"
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = 60 * time.Second
	}
	if c.ClientID == "" {
		// Random suffix so parallel instances never steal each other's
		// session on the broker.
		c.ClientID = "sensegrid-" + uuid.NewString()[:8]
	}
}

func (c *Config) Validate() error {
	if c.Broker == "" {
		return errors.New("broker is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Topic == "" {
		return errors.New("topic is required")
	}
	if c.QoS > 2 {
		return fmt.Errorf("qos %d out of range", c.QoS)
	}
	return nil
}

// URL renders the broker address the paho client dials.
func (c *Config) URL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Broker, c.Port)
}

type Collector struct {
	cfg     Config
	client  paho.Client
	mu      sync.Mutex
	state   ports.ConnState
	started bool
}

func NewCollector(cfg Config) (*Collector, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Collector{cfg: cfg}, nil
}

// Start connects to the broker and subscribes. It returns once the initial
// connect handshake resolves; afterwards the paho client reconnects and
// resubscribes on its own, and messages arrive on its callback goroutines.
func (c *Collector) Start(h ports.MessageHandler) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("mqtt collector already started")
	}
	c.started = true
	c.state = ports.Connecting
	c.mu.Unlock()

	opts := paho.NewClientOptions().
		AddBroker(c.cfg.URL()).
		SetClientID(c.cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetKeepAlive(c.cfg.KeepAlive)

	opts.SetOnConnectHandler(func(client paho.Client) {
		// Runs on every (re)connect, so the subscription survives broker
		// restarts.
		client.Subscribe(c.cfg.Topic, c.cfg.QoS, func(_ paho.Client, msg paho.Message) {
			h.HandleMessage(msg.Topic(), msg.Payload())
		})
		c.setState(ports.Connected)
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, _ error) {
		c.setState(ports.Disconnected)
	})
	opts.SetReconnectingHandler(func(_ paho.Client, _ *paho.ClientOptions) {
		c.setState(ports.Connecting)
	})

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		c.mu.Lock()
		c.started = false
		c.state = ports.Disconnected
		c.mu.Unlock()
		return fmt.Errorf("mqtt connect %s: %w", c.cfg.URL(), token.Error())
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()
	return nil
}

func (c *Collector) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	client := c.client
	c.started = false
	c.client = nil
	c.state = ports.Disconnected
	c.mu.Unlock()

	if client != nil {
		if token := client.Unsubscribe(c.cfg.Topic); token.Wait() && token.Error() != nil {
			client.Disconnect(250)
			return fmt.Errorf("mqtt unsubscribe %s: %w", c.cfg.Topic, token.Error())
		}
		client.Disconnect(250)
	}
	return nil
}

func (c *Collector) Status() ports.ConnStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ports.ConnStatus{State: c.state, Broker: c.cfg.URL()}
}

func (c *Collector) setState(s ports.ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

var _ ports.Collector = (*Collector)(nil)
