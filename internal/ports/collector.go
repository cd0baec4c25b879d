package ports

// ConnState tracks the transport connection lifecycle. Reconnection and
// backoff belong to the transport client; this is only the observed state.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ConnStatus pairs the connection state with the broker it refers to.
type ConnStatus struct {
	State  ConnState
	Broker string
}

// MessageHandler consumes one raw inbound message. The transport invokes
// it from its own callback goroutine, possibly concurrently, so
// implementations must be safe for concurrent calls.
type MessageHandler interface {
	HandleMessage(topic string, payload []byte)
}

// MessageHandlerFunc adapts a function into a MessageHandler.
type MessageHandlerFunc func(topic string, payload []byte)

func (f MessageHandlerFunc) HandleMessage(topic string, payload []byte) { f(topic, payload) }

// Collector delivers raw messages from any pub/sub transport (MQTT,
// simulators, replays) into the handler. Start returns once the transport
// is connected and subscribed; delivery continues on the transport's own
// goroutines until Stop.
type Collector interface {
	Start(h MessageHandler) error
	Stop() error
	Status() ConnStatus
}
