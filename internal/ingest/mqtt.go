package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/imartinez/iberoweather/internal/metrics"
)

const (
	// ingestTopic matches iberoweather/ingest/<provider>/<session>.
	ingestTopic = "iberoweather/ingest/#"

	mqttQoS = 1
)

// PayloadHandler receives each decoded raw payload. providerID and sessionID
// come from the topic path.
type PayloadHandler func(providerID, sessionID string, payload map[string]any) error

// Subscriber is a push intake for raw provider payloads over MQTT. It is
// optional: when no broker is configured the system is HTTP-only.
type Subscriber struct {
	client  mqtt.Client
	logger  *slog.Logger
	handler PayloadHandler

	mu        sync.RWMutex
	connected bool
}

func NewSubscriber(broker, clientID string, handler PayloadHandler, logger *slog.Logger) *Subscriber {
	s := &Subscriber{logger: logger, handler: handler}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		s.setConnected(true)
		logger.Info("mqtt connected", "broker", broker)
		if token := c.Subscribe(ingestTopic, mqttQoS, s.onMessage); token.Wait() && token.Error() != nil {
			logger.Error("mqtt subscribe failed", "topic", ingestTopic, "error", token.Error())
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect establishes the broker connection; the subscription happens in the
// on-connect handler so it survives reconnects.
func (s *Subscriber) Connect() error {
	token := s.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	s.client.Disconnect(250)
	s.setConnected(false)
}

// IsConnected reports the current broker connection state.
func (s *Subscriber) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Subscriber) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}

func (s *Subscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	start := time.Now()
	providerID, sessionID, ok := parseIngestTopic(msg.Topic())
	if !ok {
		s.logger.Warn("mqtt message on unexpected topic", "topic", msg.Topic())
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		metrics.PayloadDecodeErrors.WithLabelValues("mqtt").Inc()
		s.logger.Warn("mqtt payload not valid json", "topic", msg.Topic(), "error", err)
		return
	}

	if err := s.handler(providerID, sessionID, payload); err != nil {
		s.logger.Error("handle mqtt payload", "provider", providerID, "error", err)
		return
	}
	metrics.IngestLatency.WithLabelValues("mqtt").Observe(time.Since(start).Seconds())
}

// parseIngestTopic extracts provider and session from
// iberoweather/ingest/<provider>[/<session>].
func parseIngestTopic(topic string) (providerID, sessionID string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[0] != "iberoweather" || parts[1] != "ingest" {
		return "", "", false
	}
	providerID = parts[2]
	sessionID = "mqtt:" + providerID
	if len(parts) > 3 && parts[3] != "" {
		sessionID = parts[3]
	}
	return providerID, sessionID, true
}
