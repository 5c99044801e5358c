// internal/store/mqtt/mqtt.go
package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tamzrod/inverter-sync/internal/status"
)

// Config is the broker connection configuration.
type Config struct {
	Broker      string
	ClientID    string // empty: random per process
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
	Timeout     time.Duration
}

// client is the subset of paho.Client the store uses.
type client interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Store maps store paths onto retained topics: <prefix><path>.
// Each topic carries the JSON encoding of the last value written.
type Store struct {
	client  client
	prefix  string
	qos     byte
	timeout time.Duration
	log     zerolog.Logger

	failed atomic.Uint64
}

// New creates the store and starts connecting in the background.
// It does not wait for the broker: Ready stays false until connected.
func New(cfg Config, log zerolog.Logger) (*Store, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt: broker required")
	}

	log = log.With().Str("component", "store").Str("backend", "mqtt").Logger()

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "inverter-sync-" + uuid.NewString()[:8]
	}

	s := &Store{
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		timeout: cfg.Timeout,
		log:     log,
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(cfg.Timeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(s.topic(status.PathStoreReady), "false", cfg.QoS, true).
		SetOnConnectHandler(func(paho.Client) {
			log.Info().Str("broker", cfg.Broker).Msg("connected")
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn().Err(err).Msg("connection lost")
		})

	c := paho.NewClient(opts)
	c.Connect() // completes once connected; retries run inside paho

	s.client = c
	return s, nil
}

// Ready reports an open broker connection.
func (s *Store) Ready() bool {
	return s.client.IsConnectionOpen()
}

// Write publishes value retained and returns without waiting for the broker.
func (s *Store) Write(path string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("encode value")
		return
	}

	topic := s.topic(path)
	token := s.client.Publish(topic, s.qos, true, payload)

	go s.await(topic, token)
}

func (s *Store) await(topic string, token paho.Token) {
	if !token.WaitTimeout(s.timeout) {
		s.failed.Add(1)
		s.log.Debug().Str("topic", topic).Msg("publish timeout")
		return
	}
	if err := token.Error(); err != nil {
		s.failed.Add(1)
		s.log.Debug().Err(err).Str("topic", topic).Msg("publish failed")
	}
}

// Failed returns the number of publishes that timed out or failed.
func (s *Store) Failed() uint64 {
	return s.failed.Load()
}

// Close disconnects from the broker.
func (s *Store) Close() error {
	s.client.Disconnect(250)
	return nil
}

func (s *Store) topic(path string) string {
	if s.prefix == "" {
		return strings.TrimPrefix(path, "/")
	}
	return s.prefix + path
}
