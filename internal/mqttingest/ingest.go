// Package mqttingest feeds odometer readings published over MQTT into the
// mileage log.
package mqttingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/config"
	"github.com/ukydev/fleet-reminders/internal/mileage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	handleTimeout  = 5 * time.Second
	quiesceMillis  = 250
)

var ErrInvalidReading = errors.New("invalid odometer reading")

// MileageLogger stores a reading for a vehicle.
type MileageLogger interface {
	Log(ctx context.Context, vehicleID primitive.ObjectID, miles int, loggedAt *time.Time) (*mileage.Result, error)
}

// Reading is the payload published on the odometer topic.
type Reading struct {
	VehicleID string     `json:"vehicle_id"`
	Mileage   *int       `json:"mileage"`
	LoggedAt  *time.Time `json:"logged_at,omitempty"`
}

// NewClient builds a paho client for cfg without connecting it.
func NewClient(cfg config.MQTTConfig) mqtt.Client {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetOrderMatters(false)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("MQTT connection lost")
	})
	return mqtt.NewClient(opts)
}

// Subscriber consumes odometer readings until its context ends.
type Subscriber struct {
	client mqtt.Client
	topic  string
	logs   MileageLogger
}

// NewSubscriber creates a subscriber on topic. The topic may hold a single
// "+" level standing for the vehicle id.
func NewSubscriber(client mqtt.Client, topic string, logs MileageLogger) *Subscriber {
	return &Subscriber{client: client, topic: topic, logs: logs}
}

// Run connects, subscribes and blocks until ctx is done.
func (s *Subscriber) Run(ctx context.Context) error {
	if err := wait(ctx, s.client.Connect()); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer s.client.Disconnect(quiesceMillis)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		hctx, cancel := context.WithTimeout(ctx, handleTimeout)
		defer cancel()
		if err := s.handle(hctx, msg.Topic(), msg.Payload()); err != nil {
			log.WithError(err).WithField("topic", msg.Topic()).Warn("Dropped odometer reading")
		}
	}
	if err := wait(ctx, s.client.Subscribe(s.topic, qos, handler)); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", s.topic, err)
	}
	log.WithField("topic", s.topic).Info("Listening for odometer readings")

	<-ctx.Done()
	if err := wait(context.Background(), s.client.Unsubscribe(s.topic)); err != nil {
		log.WithError(err).Warn("MQTT unsubscribe failed")
	}
	return nil
}

// handle decodes and stores one reading.
func (s *Subscriber) handle(ctx context.Context, topic string, payload []byte) error {
	var r Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReading, err)
	}
	if r.VehicleID == "" {
		r.VehicleID = vehicleFromTopic(s.topic, topic)
	}
	if r.Mileage == nil {
		return fmt.Errorf("%w: missing mileage", ErrInvalidReading)
	}
	vehicleID, err := primitive.ObjectIDFromHex(r.VehicleID)
	if err != nil {
		return fmt.Errorf("%w: vehicle id %q", ErrInvalidReading, r.VehicleID)
	}

	res, err := s.logs.Log(ctx, vehicleID, *r.Mileage, r.LoggedAt)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"vehicle_id": vehicleID.Hex(),
		"mileage":    res.Log.Mileage,
		"upcoming":   len(res.UpcomingServices),
	}).Debug("Odometer reading stored")
	return nil
}

// Publisher sends readings on behalf of vehicles.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher creates a publisher. The "+" level of topic is replaced by the vehicle id.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// Connect opens the broker connection.
func (p *Publisher) Connect(ctx context.Context) error {
	return wait(ctx, p.client.Connect())
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(quiesceMillis)
}

// Publish sends one reading.
func (p *Publisher) Publish(ctx context.Context, r Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return wait(ctx, p.client.Publish(TopicFor(p.topic, r.VehicleID), qos, false, payload))
}

// TopicFor fills the "+" level of pattern with vehicleID.
func TopicFor(pattern, vehicleID string) string {
	return strings.Replace(pattern, "+", vehicleID, 1)
}

// vehicleFromTopic returns the level of topic matching the "+" of pattern.
func vehicleFromTopic(pattern, topic string) string {
	want := strings.Split(pattern, "/")
	got := strings.Split(topic, "/")
	if len(want) != len(got) {
		return ""
	}
	for i, level := range want {
		if level == "+" {
			return got[i]
		}
	}
	return ""
}

// wait blocks until tok completes or ctx is done.
func wait(ctx context.Context, tok mqtt.Token) error {
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
