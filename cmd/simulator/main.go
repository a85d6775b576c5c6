package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/config"
	"github.com/ukydev/fleet-reminders/internal/models"
	"github.com/ukydev/fleet-reminders/internal/mqttingest"
	"golang.org/x/sync/errgroup"
)

// catalog lists the vehicles the simulator can add on top of the seed data.
var catalog = []struct{ Make, Model string }{
	{"Honda", "Accord"},
	{"Toyota", "Camry"},
	{"Tesla", "Model S"},
}

const vinChars = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"

// settings configures a simulation run.
type settings struct {
	APIURL    string
	FleetSize int
	Interval  time.Duration
	Seed      bool
	MQTT      config.MQTTConfig
}

func loadSettings() settings {
	s := settings{
		APIURL:   os.Getenv("API_BASE_URL"),
		Interval: 2 * time.Second,
		Seed:     os.Getenv("SIM_SEED") != "false",
		MQTT: config.MQTTConfig{
			Broker:   os.Getenv("MQTT_BROKER"),
			ClientID: "fleet-simulator",
			Topic:    os.Getenv("MQTT_TOPIC"),
		},
	}
	if s.APIURL == "" {
		s.APIURL = "http://localhost:8080/api"
	}
	if s.MQTT.Topic == "" {
		s.MQTT.Topic = "fleet/+/odometer"
	}
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			s.FleetSize = n
		}
	}
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			s.Interval = time.Duration(n) * time.Second
		}
	}
	return s
}

// apiClient talks to the reminder API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

// do sends body as JSON and decodes the data of the response envelope into out.
func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	env := models.APIResponse{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: status %d: failed to decode response: %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, env.Error)
	}
	return nil
}

func (c *apiClient) reset(ctx context.Context) (*models.ResetResponse, error) {
	var out models.ResetResponse
	if err := c.do(ctx, http.MethodPost, "/settings/reset", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) vehicles(ctx context.Context) ([]models.VehicleView, error) {
	var out models.VehiclesResponse
	if err := c.do(ctx, http.MethodGet, "/vehicles", nil, &out); err != nil {
		return nil, err
	}
	return out.Vehicles, nil
}

func (c *apiClient) createVehicle(ctx context.Context, req models.CreateVehicleRequest) (*models.VehicleView, error) {
	var out models.VehicleResponse
	if err := c.do(ctx, http.MethodPost, "/vehicles", req, &out); err != nil {
		return nil, err
	}
	return &out.Vehicle, nil
}

// Send posts a reading to the mileage endpoint.
func (c *apiClient) Send(ctx context.Context, r mqttingest.Reading) error {
	return c.do(ctx, http.MethodPost, "/mileage", r, &models.LogMileageResponse{})
}

// readingSink delivers odometer readings to the server.
type readingSink interface {
	Send(ctx context.Context, r mqttingest.Reading) error
}

type mqttSink struct {
	pub *mqttingest.Publisher
}

func (s mqttSink) Send(ctx context.Context, r mqttingest.Reading) error {
	return s.pub.Publish(ctx, r)
}

// lockedRand is a rand.Rand safe for the vehicle goroutines.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// randomVIN returns a well formed VIN. The check digit is not computed.
func randomVIN(rng *lockedRand) string {
	b := make([]byte, 17)
	for i := range b {
		b[i] = vinChars[rng.Intn(len(vinChars))]
	}
	return string(b)
}

// VehicleState tracks the odometer of one simulated vehicle.
type VehicleState struct {
	VehicleID  string
	Mileage    int
	DailyMiles float64
}

// step advances the odometer by one simulated day of driving, at least one mile.
func (s *VehicleState) step(rng *lockedRand) int {
	miles := int(s.DailyMiles * (0.5 + rng.Float64()))
	if miles < 1 {
		miles = 1
	}
	if s.Mileage+miles > models.MaxMileage {
		return s.Mileage
	}
	s.Mileage += miles
	return s.Mileage
}

// prepareFleet seeds the API when asked, adds FleetSize vehicles and returns
// the state of every vehicle.
func prepareFleet(ctx context.Context, api *apiClient, cfg settings, rng *lockedRand) ([]*VehicleState, error) {
	if cfg.Seed {
		res, err := api.reset(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		log.WithFields(log.Fields{
			"customers": res.CustomersCreated,
			"vehicles":  res.VehiclesCreated,
		}).Info("Seeded demo data")
	}

	views, err := api.vehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	if len(views) == 0 && cfg.FleetSize > 0 {
		return nil, errors.New("no existing vehicles to take customers from")
	}

	for i := 0; i < cfg.FleetSize; i++ {
		owner := views[rng.Intn(len(views))].CustomerID
		pick := catalog[rng.Intn(len(catalog))]
		created, err := api.createVehicle(ctx, models.CreateVehicleRequest{
			VIN:        randomVIN(rng),
			Make:       pick.Make,
			Model:      pick.Model,
			Year:       2018 + rng.Intn(7),
			CustomerID: owner.Hex(),
		})
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		log.WithFields(log.Fields{"vehicle_id": created.ID.Hex(), "make": created.Make, "model": created.Model}).Info("Created vehicle")
		views = append(views, *created)
	}

	states := make([]*VehicleState, 0, len(views))
	for _, v := range views {
		s := &VehicleState{VehicleID: v.ID.Hex(), DailyMiles: 20 + rng.Float64()*40}
		if v.LatestMileage != nil {
			s.Mileage = v.LatestMileage.Mileage
		}
		states = append(states, s)
	}
	return states, nil
}

// simulateVehicle sends one reading per interval until ctx is done.
func simulateVehicle(ctx context.Context, sink readingSink, s *VehicleState, interval time.Duration, rng *lockedRand) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
		miles := s.step(rng)
		err := sink.Send(ctx, mqttingest.Reading{VehicleID: s.VehicleID, Mileage: &miles})
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).WithField("vehicle_id", s.VehicleID).Error("Failed to send odometer reading")
			}
			continue
		}
		log.WithFields(log.Fields{"vehicle_id": s.VehicleID, "mileage": miles}).Info("Sent odometer reading")
	}
}

func run(ctx context.Context, cfg settings) error {
	api := newAPIClient(cfg.APIURL)
	rng := newLockedRand(time.Now().UnixNano())

	states, err := prepareFleet(ctx, api, cfg, rng)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return errors.New("no vehicles to simulate")
	}

	var sink readingSink = api
	if cfg.MQTT.Broker != "" {
		pub := mqttingest.NewPublisher(mqttingest.NewClient(cfg.MQTT), cfg.MQTT.Topic)
		if err := pub.Connect(ctx); err != nil {
			return fmt.Errorf("mqtt connect: %w", err)
		}
		defer pub.Close()
		sink = mqttSink{pub: pub}
	}

	log.WithFields(log.Fields{"vehicles": len(states), "interval": cfg.Interval, "mqtt": cfg.MQTT.Broker != ""}).Info("Odometer simulation started")
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range states {
		g.Go(func() error {
			simulateVehicle(gctx, sink, s, cfg.Interval, rng)
			return nil
		})
	}
	return g.Wait()
}

func main() {
	cfg := loadSettings()
	log.WithFields(log.Fields{
		"fleet_size": cfg.FleetSize,
		"api_url":    cfg.APIURL,
		"interval":   cfg.Interval,
	}).Info("Starting fleet simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Simulation failed")
	}
}
