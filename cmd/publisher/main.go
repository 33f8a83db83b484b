package main

import (
	"encoding/json"
	"math/rand"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	broker   string
	topic    string
	interval time.Duration
	lat      float64
	lon      float64
	driftKm  float64
	dropRate float64
	count    int
}

type locationMessage struct {
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Timestamp int64    `json:"tst"`
}

// 1 degree of latitude is ~111km
const kmPerDegree = 111.195

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "publisher",
		Short: "Publish simulated location readings to MQTT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.broker, "broker", envOr("MQTT_BROKER", "tcp://localhost:1883"), "MQTT broker URL")
	f.StringVar(&opts.topic, "topic", "owntracks/me/phone", "topic to publish on")
	f.DurationVar(&opts.interval, "interval", 2*time.Second, "delay between readings")
	f.Float64Var(&opts.lat, "lat", 52.3676, "latitude to wander around")
	f.Float64Var(&opts.lon, "lon", 4.9041, "longitude to wander around")
	f.Float64Var(&opts.driftKm, "drift-km", 1, "maximum distance of a reading from the centre")
	f.Float64Var(&opts.dropRate, "drop-rate", 0.2, "probability of leaving out lat or lon")
	f.IntVar(&opts.count, "count", 0, "number of readings to send, 0 for unlimited")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts options) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.interval <= 0 {
		return eris.New("interval must be positive")
	}

	mqttOpts := mqtt.NewClientOptions().
		AddBroker(opts.broker).
		SetClientID("geopresence-publisher-" + uuid.NewString()[:8])

	client := mqtt.NewClient(mqttOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return eris.Wrap(token.Error(), "mqtt connect")
	}
	defer client.Disconnect(250)

	logger.Info("connected",
		zap.String("broker", opts.broker),
		zap.String("topic", opts.topic),
		zap.Duration("interval", opts.interval),
	)

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	for sent := 0; opts.count == 0 || sent < opts.count; sent++ {
		msg := nextReading(opts)
		payload, err := json.Marshal(msg)
		if err != nil {
			return eris.Wrap(err, "marshal reading")
		}

		token := client.Publish(opts.topic, 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			return eris.Wrap(err, "publish")
		}
		logger.Info("published", zap.String("topic", opts.topic), zap.ByteString("payload", payload))

		<-ticker.C
	}
	return nil
}

// nextReading picks a point within driftKm of the centre and sometimes leaves
// one coordinate out, the way trackers report partial fixes.
func nextReading(opts options) locationMessage {
	drift := opts.driftKm / kmPerDegree
	lat := opts.lat + (rand.Float64()*2-1)*drift
	lon := opts.lon + (rand.Float64()*2-1)*drift

	msg := locationMessage{Lat: &lat, Lon: &lon, Timestamp: time.Now().Unix()}
	if rand.Float64() < opts.dropRate {
		if rand.Intn(2) == 0 {
			msg.Lat = nil
		} else {
			msg.Lon = nil
		}
	}
	return msg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
