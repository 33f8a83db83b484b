package status

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

type recordingReporter struct {
	nodes    []string
	statuses []domain.Status
}

func (r *recordingReporter) Report(_ context.Context, nodeID string, s domain.Status) {
	r.nodes = append(r.nodes, nodeID)
	r.statuses = append(r.statuses, s)
}

func TestBoard_LatestAndForward(t *testing.T) {
	rec := &recordingReporter{}
	b := NewBoard(rec)

	_, ok := b.Latest("home")
	assert.False(t, ok)

	first := domain.Status{Severity: domain.SeverityPending, Fill: "yellow", Shape: "dot", Text: "waiting for lat"}
	second := domain.Status{Severity: domain.SeverityInfo, Fill: "green", Shape: "dot", Text: "Home: yes"}
	b.Report(context.Background(), "home", first)
	b.Report(context.Background(), "home", second)

	got, ok := b.Latest("home")
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Equal(t, []string{"home", "home"}, rec.nodes)
	assert.Equal(t, []domain.Status{first, second}, rec.statuses)
}

type fakeToken struct {
	err error
}

func (f *fakeToken) Wait() bool                     { return true }
func (f *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (f *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (f *fakeToken) Error() error { return f.err }

type fakePublisher struct {
	mu       sync.Mutex
	topic    string
	retained bool
	payload  []byte
}

func (f *fakePublisher) Publish(topic string, _ byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topic = topic
	f.retained = retained
	f.payload = payload.([]byte)
	return &fakeToken{}
}

func TestMQTTReporter_Report(t *testing.T) {
	pub := &fakePublisher{}
	r := &MQTTReporter{client: pub, prefix: "geopresence"}

	s := domain.Status{Severity: domain.SeverityError, Fill: "red", Shape: "ring", Text: "flow/global lat missing or invalid"}
	r.Report(context.Background(), "home", s)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, "geopresence/home/status", pub.topic)
	assert.True(t, pub.retained)

	var decoded domain.Status
	require.NoError(t, json.Unmarshal(pub.payload, &decoded))
	assert.Equal(t, s, decoded)
}
