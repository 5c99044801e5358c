// internal/store/mqtt/mqtt_test.go
package mqtt

import (
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeToken struct {
	done chan struct{}
	err  error
}

func completed(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

type fakeClient struct {
	mu        sync.Mutex
	open      bool
	published []published
	token     func() paho.Token
	quiesce   uint
}

func (f *fakeClient) IsConnectionOpen() bool { return f.open }

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, published{topic, qos, retained, string(payload.([]byte))})
	if f.token != nil {
		return f.token()
	}
	return completed(nil)
}

func (f *fakeClient) Disconnect(quiesce uint) { f.quiesce = quiesce }

func newTestStore(fc *fakeClient, prefix string) *Store {
	return &Store{client: fc, prefix: prefix, qos: 1, timeout: 50 * time.Millisecond, log: zerolog.Nop()}
}

// ---- tests ----

func TestNew_RequiresBroker(t *testing.T) {
	_, err := New(Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestReady_FollowsConnection(t *testing.T) {
	fc := &fakeClient{}
	s := newTestStore(fc, "solar")

	assert.False(t, s.Ready())
	fc.open = true
	assert.True(t, s.Ready())
}

func TestWrite_RetainedJSON(t *testing.T) {
	fc := &fakeClient{open: true}
	s := newTestStore(fc, "solar")

	s.Write("/live/ac_power", 150.5)
	s.Write("/live/status_text", "Normal")
	s.Write("/system/inverter_online", true)
	s.Write("/system/uptime_seconds", int64(3600))

	require.Len(t, fc.published, 4)
	assert.Equal(t, published{"solar/live/ac_power", 1, true, "150.5"}, fc.published[0])
	assert.Equal(t, `"Normal"`, fc.published[1].payload)
	assert.Equal(t, "true", fc.published[2].payload)
	assert.Equal(t, "3600", fc.published[3].payload)
}

func TestWrite_EmptyPrefix(t *testing.T) {
	fc := &fakeClient{open: true}
	s := newTestStore(fc, "")

	s.Write("/history/2024-06-01/13:05", 420.0)

	require.Len(t, fc.published, 1)
	assert.Equal(t, "history/2024-06-01/13:05", fc.published[0].topic)
}

func TestWrite_DoesNotBlockOnBroker(t *testing.T) {
	pending := &fakeToken{done: make(chan struct{})}
	fc := &fakeClient{open: true, token: func() paho.Token { return pending }}
	s := newTestStore(fc, "solar")

	start := time.Now()
	s.Write("/live/pv_voltage", 120.0)
	assert.Less(t, time.Since(start), 40*time.Millisecond)

	assert.Eventually(t, func() bool { return s.Failed() == 1 }, time.Second, 5*time.Millisecond)
}

func TestWrite_CountsFailures(t *testing.T) {
	fc := &fakeClient{open: true, token: func() paho.Token { return completed(errors.New("not connected")) }}
	s := newTestStore(fc, "solar")

	s.Write("/live/pv_voltage", 120.0)
	s.Write("/live/pv_current", 1.5)

	assert.Eventually(t, func() bool { return s.Failed() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWrite_UnencodableValue(t *testing.T) {
	fc := &fakeClient{open: true}
	s := newTestStore(fc, "solar")

	s.Write("/live/bad", make(chan int))
	assert.Empty(t, fc.published)
}

func TestClose_Disconnects(t *testing.T) {
	fc := &fakeClient{open: true}
	s := newTestStore(fc, "solar")

	require.NoError(t, s.Close())
	assert.Equal(t, uint(250), fc.quiesce)
}
