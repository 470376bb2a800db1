package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/agusx1211/noisebox/internal/noise"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeMessage satisfies just enough of paho's Message interface for the
// handler tests.
type fakeMessage struct {
	payload string
}

func (f fakeMessage) Duplicate() bool   { return false }
func (f fakeMessage) Qos() byte         { return 0 }
func (f fakeMessage) Retained() bool    { return false }
func (f fakeMessage) Topic() string     { return "" }
func (f fakeMessage) MessageID() uint16 { return 0 }
func (f fakeMessage) Payload() []byte   { return []byte(f.payload) }
func (f fakeMessage) Ack()              {}

func testClient(buffer int) (*Client, chan Command) {
	ch := make(chan Command, buffer)
	return &Client{
		topic:       "test/noisebox",
		commandChan: ch,
		log:         zap.NewNop(),
	}, ch
}

func TestHandlePower(t *testing.T) {
	c, ch := testClient(1)

	c.handlePower(nil, fakeMessage{payload: " ON \n"})
	assert.Equal(t, ActionPowerOn, (<-ch).Action)

	c.handlePower(nil, fakeMessage{payload: "OFF"})
	assert.Equal(t, ActionPowerOff, (<-ch).Action)
}

func TestHandleVolume(t *testing.T) {
	c, ch := testClient(1)

	c.handleVolume(nil, fakeMessage{payload: "75"})
	cmd := <-ch
	assert.Equal(t, ActionVolume, cmd.Action)
	assert.Equal(t, 0.75, cmd.Value)

	c.handleVolume(nil, fakeMessage{payload: "loud"})
	assert.Empty(t, ch, "unparseable volume is dropped")
}

func TestHandleKind(t *testing.T) {
	c, ch := testClient(1)

	c.handleKind(nil, fakeMessage{payload: "Violet"})
	cmd := <-ch
	require.Equal(t, ActionKind, cmd.Action)
	assert.Equal(t, noise.Violet, cmd.Kind)

	// Unknown kinds fall back to white rather than failing.
	c.handleKind(nil, fakeMessage{payload: "octarine"})
	assert.Equal(t, noise.White, (<-ch).Kind)
}

func TestHandleEQ(t *testing.T) {
	c, ch := testClient(1)

	c.handleEQ(ActionEQMid)(nil, fakeMessage{payload: "-6.5"})
	cmd := <-ch
	assert.Equal(t, ActionEQMid, cmd.Action)
	assert.Equal(t, -6.5, cmd.Value)
}

func TestHandleTransport(t *testing.T) {
	c, ch := testClient(5)

	for _, verb := range []string{"play", "pause", "stop", "next", "previous"} {
		c.handleTransport(nil, fakeMessage{payload: verb})
	}
	require.Len(t, ch, 5)
	assert.Equal(t, ActionPlay, (<-ch).Action)

	c.handleTransport(nil, fakeMessage{payload: "rewind"})
	assert.Len(t, ch, 4, "unknown verbs are ignored")
}

func TestSendCommandDropsWhenFull(t *testing.T) {
	c, ch := testClient(1)

	c.sendCommand(Command{Action: ActionPlay})
	c.sendCommand(Command{Action: ActionPause}) // full channel, dropped

	require.Len(t, ch, 1)
	assert.Equal(t, ActionPlay, (<-ch).Action)
}
