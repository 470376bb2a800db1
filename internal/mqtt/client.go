package mqtt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/agusx1211/noisebox/internal/mixer"
	"github.com/agusx1211/noisebox/internal/noise"
	"github.com/agusx1211/noisebox/internal/session"
)

// Command is one decoded control message. Values are absolute, so
// dropping one under backpressure loses nothing a later message does not
// restate.
type Command struct {
	Action string
	Value  float64
	Kind   noise.Kind
}

const (
	ActionPowerOn  = "power_on"
	ActionPowerOff = "power_off"
	ActionVolume   = "volume"
	ActionKind     = "kind"
	ActionEQLow    = "eq_low"
	ActionEQMid    = "eq_mid"
	ActionEQHigh   = "eq_high"
	ActionPlay     = "play"
	ActionPause    = "pause"
	ActionStop     = "stop"
	ActionNext     = "next"
	ActionPrevious = "previous"
)

type Client struct {
	client      mqtt.Client
	topic       string
	mixer       *mixer.Mixer
	session     *session.Session
	commandChan chan<- Command
	log         *zap.Logger
}

func NewClient(broker string, port int, user, password, topic string, m *mixer.Mixer, s *session.Session, cmdChan chan<- Command, log *zap.Logger) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s:%d", broker, port))
	opts.SetClientID(fmt.Sprintf("noisebox-%d", time.Now().Unix()))

	if user != "" {
		opts.SetUsername(user)
	}
	if password != "" {
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	c := &Client{
		topic:       topic,
		mixer:       m,
		session:     s,
		commandChan: cmdChan,
		log:         log,
	}

	opts.OnConnect = c.onConnect
	opts.OnConnectionLost = c.onConnectionLost
	opts.SetWill(topic+"/availability", "offline", 0, true)

	c.client = mqtt.NewClient(opts)
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to broker: %w", token.Error())
	}

	return c, nil
}

func (c *Client) Close() {
	c.client.Publish(c.topic+"/availability", 0, true, "offline")
	c.client.Disconnect(250)
}

func (c *Client) onConnect(client mqtt.Client) {
	c.log.Info("connected to MQTT broker")

	client.Publish(c.topic+"/availability", 0, true, "online")

	subs := map[string]mqtt.MessageHandler{
		c.topic + "/power/set":     c.handlePower,
		c.topic + "/volume/set":    c.handleVolume,
		c.topic + "/noise/set":     c.handleKind,
		c.topic + "/eq/low/set":    c.handleEQ(ActionEQLow),
		c.topic + "/eq/mid/set":    c.handleEQ(ActionEQMid),
		c.topic + "/eq/high/set":   c.handleEQ(ActionEQHigh),
		c.topic + "/transport/set": c.handleTransport,
	}

	for topic, handler := range subs {
		if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
			c.log.Error("subscribe failed", zap.String("topic", topic), zap.Error(token.Error()))
		}
	}

	c.publishDiscovery()
	c.PublishState()
	c.PublishMetadata()
}

func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	c.log.Warn("MQTT connection lost", zap.Error(err))
}

func (c *Client) handlePower(client mqtt.Client, msg mqtt.Message) {
	action := ActionPowerOff
	if strings.TrimSpace(string(msg.Payload())) == "ON" {
		action = ActionPowerOn
	}
	c.sendCommand(Command{Action: action})
}

func (c *Client) handleVolume(client mqtt.Client, msg mqtt.Message) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(msg.Payload())), 64)
	if err != nil {
		return
	}
	c.sendCommand(Command{Action: ActionVolume, Value: v / 100.0})
}

func (c *Client) handleKind(client mqtt.Client, msg mqtt.Message) {
	raw := strings.ToLower(strings.TrimSpace(string(msg.Payload())))
	kind := noise.ParseKind(raw)
	if string(kind) != raw {
		c.log.Warn("unknown noise kind, falling back to white", zap.String("payload", raw))
	}
	c.sendCommand(Command{Action: ActionKind, Kind: kind})
}

func (c *Client) handleEQ(action string) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		v, err := strconv.ParseFloat(strings.TrimSpace(string(msg.Payload())), 64)
		if err != nil {
			return
		}
		c.sendCommand(Command{Action: action, Value: v})
	}
}

func (c *Client) handleTransport(client mqtt.Client, msg mqtt.Message) {
	verb := strings.ToLower(strings.TrimSpace(string(msg.Payload())))
	switch verb {
	case ActionPlay, ActionPause, ActionStop, ActionNext, ActionPrevious:
		c.sendCommand(Command{Action: verb})
	default:
		c.log.Warn("unknown transport verb", zap.String("payload", verb))
	}
}

func (c *Client) sendCommand(cmd Command) {
	select {
	case c.commandChan <- cmd:
	default:
		c.log.Warn("command channel full, dropping", zap.String("action", cmd.Action))
	}
}

type stateMessage struct {
	Power     bool             `json:"power"`
	Volume    float64          `json:"volume"`
	NoiseType noise.Kind       `json:"noiseType"`
	EQ        stateEQ          `json:"eq"`
	Playing   bool             `json:"playing"`
	Metadata  session.Metadata `json:"metadata"`
}

type stateEQ struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

func (c *Client) PublishState() {
	msg := stateMessage{
		Power:     c.mixer.GetPower(),
		Volume:    c.mixer.GetMasterVolume() * 100,
		NoiseType: c.mixer.GetKind(),
		EQ: stateEQ{
			Low:  c.mixer.GetLow(),
			Mid:  c.mixer.GetMid(),
			High: c.mixer.GetHigh(),
		},
		Playing:  c.session.Playing(),
		Metadata: c.session.Metadata(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshaling state", zap.Error(err))
		return
	}
	c.client.Publish(c.topic+"/state", 0, true, data)
}

func (c *Client) PublishMetadata() {
	data, err := json.Marshal(c.session.Metadata())
	if err != nil {
		c.log.Error("marshaling metadata", zap.Error(err))
		return
	}
	c.client.Publish(c.topic+"/metadata", 0, true, data)
}
