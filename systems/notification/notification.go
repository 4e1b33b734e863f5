// Package notification pushes bulb and program updates to MQTT broker.
package notification

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	// Logger system.
	logSystem = "mqtt"
	// Publish confirmation timeout.
	publishTimeout = 5 * time.Second
	// Graceful disconnect period, ms.
	quiesce = 250
)

// Subset of MQTT client used by provider.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// ConstructNotification defines notifications provider constructor.
type ConstructNotification struct {
	Logger   common.ILoggerProvider
	Settings *providers.MQTTSettings
	// Optional, bulb updates are forwarded if set.
	FanOut providers.IFanOutProvider
}

// MQTT provider.
type provider struct {
	sync.Mutex
	logger   common.ILoggerProvider
	client   publisher
	topic    string
	qos      byte
	fanOut   providers.IFanOutProvider
	subID    int64
	updates  chan *common.MsgBulbUpdate
	finished chan struct{}
	pending  sync.WaitGroup
	closed   bool
}

// Empty provider.
type emptyProvider struct {
}

// NewEmptyNotificationProvider returns a provider which drops everything.
// It is used if no broker was supplied.
func NewEmptyNotificationProvider() providers.INotificationProvider {
	return &emptyProvider{}
}

// BulbUpdate does nothing.
func (*emptyProvider) BulbUpdate(*common.MsgBulbUpdate) {
}

// ProgramStatus does nothing.
func (*emptyProvider) ProgramStatus(*common.MsgProgramStatus) {
}

// Close does nothing.
func (*emptyProvider) Close() {
}

// NewNotificationProvider connects to MQTT broker.
// Connection is retried in background, messages are queued meanwhile.
func NewNotificationProvider(ctor *ConstructNotification) providers.INotificationProvider {
	if "" == ctor.Settings.Broker {
		return NewEmptyNotificationProvider()
	}

	l := ctor.Logger
	options := mqtt.NewClientOptions().
		AddBroker(ctor.Settings.Broker).
		SetClientID(ctor.Settings.ClientID).
		SetUsername(ctor.Settings.Username).
		SetPassword(ctor.Settings.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetKeepAlive(30 * time.Second).
		SetMaxReconnectInterval(2 * time.Minute).
		SetOnConnectHandler(func(mqtt.Client) {
			l.Info("Connected to MQTT broker", common.LogSystemToken, logSystem,
				common.LogURLToken, ctor.Settings.Broker)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			l.Error("MQTT connection lost", err, common.LogSystemToken, logSystem,
				common.LogURLToken, ctor.Settings.Broker)
		})

	c := mqtt.NewClient(options)
	c.Connect()

	return newProvider(ctor, c)
}

func newProvider(ctor *ConstructNotification, client publisher) *provider {
	p := &provider{
		logger:   ctor.Logger,
		client:   client,
		topic:    strings.TrimSuffix(ctor.Settings.Topic, "/"),
		qos:      ctor.Settings.QoS,
		fanOut:   ctor.FanOut,
		finished: make(chan struct{}),
	}

	if nil == p.fanOut {
		close(p.finished)
		return p
	}

	p.subID, p.updates = p.fanOut.SubscribeBulbUpdates()
	go p.forward()
	return p
}

// BulbUpdate publishes retained bulb state.
func (p *provider) BulbUpdate(msg *common.MsgBulbUpdate) {
	p.publish(p.topic+"/bulbs/"+msg.Bulb, true, msg)
}

// ProgramStatus publishes program status.
func (p *provider) ProgramStatus(msg *common.MsgProgramStatus) {
	p.publish(p.topic+"/programs", false, msg)
}

// Close stops forwarding and disconnects.
func (p *provider) Close() {
	p.Lock()
	if p.closed {
		p.Unlock()
		return
	}

	p.closed = true
	p.Unlock()

	if nil != p.fanOut {
		p.fanOut.UnSubscribeBulbUpdates(p.subID)
	}

	<-p.finished
	p.pending.Wait()
	p.client.Disconnect(quiesce)
}

// Forwards fan-out bulb updates until un-subscribed.
func (p *provider) forward() {
	defer close(p.finished)

	for msg := range p.updates {
		p.BulbUpdate(msg)
	}
}

func (p *provider) publish(topic string, retained bool, msg interface{}) {
	p.Lock()
	defer p.Unlock()

	if p.closed {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("Failed to marshal MQTT message", err, common.LogSystemToken, logSystem)
		return
	}

	t := p.client.Publish(topic, p.qos, retained, data)
	p.pending.Add(1)
	go p.confirm(topic, t)
}

// Waits for publish confirmation without blocking callers.
func (p *provider) confirm(topic string, t mqtt.Token) {
	defer p.pending.Done()

	if !t.WaitTimeout(publishTimeout) {
		p.logger.Warn("MQTT publish timed out", common.LogSystemToken, logSystem, common.LogURLToken, topic)
		return
	}

	if err := t.Error(); err != nil {
		p.logger.Error("Failed to publish MQTT message", err, common.LogSystemToken, logSystem,
			common.LogURLToken, topic)
	}
}
