package tuya

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/bulbd/bulbd/systems/color"
	"github.com/pkg/errors"
)

// Settings describes single device connection.
type Settings struct {
	ID       string
	Address  string
	Port     int
	LocalKey string
	Version  string
	Timeout  time.Duration
}

// Bulb is a persistent connection to a single colour bulb.
// All calls are serialized.
type Bulb struct {
	sync.Mutex

	settings *Settings
	proto    *protocol
	conn     net.Conn
	seq      uint32

	dial func(network, address string, timeout time.Duration) (net.Conn, error)
	now  func() time.Time
}

// NewBulb constructs a new bulb client. Connection is opened lazily.
func NewBulb(settings *Settings) (*Bulb, error) {
	proto, err := newProtocol(settings.Version, settings.ID, []byte(settings.LocalKey))
	if err != nil {
		return nil, err
	}

	s := *settings
	if 0 == s.Port {
		s.Port = DefaultPort
	}

	if 0 == s.Timeout {
		s.Timeout = DefaultTimeout
	}

	return &Bulb{
		settings: &s,
		proto:    proto,
		dial:     net.DialTimeout,
		now:      time.Now,
	}, nil
}

// Version returns protocol version.
func (b *Bulb) Version() string {
	return b.settings.Version
}

// SetColour switches bulb to colour mode with a given RGB colour.
func (b *Bulb) SetColour(r, g, bl int) error {
	hsv := color.NewRGB(r, g, bl).HSV()
	return b.control(map[string]interface{}{
		dpsKey(DPSMode):   ModeColour,
		dpsKey(DPSColour): hsv.Hex(),
	})
}

// SetValue writes a raw string value into a data point.
func (b *Bulb) SetValue(dps int, value string) error {
	return b.control(map[string]interface{}{dpsKey(dps): value})
}

// SetPower turns bulb on or off.
func (b *Bulb) SetPower(on bool) error {
	return b.control(map[string]interface{}{dpsKey(DPSPower): on})
}

// SetBrightness sets white mode brightness.
func (b *Bulb) SetBrightness(value int) error {
	return b.control(map[string]interface{}{dpsKey(DPSBrightness): value})
}

// SetWhite switches bulb to white mode.
func (b *Bulb) SetWhite(brightness, temperature int) error {
	return b.control(map[string]interface{}{
		dpsKey(DPSMode):        ModeWhite,
		dpsKey(DPSBrightness):  brightness,
		dpsKey(DPSTemperature): temperature,
	})
}

// Status queries current data points.
func (b *Bulb) Status() (map[string]interface{}, error) {
	plain, err := b.exchange(b.proto.queryCommand(), nil)
	if err != nil {
		return nil, err
	}

	return parseDPS(plain)
}

// Close drops the connection.
func (b *Bulb) Close() error {
	b.Lock()
	defer b.Unlock()

	return b.closeConn()
}

func (b *Bulb) control(dps map[string]interface{}) error {
	_, err := b.exchange(b.proto.controlCommand(), dps)
	return err
}

// Sends a command and waits for the reply.
// Stale reused connection gets one reconnect attempt.
func (b *Bulb) exchange(cmd uint32, dps map[string]interface{}) ([]byte, error) {
	b.Lock()
	defer b.Unlock()

	reused := nil != b.conn
	if err := b.connect(); err != nil {
		return nil, err
	}

	plain, err := b.roundTrip(cmd, dps)
	if err == nil {
		return plain, nil
	}

	if _, ok := errors.Cause(err).(*ErrDeviceReturnCode); ok {
		return nil, err
	}

	b.closeConn() // nolint: errcheck
	if !reused {
		return nil, err
	}

	if err := b.connect(); err != nil {
		return nil, err
	}

	plain, err = b.roundTrip(cmd, dps)
	if err != nil {
		b.closeConn() // nolint: errcheck
	}

	return plain, err
}

func (b *Bulb) connect() error {
	if nil != b.conn {
		return nil
	}

	address := net.JoinHostPort(b.settings.Address, strconv.Itoa(b.settings.Port))
	conn, err := b.dial("tcp", address, b.settings.Timeout)
	if err != nil {
		return errors.Wrapf(err, "dial %s failed", address)
	}

	if b.proto.needsSession() {
		conn.SetDeadline(b.now().Add(b.settings.Timeout)) // nolint: errcheck
		if err := b.proto.negotiate(conn, b.nextSeq()); err != nil {
			conn.Close() // nolint: errcheck
			return err
		}
		b.seq++
	}

	b.conn = conn
	return nil
}

func (b *Bulb) roundTrip(cmd uint32, dps map[string]interface{}) ([]byte, error) {
	b.conn.SetDeadline(b.now().Add(b.settings.Timeout)) // nolint: errcheck

	plain, err := b.proto.request(cmd, dps, b.now())
	if err != nil {
		return nil, err
	}

	if err := b.proto.send(b.conn, b.nextSeq(), cmd, plain); err != nil {
		return nil, errors.Wrap(err, "send failed")
	}

	accept := []uint32{cmd}
	if cmd == b.proto.controlCommand() {
		accept = append(accept, cmdStatus)
	}

	resp, err := readReply(b.conn, b.proto.framing(), accept...)
	if err != nil {
		return nil, errors.Wrap(err, "receive failed")
	}

	data, err := b.proto.unwrap(resp.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt failed")
	}

	return data, nil
}

func (b *Bulb) closeConn() error {
	if nil == b.conn {
		return nil
	}

	err := b.conn.Close()
	b.conn = nil
	b.proto.sessionKey = nil
	return err
}

func (b *Bulb) nextSeq() uint32 {
	b.seq++
	return b.seq
}

func dpsKey(dps int) string {
	return fmt.Sprintf("%d", dps)
}
