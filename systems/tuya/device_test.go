package tuya

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/json"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Simulated device.
type fakeDevice struct {
	sync.Mutex
	listener net.Listener
	version  string
	key      []byte
	state    map[string]interface{}
	commands []uint32
	conns    int
	// Close connection after every reply.
	dropAfter bool
	// Reply with this return code.
	failCode uint32
	wg       sync.WaitGroup
}

func newFakeDevice(t *testing.T, version string, key []byte) *fakeDevice {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	return &fakeDevice{
		listener: l,
		version:  version,
		key:      key,
		state:    map[string]interface{}{},
	}
}

func (d *fakeDevice) start() {
	d.wg.Add(1)
	go d.serve()
}

func (d *fakeDevice) port() int {
	return d.listener.Addr().(*net.TCPAddr).Port
}

func (d *fakeDevice) stop() {
	d.listener.Close() // nolint: errcheck
	d.wg.Wait()
}

func (d *fakeDevice) settings() *Settings {
	return &Settings{
		ID:       "dev1",
		Address:  "127.0.0.1",
		Port:     d.port(),
		LocalKey: string(testKey),
		Version:  d.version,
		Timeout:  2 * time.Second,
	}
}

func (d *fakeDevice) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			return
		}

		d.Lock()
		d.conns++
		d.Unlock()

		d.handle(conn)
	}
}

func (d *fakeDevice) handle(conn net.Conn) {
	defer conn.Close()                                // nolint: errcheck
	conn.SetDeadline(time.Now().Add(5 * time.Second)) // nolint: errcheck

	proto, err := newProtocol(d.version, "dev1", d.key)
	if err != nil {
		return
	}

	if proto.needsSession() {
		if err := acceptSession(proto, conn); err != nil {
			return
		}
	}

	for {
		f := proto.framing()
		msg, err := f.read(conn, false)
		if err != nil {
			return
		}

		plain, err := proto.unwrap(msg.Payload)
		if err != nil {
			return
		}

		reply, err := d.process(proto, msg.Cmd, plain)
		if err != nil {
			return
		}

		var payload []byte
		if nil != reply {
			payload, err = proto.wrap(msg.Cmd, reply)
			if err != nil {
				return
			}
		}

		frame, err := f.encode(&message{Seq: msg.Seq, Cmd: msg.Cmd, HasRetCode: true, RetCode: d.failCode, Payload: payload})
		if err != nil {
			return
		}

		if _, err := conn.Write(frame); err != nil {
			return
		}

		if d.dropAfter {
			return
		}
	}
}

func (d *fakeDevice) process(proto *protocol, cmd uint32, plain []byte) ([]byte, error) {
	d.Lock()
	defer d.Unlock()

	d.commands = append(d.commands, cmd)
	switch cmd {
	case cmdControl, cmdControlNew:
		dps, err := parseDPS(plain)
		if err != nil {
			return nil, err
		}
		for k, v := range dps {
			d.state[k] = v
		}
		return nil, nil
	case cmdDPQuery:
		return json.Marshal(map[string]interface{}{"devId": "dev1", "dps": d.state})
	case cmdDPQueryNew:
		return json.Marshal(map[string]interface{}{
			"protocol": 4,
			"t":        1,
			"data":     map[string]interface{}{"dps": d.state},
		})
	}

	return nil, errors.Errorf("unexpected command 0x%02x", cmd)
}

// Device side of the session key negotiation.
func acceptSession(p *protocol, rw io.ReadWriter) error {
	f := p.framing()

	start, err := f.read(rw, false)
	if err != nil {
		return err
	}

	if start.Cmd != cmdSessKeyNegStart {
		return errors.Errorf("unexpected command 0x%02x", start.Cmd)
	}

	local, err := p.unwrap(start.Payload)
	if err != nil {
		return err
	}

	if len(local) < nonceLen {
		return errors.New("short client nonce")
	}

	remote := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, remote); err != nil {
		return err
	}

	body, err := p.wrap(cmdSessKeyNegResp, append(append([]byte{}, remote...), hmacSHA256(p.localKey, local[:nonceLen])...))
	if err != nil {
		return err
	}

	frame, err := f.encode(&message{Seq: start.Seq, Cmd: cmdSessKeyNegResp, HasRetCode: true, Payload: body})
	if err != nil {
		return err
	}

	if _, err := rw.Write(frame); err != nil {
		return err
	}

	finish, err := f.read(rw, false)
	if err != nil {
		return err
	}

	proof, err := p.unwrap(finish.Payload)
	if err != nil {
		return err
	}

	if !hmac.Equal(proof, hmacSHA256(p.localKey, remote)) {
		return errors.New("client failed to prove local key")
	}

	key, err := p.deriveSessionKey(local[:nonceLen], remote)
	if err != nil {
		return err
	}

	p.sessionKey = key
	return nil
}
