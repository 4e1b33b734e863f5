package tuya

import (
	"crypto/hmac"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
)

// Performs 3.4/3.5 session key negotiation over a freshly opened stream.
func (p *protocol) negotiate(rw io.ReadWriter, seq uint32) error {
	p.sessionKey = nil

	local := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, local); err != nil {
		return errors.Wrap(err, "nonce generation failed")
	}

	if err := p.send(rw, seq, cmdSessKeyNegStart, local); err != nil {
		return errors.Wrap(err, "session start failed")
	}

	resp, err := readReply(rw, p.framing(), cmdSessKeyNegResp)
	if err != nil {
		return errors.Wrap(err, "session response failed")
	}

	plain, err := p.unwrap(resp.Payload)
	if err != nil {
		return errors.Wrap(err, "session response decrypt failed")
	}

	if len(plain) < nonceLen+hmacLen {
		return errors.New("session response is too short")
	}

	remote := plain[:nonceLen]
	if !hmac.Equal(plain[nonceLen:nonceLen+hmacLen], hmacSHA256(p.localKey, local)) {
		return errors.New("device failed to prove local key")
	}

	if err := p.send(rw, seq+1, cmdSessKeyNegFinish, hmacSHA256(p.localKey, remote)); err != nil {
		return errors.Wrap(err, "session finish failed")
	}

	key, err := p.deriveSessionKey(local, remote)
	if err != nil {
		return errors.Wrap(err, "session key derivation failed")
	}

	p.sessionKey = key
	return nil
}

func (p *protocol) deriveSessionKey(local, remote []byte) ([]byte, error) {
	mixed := make([]byte, nonceLen)
	for ii := range mixed {
		mixed[ii] = local[ii] ^ remote[ii]
	}

	if p.version == Version34 {
		return ecbEncrypt(p.localKey, mixed, false)
	}

	sealed, err := gcmSeal(p.localKey, local[:gcmIVLen], mixed, nil)
	if err != nil {
		return nil, err
	}

	return sealed[:nonceLen], nil
}

// Wraps and writes a single client frame.
func (p *protocol) send(w io.Writer, seq uint32, cmd uint32, plain []byte) error {
	body, err := p.wrap(cmd, plain)
	if err != nil {
		return err
	}

	frame, err := p.framing().encode(&message{Seq: seq, Cmd: cmd, Payload: body})
	if err != nil {
		return err
	}

	_, err = w.Write(frame)
	return err
}

// Reads frames until one with any of expected commands arrives.
// Other pushes and heartbeats are skipped.
func readReply(r io.Reader, f *framing, cmds ...uint32) (*message, error) {
	for {
		msg, err := f.read(r, true)
		if err != nil {
			return nil, err
		}

		if !expected(msg.Cmd, cmds) {
			continue
		}

		if msg.HasRetCode && 0 != msg.RetCode {
			return nil, &ErrDeviceReturnCode{Code: msg.RetCode, Body: string(msg.Payload)}
		}

		return msg, nil
	}
}

func expected(cmd uint32, cmds []uint32) bool {
	for _, v := range cmds {
		if v == cmd {
			return true
		}
	}

	return false
}
