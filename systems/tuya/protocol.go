package tuya

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Version specific payload handling.
type protocol struct {
	version    string
	devID      string
	localKey   []byte
	sessionKey []byte
}

func newProtocol(version string, devID string, localKey []byte) (*protocol, error) {
	switch version {
	case Version33, Version34, Version35:
	default:
		return nil, &ErrUnsupportedVersion{Version: version}
	}

	if len(localKey) != 16 {
		return nil, errors.Errorf("local key must be 16 bytes long, got %d", len(localKey))
	}

	return &protocol{
		version:  version,
		devID:    devID,
		localKey: localKey,
	}, nil
}

// Whether protocol requires session key negotiation.
func (p *protocol) needsSession() bool {
	return p.version != Version33
}

func (p *protocol) key() []byte {
	if nil != p.sessionKey {
		return p.sessionKey
	}

	return p.localKey
}

func (p *protocol) framing() *framing {
	return &framing{
		gcm:  p.version == Version35,
		hmac: p.version == Version34,
		key:  p.key(),
	}
}

func (p *protocol) controlCommand() uint32 {
	if p.version == Version33 {
		return cmdControl
	}

	return cmdControlNew
}

func (p *protocol) queryCommand() uint32 {
	if p.version == Version33 {
		return cmdDPQuery
	}

	return cmdDPQueryNew
}

// Builds plain JSON request body.
func (p *protocol) request(cmd uint32, dps map[string]interface{}, now time.Time) ([]byte, error) {
	var body interface{}
	ts := now.Unix()

	switch cmd {
	case cmdControl:
		body = map[string]interface{}{
			"devId": p.devID,
			"uid":   p.devID,
			"t":     strconv.FormatInt(ts, 10),
			"dps":   dps,
		}
	case cmdDPQuery:
		body = map[string]interface{}{
			"gwId":  p.devID,
			"devId": p.devID,
			"uid":   p.devID,
			"t":     strconv.FormatInt(ts, 10),
		}
	case cmdControlNew:
		body = map[string]interface{}{
			"protocol": 5,
			"t":        ts,
			"data":     map[string]interface{}{"dps": dps},
		}
	case cmdDPQueryNew:
		body = map[string]interface{}{}
	default:
		return nil, errors.Errorf("command 0x%02x has no request body", cmd)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal failed")
	}

	return data, nil
}

// Encrypts plain payload and adds version header where required.
func (p *protocol) wrap(cmd uint32, plain []byte) ([]byte, error) {
	switch p.version {
	case Version33:
		enc, err := ecbEncrypt(p.localKey, plain, true)
		if err != nil {
			return nil, err
		}
		if withVersionHeader(cmd) {
			enc = append(p.versionHeader(), enc...)
		}
		return enc, nil
	case Version34:
		if withVersionHeader(cmd) {
			plain = append(p.versionHeader(), plain...)
		}
		return ecbEncrypt(p.key(), plain, true)
	default:
		if withVersionHeader(cmd) {
			plain = append(p.versionHeader(), plain...)
		}
		return plain, nil
	}
}

// Reverses wrap. 3.5 payloads are already decrypted by the framing.
func (p *protocol) unwrap(payload []byte) ([]byte, error) {
	if 0 == len(payload) {
		return nil, nil
	}

	switch p.version {
	case Version33:
		payload = p.stripVersionHeader(payload)
		if 0 == len(payload) || json.Valid(payload) {
			return payload, nil
		}
		return ecbDecrypt(p.localKey, payload)
	case Version34:
		dec, err := ecbDecrypt(p.key(), payload)
		if err != nil {
			return nil, err
		}
		return p.stripVersionHeader(dec), nil
	default:
		return p.stripVersionHeader(payload), nil
	}
}

func (p *protocol) versionHeader() []byte {
	return append([]byte(p.version), make([]byte, versionPadLen)...)
}

func (p *protocol) stripVersionHeader(data []byte) []byte {
	if bytes.HasPrefix(data, []byte(p.version)) && len(data) >= len(p.version)+versionPadLen {
		return data[len(p.version)+versionPadLen:]
	}

	return data
}

func withVersionHeader(cmd uint32) bool {
	switch cmd {
	case cmdDPQuery, cmdDPQueryNew, cmdHeartBeat,
		cmdSessKeyNegStart, cmdSessKeyNegResp, cmdSessKeyNegFinish:
		return false
	}

	return true
}

// Extracts data points from either 3.3 or 3.4+ JSON shape.
func parseDPS(plain []byte) (map[string]interface{}, error) {
	resp := struct {
		DPS  map[string]interface{} `json:"dps"`
		Data struct {
			DPS map[string]interface{} `json:"dps"`
		} `json:"data"`
	}{}

	if err := json.Unmarshal(plain, &resp); err != nil {
		return nil, errors.Errorf("unexpected device response: %s", string(plain))
	}

	if nil != resp.DPS {
		return resp.DPS, nil
	}

	if nil != resp.Data.DPS {
		return resp.Data.DPS, nil
	}

	return map[string]interface{}{}, nil
}
