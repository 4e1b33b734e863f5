package tuya

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
)

// Single protocol frame.
type message struct {
	Seq        uint32
	Cmd        uint32
	RetCode    uint32
	HasRetCode bool
	Payload    []byte
}

// Frame codec parameters.
type framing struct {
	// 0x6699 GCM frames, protocol 3.5.
	gcm bool
	// HMAC-SHA256 trailer instead of CRC32, protocol 3.4.
	hmac bool
	// Integrity/encryption key.
	key []byte
}

func (f *framing) encode(msg *message) ([]byte, error) {
	if f.gcm {
		return f.encode6699(msg)
	}

	return f.encode55AA(msg), nil
}

func (f *framing) encode55AA(msg *message) []byte {
	body := msg.Payload
	if msg.HasRetCode {
		body = append(uint32Bytes(msg.RetCode), body...)
	}

	trailer := crcLen
	if f.hmac {
		trailer = hmacLen
	}

	buf := &bytes.Buffer{}
	writeUint32(buf, prefix55AA)
	writeUint32(buf, msg.Seq)
	writeUint32(buf, msg.Cmd)
	writeUint32(buf, uint32(len(body)+trailer+suffixLen))
	buf.Write(body)

	if f.hmac {
		buf.Write(hmacSHA256(f.key, buf.Bytes()))
	} else {
		writeUint32(buf, crc32.ChecksumIEEE(buf.Bytes()))
	}

	writeUint32(buf, suffix55AA)
	return buf.Bytes()
}

func (f *framing) encode6699(msg *message) ([]byte, error) {
	raw := msg.Payload
	if msg.HasRetCode {
		raw = append(uint32Bytes(msg.RetCode), raw...)
	}

	header := &bytes.Buffer{}
	writeUint32(header, prefix6699)
	header.Write([]byte{0, 0})
	writeUint32(header, msg.Seq)
	writeUint32(header, msg.Cmd)
	writeUint32(header, uint32(gcmIVLen+len(raw)+gcmTagLen))

	iv := make([]byte, gcmIVLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, errors.Wrap(err, "iv generation failed")
	}

	sealed, err := gcmSeal(f.key, iv, raw, header.Bytes()[4:])
	if err != nil {
		return nil, err
	}

	header.Write(iv)
	header.Write(sealed)
	writeUint32(header, suffix6699)
	return header.Bytes(), nil
}

// Reads and verifies a single frame from the stream.
// Return code is expected only in frames sent by a device.
func (f *framing) read(r io.Reader, withRetCode bool) (*message, error) {
	if f.gcm {
		return f.read6699(r, withRetCode)
	}

	return f.read55AA(r, withRetCode)
}

func (f *framing) read55AA(r io.Reader, withRetCode bool) (*message, error) {
	header := make([]byte, header55AALen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	if binary.BigEndian.Uint32(header[0:4]) != prefix55AA {
		return nil, &ErrBadFrame{Reason: "unexpected prefix"}
	}

	trailer := crcLen
	if f.hmac {
		trailer = hmacLen
	}

	length := int(binary.BigEndian.Uint32(header[12:16]))
	if length < trailer+suffixLen || length > maxFrameLen {
		return nil, &ErrBadFrame{Reason: "unexpected length"}
	}

	rest := make([]byte, length)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}

	if binary.BigEndian.Uint32(rest[length-suffixLen:]) != suffix55AA {
		return nil, &ErrBadFrame{Reason: "unexpected suffix"}
	}

	bodyEnd := length - suffixLen - trailer
	signed := append(append([]byte{}, header...), rest[:bodyEnd]...)
	sum := rest[bodyEnd : length-suffixLen]
	if f.hmac {
		if !bytes.Equal(sum, hmacSHA256(f.key, signed)) {
			return nil, &ErrBadFrame{Reason: "hmac mismatch"}
		}
	} else if binary.BigEndian.Uint32(sum) != crc32.ChecksumIEEE(signed) {
		return nil, &ErrBadFrame{Reason: "crc mismatch"}
	}

	msg := &message{
		Seq:     binary.BigEndian.Uint32(header[4:8]),
		Cmd:     binary.BigEndian.Uint32(header[8:12]),
		Payload: rest[:bodyEnd],
	}

	if withRetCode {
		splitRetCode(msg)
	}

	return msg, nil
}

func (f *framing) read6699(r io.Reader, withRetCode bool) (*message, error) {
	header := make([]byte, header6699Len)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	if binary.BigEndian.Uint32(header[0:4]) != prefix6699 {
		return nil, &ErrBadFrame{Reason: "unexpected prefix"}
	}

	length := int(binary.BigEndian.Uint32(header[14:18]))
	if length < gcmIVLen+gcmTagLen || length > maxFrameLen {
		return nil, &ErrBadFrame{Reason: "unexpected length"}
	}

	rest := make([]byte, length+suffixLen)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}

	if binary.BigEndian.Uint32(rest[length:]) != suffix6699 {
		return nil, &ErrBadFrame{Reason: "unexpected suffix"}
	}

	raw, err := gcmOpen(f.key, rest[:gcmIVLen], rest[gcmIVLen:length], header[4:])
	if err != nil {
		return nil, err
	}

	msg := &message{
		Seq:     binary.BigEndian.Uint32(header[6:10]),
		Cmd:     binary.BigEndian.Uint32(header[10:14]),
		Payload: raw,
	}

	if withRetCode {
		splitRetCode(msg)
	}

	return msg, nil
}

// Devices prepend 4 bytes return code, which always has upper 3 bytes zeroed.
func splitRetCode(msg *message) {
	if len(msg.Payload) < retCodeLen {
		return
	}

	code := binary.BigEndian.Uint32(msg.Payload[:retCodeLen])
	if 0 != code&0xFFFFFF00 {
		return
	}

	msg.RetCode = code
	msg.HasRetCode = true
	msg.Payload = msg.Payload[retCodeLen:]
}

func uint32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	buf.Write(uint32Bytes(v))
}
