package tuya

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"

	"github.com/pkg/errors"
)

// Encrypts data with AES-128-ECB, optionally adding PKCS7 padding.
func ecbEncrypt(key, data []byte, pad bool) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "bad key")
	}

	if pad {
		data = pkcs7Pad(data, block.BlockSize())
	}

	if 0 != len(data)%block.BlockSize() {
		return nil, errors.New("data is not a multiple of the block size")
	}

	out := make([]byte, len(data))
	for ii := 0; ii < len(data); ii += block.BlockSize() {
		block.Encrypt(out[ii:ii+block.BlockSize()], data[ii:ii+block.BlockSize()])
	}

	return out, nil
}

// Decrypts AES-128-ECB data and strips PKCS7 padding if it's valid.
func ecbDecrypt(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "bad key")
	}

	if 0 == len(data) || 0 != len(data)%block.BlockSize() {
		return nil, errors.Errorf("encrypted payload length %d is not a multiple of the block size", len(data))
	}

	out := make([]byte, len(data))
	for ii := 0; ii < len(data); ii += block.BlockSize() {
		block.Decrypt(out[ii:ii+block.BlockSize()], data[ii:ii+block.BlockSize()])
	}

	return pkcs7Unpad(out), nil
}

// Seals data with AES-GCM; output is ciphertext followed by the tag.
func gcmSeal(key, iv, data, aad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return aead.Seal(nil, iv, data, aad), nil
}

// Opens AES-GCM ciphertext followed by the tag.
func gcmOpen(key, iv, data, aad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out, err := aead.Open(nil, iv, data, aad)
	if err != nil {
		return nil, errors.Wrap(err, "gcm authentication failed")
	}

	return out, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "bad key")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "gcm init failed")
	}

	return aead, nil
}

func hmacSHA256(key, data []byte) []byte {
	m := hmac.New(sha256.New, key)
	m.Write(data) // nolint: gosec, errcheck
	return m.Sum(nil)
}

func pkcs7Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte) []byte {
	if 0 == len(data) {
		return data
	}

	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return data
	}

	for _, v := range data[len(data)-n:] {
		if int(v) != n {
			return data
		}
	}

	return data[:len(data)-n]
}
