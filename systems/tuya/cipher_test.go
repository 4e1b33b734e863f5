package tuya

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef")

// Tests ECB round trip with padding.
func TestECBRoundTrip(t *testing.T) {
	for _, v := range []string{"", "a", "0123456789abcdef", `{"dps":{"20":true}}`} {
		enc, err := ecbEncrypt(testKey, []byte(v), true)
		require.NoError(t, err)
		assert.Equal(t, 0, len(enc)%16, v)
		assert.True(t, len(enc) > len(v), v)

		dec, err := ecbDecrypt(testKey, enc)
		require.NoError(t, err)
		assert.Equal(t, v, string(dec))
	}
}

// Tests ECB without padding.
func TestECBNoPad(t *testing.T) {
	_, err := ecbEncrypt(testKey, []byte("short"), false)
	assert.Error(t, err)

	enc, err := ecbEncrypt(testKey, testKey, false)
	require.NoError(t, err)
	assert.Len(t, enc, 16)
}

// Tests ECB decrypt input validation.
func TestECBDecryptErrors(t *testing.T) {
	_, err := ecbDecrypt(testKey, []byte("123"))
	assert.Error(t, err)

	_, err = ecbDecrypt(testKey, nil)
	assert.Error(t, err)

	_, err = ecbDecrypt([]byte("bad"), make([]byte, 16))
	assert.Error(t, err)
}

// Tests that invalid padding is left intact.
func TestPKCS7Unpad(t *testing.T) {
	assert.Equal(t, []byte("ab"), pkcs7Unpad([]byte{'a', 'b', 2, 2}))
	assert.Equal(t, []byte{'a', 'b', 3, 2}, pkcs7Unpad([]byte{'a', 'b', 3, 2}))
	assert.Equal(t, []byte{'a', 0}, pkcs7Unpad([]byte{'a', 0}))
	assert.Equal(t, []byte{}, pkcs7Unpad([]byte{}))
}

// Tests GCM seal/open with associated data.
func TestGCM(t *testing.T) {
	iv := make([]byte, 12)
	sealed, err := gcmSeal(testKey, iv, []byte("payload"), []byte("aad"))
	require.NoError(t, err)
	assert.Len(t, sealed, len("payload")+16)

	plain, err := gcmOpen(testKey, iv, sealed, []byte("aad"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(plain))

	_, err = gcmOpen(testKey, iv, sealed, []byte("other"))
	assert.Error(t, err)
}
