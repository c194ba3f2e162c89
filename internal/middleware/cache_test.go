package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWriterSizeAndLimit(t *testing.T) {
	t.Run("unlimited captures everything", func(t *testing.T) {
		cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
		_, err := cw.Write([]byte("hello "))
		require.NoError(t, err)
		_, err = cw.Write([]byte("world"))
		require.NoError(t, err)
		assert.Equal(t, "hello world", cw.buf.String())
		assert.Equal(t, int64(11), cw.size)
	})

	t.Run("capture stops at limit but size keeps counting", func(t *testing.T) {
		cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 8}
		_, err := cw.Write([]byte("12345"))
		require.NoError(t, err)
		_, err = cw.Write([]byte("67890"))
		require.NoError(t, err)
		assert.Equal(t, "12345678", cw.buf.String())
		assert.Equal(t, int64(10), cw.size)
		assert.Greater(t, cw.size, cw.limit)
	})

	t.Run("write landing exactly on the limit still counts overflow", func(t *testing.T) {
		cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 8}
		_, err := cw.Write([]byte("12345678"))
		require.NoError(t, err)
		_, err = cw.Write([]byte("overflow"))
		require.NoError(t, err)
		assert.Equal(t, "12345678", cw.buf.String())
		assert.Equal(t, int64(16), cw.size)
		assert.Greater(t, cw.size, cw.limit)
	})

	t.Run("response within limit is complete", func(t *testing.T) {
		cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 64}
		_, err := cw.Write([]byte(`{"items":[]}`))
		require.NoError(t, err)
		assert.Equal(t, `{"items":[]}`, cw.buf.String())
		assert.LessOrEqual(t, cw.size, cw.limit)
	})
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Cache": {"MISS"}}
	body := []byte(`{"items":[],"limit":20,"offset":0}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, body, gotBody)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, []byte("short"), make([]byte, 8)} {
		_, _, _, ok := decodePayload(bs)
		if len(bs) == 8 {
			// Zero header length with no body decodes to an empty payload.
			assert.True(t, ok)
			continue
		}
		assert.False(t, ok)
	}
}
