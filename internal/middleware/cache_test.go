package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"text/csv"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/csv", gotHdr.Get("Content-Type"))
	assert.Equal(t, "a,b\n1,2\n", string(body))
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)

	bs, err := encodePayload(http.StatusOK, http.Header{"X": []string{"y"}}, nil)
	require.NoError(t, err)
	_, _, _, ok = decodePayload(bs[:10])
	assert.False(t, ok)
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	c1, _ := newRequest(t, "", nil)
	c1.Request().URL.RawQuery = "from=2024-01-01"
	c2, _ := newRequest(t, "", nil)
	c2.Request().URL.RawQuery = "from=2024-02-01"

	assert.NotEqual(t, cacheKey("p", c1), cacheKey("p", c2))
	assert.Equal(t, cacheKey("p", c1), cacheKey("p", c1))
}

func TestRateKeyIncludesActor(t *testing.T) {
	c, _ := newRequest(t, "", nil)
	c.SetPath("/login")
	assert.Contains(t, rateKey("rl", c), ":user:anon:route:GET /login")

	withIdentity(c, "admin")
	assert.Contains(t, rateKey("rl", c), ":user:3:")
}
