package fatsecret

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "https://platform.fatsecret.com/rest/server.api"

func sampleParams() map[string]string {
	return map[string]string{
		"method":                 "food.search",
		"format":                 "json",
		"oauth_consumer_key":     "demo-key",
		"oauth_nonce":            "abc123",
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        "1700000000",
		"oauth_version":          "1.0",
		"search_expression":      "banana split",
		"max_results":            "10",
		"page_number":            "0",
	}
}

func TestPercentEncode(t *testing.T) {
	t.Run("keeps unreserved characters", func(t *testing.T) {
		unreserved := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"
		assert.Equal(t, unreserved, PercentEncode(unreserved))
	})

	t.Run("encodes everything else with uppercase hex", func(t *testing.T) {
		assert.Equal(t, "banana%20split", PercentEncode("banana split"))
		assert.Equal(t, "a%2Bb%3Dc%26d", PercentEncode("a+b=c&d"))
		assert.Equal(t, "%21%2A%27%28%29", PercentEncode("!*'()"))
		assert.Equal(t, "https%3A%2F%2Fexample.com%2Fx", PercentEncode("https://example.com/x"))
	})

	t.Run("encodes multi-byte characters byte by byte", func(t *testing.T) {
		assert.Equal(t, "feij%C3%A3o", PercentEncode("feijão"))
	})

	t.Run("round trips through url unescaping", func(t *testing.T) {
		for _, s := range []string{"arroz e feijão", "100% natural", "a/b?c#d", "~tilde~"} {
			decoded, err := url.PathUnescape(PercentEncode(s))
			require.NoError(t, err)
			assert.Equal(t, s, decoded)
		}
	})
}

func TestNormalizeParams(t *testing.T) {
	t.Run("sorts keys and encodes values", func(t *testing.T) {
		got := NormalizeParams(sampleParams())
		want := "format=json&max_results=10&method=food.search&oauth_consumer_key=demo-key" +
			"&oauth_nonce=abc123&oauth_signature_method=HMAC-SHA1&oauth_timestamp=1700000000" +
			"&oauth_version=1.0&page_number=0&search_expression=banana%20split"
		assert.Equal(t, want, got)
	})

	t.Run("ignores oauth_signature", func(t *testing.T) {
		params := sampleParams()
		clean := NormalizeParams(params)
		params["oauth_signature"] = "stale"
		assert.Equal(t, clean, NormalizeParams(params))
	})
}

func TestSignatureBaseString(t *testing.T) {
	got := SignatureBaseString("get", testEndpoint, sampleParams())
	want := "GET&https%3A%2F%2Fplatform.fatsecret.com%2Frest%2Fserver.api&format%3Djson" +
		"%26max_results%3D10%26method%3Dfood.search%26oauth_consumer_key%3Ddemo-key" +
		"%26oauth_nonce%3Dabc123%26oauth_signature_method%3DHMAC-SHA1" +
		"%26oauth_timestamp%3D1700000000%26oauth_version%3D1.0%26page_number%3D0" +
		"%26search_expression%3Dbanana%2520split"
	assert.Equal(t, want, got)
}

func TestSignature(t *testing.T) {
	t.Run("matches known value", func(t *testing.T) {
		assert.Equal(t, "e+vfea8unXJE8PDMMn4dJrfa+4c=", Signature("GET", testEndpoint, sampleParams(), "demo-secret"))
	})

	t.Run("is deterministic", func(t *testing.T) {
		first := Signature("GET", testEndpoint, sampleParams(), "demo-secret")
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Signature("GET", testEndpoint, sampleParams(), "demo-secret"))
		}
	})

	t.Run("uses encoded consumer secret with empty token secret", func(t *testing.T) {
		secret := "s3cr&t"
		assert.Equal(t, "s3cr%26t&", SigningKey(secret))

		mac := hmac.New(sha1.New, []byte("s3cr%26t&"))
		mac.Write([]byte(SignatureBaseString("POST", testEndpoint, sampleParams())))
		want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		assert.Equal(t, want, Signature("POST", testEndpoint, sampleParams(), secret))
	})

	t.Run("excludes oauth_signature from input", func(t *testing.T) {
		params := sampleParams()
		params["oauth_signature"] = "garbage"
		assert.Equal(t, "e+vfea8unXJE8PDMMn4dJrfa+4c=", Signature("GET", testEndpoint, params, "demo-secret"))
	})

	t.Run("changes with the method", func(t *testing.T) {
		assert.NotEqual(t,
			Signature("GET", testEndpoint, sampleParams(), "demo-secret"),
			Signature("POST", testEndpoint, sampleParams(), "demo-secret"))
	})
}

func TestSignedRequest(t *testing.T) {
	req := &SignedRequest{Method: "GET", Endpoint: testEndpoint, Params: sampleParams()}
	sig := req.Sign("demo-secret")

	assert.Equal(t, "e+vfea8unXJE8PDMMn4dJrfa+4c=", sig)
	assert.Equal(t, sig, req.Params["oauth_signature"])

	u, err := url.Parse(req.URL())
	require.NoError(t, err)
	assert.Equal(t, "platform.fatsecret.com", u.Host)

	q := u.Query()
	assert.Equal(t, sig, q.Get("oauth_signature"))
	assert.Equal(t, "banana split", q.Get("search_expression"))

	// signing again over the same params is stable
	assert.Equal(t, sig, req.Sign("demo-secret"))
}

func TestRandomNonce(t *testing.T) {
	a, err := RandomNonce()
	require.NoError(t, err)
	b, err := RandomNonce()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
