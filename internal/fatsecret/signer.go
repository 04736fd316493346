// Package fatsecret is a client for the FatSecret Platform REST API. Calls are
// authenticated with OAuth 1.0 HMAC-SHA1 signatures carried in the query
// string, using consumer-level credentials only.
package fatsecret

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const (
	// SignatureMethod is the only signature method FatSecret accepts for REST calls.
	SignatureMethod = "HMAC-SHA1"
	// OAuthVersion is sent as oauth_version on every call.
	OAuthVersion = "1.0"

	paramSignature = "oauth_signature"
)

// Credentials identify the application to FatSecret. Values are immutable;
// switching credentials means building a new Client.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
}

// Valid reports whether both halves of the credential pair are set.
func (c Credentials) Valid() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// SignedRequest is an outbound call before transmission. Params holds raw,
// unencoded values; oauth_signature is added by Sign.
type SignedRequest struct {
	Method   string
	Endpoint string
	Params   map[string]string
}

// PercentEncode encodes s per RFC 3986: unreserved characters are kept, every
// other byte becomes %XX with uppercase hex.
func PercentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

// NormalizeParams builds the sorted key=value string used in the signature
// base string. oauth_signature is always left out.
func NormalizeParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == paramSignature {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + PercentEncode(params[k])
	}
	return strings.Join(pairs, "&")
}

// SignatureBaseString returns METHOD&enc(endpoint)&enc(normalized params).
func SignatureBaseString(method, endpoint string, params map[string]string) string {
	return strings.ToUpper(method) + "&" + PercentEncode(endpoint) + "&" + PercentEncode(NormalizeParams(params))
}

// SigningKey returns the HMAC key. The token secret is always empty.
func SigningKey(consumerSecret string) string {
	return PercentEncode(consumerSecret) + "&"
}

// Signature computes the base64 HMAC-SHA1 signature for a request.
func Signature(method, endpoint string, params map[string]string, consumerSecret string) string {
	mac := hmac.New(sha1.New, []byte(SigningKey(consumerSecret)))
	mac.Write([]byte(SignatureBaseString(method, endpoint, params)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Sign computes the signature over every other parameter and stores it as
// oauth_signature.
func (r *SignedRequest) Sign(consumerSecret string) string {
	sig := Signature(r.Method, r.Endpoint, r.Params, consumerSecret)
	r.Params[paramSignature] = sig
	return sig
}

// Encode renders the query string, signature included, with keys sorted.
func (r *SignedRequest) Encode() string {
	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = PercentEncode(k) + "=" + PercentEncode(r.Params[k])
	}
	return strings.Join(pairs, "&")
}

// URL returns the endpoint with the encoded query string appended.
func (r *SignedRequest) URL() string {
	return r.Endpoint + "?" + r.Encode()
}

// RandomNonce returns 16 random bytes, hex encoded.
func RandomNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(b), nil
}
