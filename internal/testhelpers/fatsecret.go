package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nutriconsulta/backend/internal/fatsecret"
)

// FakeFatSecret is an in-process FatSecret server. It rejects requests whose
// signature does not verify and answers each API method with a canned body.
type FakeFatSecret struct {
	Server      *httptest.Server
	Credentials fatsecret.Credentials

	mu        sync.Mutex
	responses map[string]string
	calls     map[string]int
}

// NewFakeFatSecret starts a fake server that is closed when t ends.
func NewFakeFatSecret(t *testing.T) *FakeFatSecret {
	t.Helper()
	f := &FakeFatSecret{
		Credentials: fatsecret.Credentials{ConsumerKey: "test-key", ConsumerSecret: "test-secret"},
		responses:   map[string]string{},
		calls:       map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// Respond sets the body returned for an API method such as "food.search".
func (f *FakeFatSecret) Respond(apiMethod, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[apiMethod] = body
}

// Calls returns how many signed requests were received for apiMethod.
func (f *FakeFatSecret) Calls(apiMethod string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[apiMethod]
}

// Client returns a client pointed at the fake server.
func (f *FakeFatSecret) Client(opts ...fatsecret.Option) *fatsecret.Client {
	base := []fatsecret.Option{
		fatsecret.WithBaseURL(f.Server.URL + "/rest/server.api"),
		fatsecret.WithProfileURL(f.Server.URL + "/rest/profile/v1"),
	}
	return fatsecret.NewClient(f.Credentials, append(base, opts...)...)
}

func (f *FakeFatSecret) handle(w http.ResponseWriter, r *http.Request) {
	params := map[string]string{}
	for k, v := range r.URL.Query() {
		params[k] = v[0]
	}

	endpoint := f.Server.URL + r.URL.Path
	want := fatsecret.Signature(r.Method, endpoint, params, f.Credentials.ConsumerSecret)
	w.Header().Set("Content-Type", "application/json")
	if params["oauth_signature"] != want {
		_, _ = w.Write([]byte(`{"error":{"code":8,"message":"Invalid signature"}}`))
		return
	}

	apiMethod := params["method"]
	f.mu.Lock()
	f.calls[apiMethod]++
	body, ok := f.responses[apiMethod]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":2,"message":"Unknown method"}}`))
		return
	}
	_, _ = w.Write([]byte(body))
}
