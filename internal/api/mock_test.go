package api

import (
	"bytes"
	"io"
	"net/url"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// mockHTTPClient is a mock implementation of tls_client.HttpClient for testing
type mockHTTPClient struct {
	doFunc func(req *fhttp.Request) (*fhttp.Response, error)

	mu         sync.Mutex
	requests   []*fhttp.Request
	bodies     [][]byte
	idleClosed bool
}

func (m *mockHTTPClient) GetCookies(u *url.URL) []*fhttp.Cookie { return nil }
func (m *mockHTTPClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}
func (m *mockHTTPClient) SetCookieJar(jar fhttp.CookieJar) {}
func (m *mockHTTPClient) GetCookieJar() fhttp.CookieJar { return nil }
func (m *mockHTTPClient) SetProxy(proxyURL string) error { return nil }
func (m *mockHTTPClient) GetProxy() string { return "" }
func (m *mockHTTPClient) SetFollowRedirect(followRedirect bool) {}
func (m *mockHTTPClient) GetFollowRedirect() bool { return false }
func (m *mockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }
func (m *mockHTTPClient) Get(url string) (*fhttp.Response, error) { return nil, nil }
func (m *mockHTTPClient) Head(url string) (*fhttp.Response, error) { return nil, nil }
func (m *mockHTTPClient) Post(u, ct string, b io.Reader) (*fhttp.Response, error) { return nil, nil }

func (m *mockHTTPClient) CloseIdleConnections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleClosed = true
}

func (m *mockHTTPClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	m.mu.Unlock()

	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return newResponse(200, `{"response": ""}`), nil
}

func (m *mockHTTPClient) lastBody() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return nil
	}
	return m.bodies[len(m.bodies)-1]
}

func (m *mockHTTPClient) lastRequest() *fhttp.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// newResponse builds a response with the given status and body
func newResponse(status int, body string) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Body: io.NopCloser(bytes.NewReader([]byte(body))),
		Header: make(fhttp.Header),
	}
}

// respondWith returns a doFunc that always answers with status and body
func respondWith(status int, body string) func(*fhttp.Request) (*fhttp.Response, error) {
	return func(*fhttp.Request) (*fhttp.Response, error) {
		return newResponse(status, body), nil
	}
}
