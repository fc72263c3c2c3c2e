package repository

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-console/pkg/apiclient"
)

type hit struct {
	method string
	path   string
	body   map[string]interface{}
}

// fakeBackend records every request and answers with canned JSON keyed by "METHOD path".
type fakeBackend struct {
	mu        sync.Mutex
	hits      []hit
	responses map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeBackend(t *testing.T, responses map[string]fakeResponse) (*fakeBackend, *apiclient.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fb := &fakeBackend{responses: responses}
	r := gin.New()
	r.NoRoute(func(c *gin.Context) {
		var body map[string]interface{}
		if raw, _ := io.ReadAll(c.Request.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}
		path := c.Request.URL.EscapedPath()
		fb.mu.Lock()
		fb.hits = append(fb.hits, hit{method: c.Request.Method, path: path, body: body})
		fb.mu.Unlock()

		resp, ok := fb.responses[c.Request.Method+" "+path]
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		c.Data(resp.status, "application/json", []byte(resp.body))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fb, apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api/v1"})
}

func (f *fakeBackend) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.hits))
	for _, h := range f.hits {
		out = append(out, h.method+" "+h.path)
	}
	return out
}

func (f *fakeBackend) last() hit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[len(f.hits)-1]
}
