package listener

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// logSink collects zerolog JSON lines.
type logSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *logSink) entries(t *testing.T) []map[string]interface{} {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(s.buf.Bytes()))
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", scanner.Text(), err)
		}
		out = append(out, entry)
	}
	return out
}

// find returns the first entry at level whose message contains msg.
func (s *logSink) find(t *testing.T, level, msg string) map[string]interface{} {
	t.Helper()
	for _, entry := range s.entries(t) {
		message, _ := entry["message"].(string)
		if entry["level"] == level && strings.Contains(message, msg) {
			return entry
		}
	}
	return nil
}

func newTestLogger() (zerolog.Logger, *logSink) {
	sink := &logSink{}
	return zerolog.New(sink).Level(zerolog.DebugLevel), sink
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// capturedRequest is what a recording round tripper saw.
type capturedRequest struct {
	Method  string
	URL     string
	Header  http.Header
	Body    []byte
	Calls   int
	mu      sync.Mutex
	respond int
}

func (c *capturedRequest) client() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.Calls++
		c.Method = req.Method
		c.URL = req.URL.String()
		c.Header = req.Header.Clone()
		if req.Body != nil {
			c.Body, _ = io.ReadAll(req.Body)
		}
		status := c.respond
		if status == 0 {
			status = http.StatusOK
		}
		return &http.Response{
			StatusCode: status,
			Status:     strconv.Itoa(status) + " " + http.StatusText(status),
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    req,
		}, nil
	})}
}
