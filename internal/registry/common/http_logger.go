package common

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/johanforsgren/upmsetup/internal/logger"
)

const maxLoggedBody = 10000

const redacted = "[REDACTED]"

// LoggingTransport wraps an http.RoundTripper and records every exchange in
// the session log. Credentials never reach the log.
type LoggingTransport struct {
	Transport http.RoundTripper
}

func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	t.logRequest(req)

	resp, err := t.Transport.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.LogError("HTTP_REQUEST", fmt.Sprintf("%s %s", req.Method, req.URL.Redacted()), err)
		return nil, err
	}

	t.logResponse(req, resp, duration)

	return resp, nil
}

func (t *LoggingTransport) logRequest(req *http.Request) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "HTTP %s %s\n", req.Method, req.URL.Redacted())
	writeHeaders(&buf, req.Header)

	if req.Body != nil && req.ContentLength > 0 && req.ContentLength < maxLoggedBody {
		bodyBytes, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			fmt.Fprintf(&buf, "  body: %s\n", RedactBody(bodyBytes))
		}
	} else if req.ContentLength > 0 {
		fmt.Fprintf(&buf, "  body: %d bytes\n", req.ContentLength)
	}

	logger.Log(strings.TrimRight(buf.String(), "\n"))
}

func (t *LoggingTransport) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "HTTP %s %s -> %s (%v)\n", req.Method, req.URL.Path, resp.Status, duration.Round(time.Millisecond))
	writeHeaders(&buf, resp.Header)

	if resp.Body != nil && resp.ContentLength != 0 && resp.Header.Get("Content-Encoding") == "" {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err == nil {
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			if len(bodyBytes) > 0 && len(bodyBytes) < maxLoggedBody {
				fmt.Fprintf(&buf, "  body: %s\n", RedactBody(bodyBytes))
			} else if len(bodyBytes) > 0 {
				fmt.Fprintf(&buf, "  body: %d bytes\n", len(bodyBytes))
			}
		}
	}

	logger.Log(strings.TrimRight(buf.String(), "\n"))
}

func writeHeaders(buf *bytes.Buffer, header http.Header) {
	for name, values := range header {
		if isSensitiveHeader(name) {
			fmt.Fprintf(buf, "  %s: %s\n", name, redacted)
			continue
		}
		for _, value := range values {
			fmt.Fprintf(buf, "  %s: %s\n", name, value)
		}
	}
}

// RedactBody masks the secret fields of a JSON document. Anything that is
// not a JSON object is returned unchanged.
func RedactBody(body []byte) string {
	text := string(body)
	if !gjson.Valid(text) || !gjson.Parse(text).IsObject() {
		return text
	}

	for _, field := range []string{"password", "token"} {
		if !gjson.Get(text, field).Exists() {
			continue
		}
		if masked, err := sjson.Set(text, field, redacted); err == nil {
			text = masked
		}
	}
	return text
}

func isSensitiveHeader(name string) bool {
	lowerName := strings.ToLower(name)
	sensitiveHeaders := []string{
		"authorization",
		"x-api-key",
		"api-key",
		"x-auth-token",
		"npm-otp",
		"cookie",
		"set-cookie",
	}

	for _, sensitive := range sensitiveHeaders {
		if lowerName == sensitive {
			return true
		}
	}

	return false
}
