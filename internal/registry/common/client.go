package common

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const maxBodySize = 1 << 20

// NewHTTPClient returns a client whose traffic is written to the session
// log. A zero timeout leaves requests unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: NewLoggingTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// ReadBody reads and closes a response body, undoing a gzip or deflate
// content encoding. Requests that set Accept-Encoding themselves get the
// body from net/http still encoded.
func ReadBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to decode gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to decode deflate body: %w", err)
		}
		defer zr.Close()
		reader = zr
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(data), nil
}
