package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const dateLayout = "2006-01-02T15:04:05Z"

type userDocument struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Type     string   `json:"type"`
	Roles    []string `json:"roles"`
	Date     string   `json:"date"`
	OK       string   `json:"ok,omitempty"`
}

// UserURL is the couchdb user document of username on the registry. The
// name goes into the path as typed; ValidateUsername only admits characters
// that are legal in a path segment.
func UserURL(registryURL, username string) string {
	raw := fmt.Sprintf("%s/-/user/org.couchdb.user:%s", registryURL, username)
	return strings.Replace(raw, "//-", "/-", 1)
}

func newUserDocument(username, password string, now time.Time) userDocument {
	return userDocument{
		ID:       "org.couchdb.user:" + username,
		Name:     username,
		Password: password,
		Type:     "user",
		Roles:    []string{},
		Date:     now.UTC().Format(dateLayout),
	}
}

func (s *Session) newRequest(ctx context.Context, kind RequestKind, now time.Time) (*http.Request, error) {
	creds := s.Credentials
	userURL := UserURL(creds.RegistryURL, creds.Username)

	var (
		method string
		target string
		doc    *userDocument
	)

	switch kind {
	case CreateUser:
		method, target = http.MethodPut, userURL
		d := newUserDocument(creds.Username, creds.Password, now)
		doc = &d
	case ReadUser:
		method, target = http.MethodGet, userURL+"?write=true"
	case ConfirmUser:
		method, target = http.MethodPut, userURL+"/-rev/undefined"
		d := newUserDocument(creds.Username, creds.Password, now)
		d.OK = fmt.Sprintf("%s '%s'", authenticatedMarker, creds.Username)
		doc = &d
	default:
		return nil, fmt.Errorf("unknown request kind %d", kind)
	}

	var body []byte
	if doc != nil {
		var err error
		body, err = json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode user document: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if doc == nil {
		req.Body = http.NoBody
		req.ContentLength = 0
	}

	req.Header.Set("npm-command", "adduser")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	if kind == ConfirmUser {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	return req, nil
}
