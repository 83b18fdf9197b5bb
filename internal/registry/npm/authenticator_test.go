package npm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/johanforsgren/upmsetup/internal/domain"
)

type reply struct {
	status int
	body   string
	gzip   bool
}

type fakeRegistry struct {
	t       *testing.T
	mu      sync.Mutex
	replies []reply
	reqs    []*http.Request
	bodies  []string
}

func newFakeRegistry(t *testing.T, replies ...reply) (*fakeRegistry, *httptest.Server) {
	f := &fakeRegistry{t: t, replies: replies}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body strings.Builder
	buf := make([]byte, 512)
	for {
		n, err := r.Body.Read(buf)
		body.Write(buf[:n])
		if err != nil {
			break
		}
	}
	f.reqs = append(f.reqs, r)
	f.bodies = append(f.bodies, body.String())

	idx := len(f.reqs) - 1
	if idx >= len(f.replies) {
		f.t.Errorf("Unexpected request %d: %s %s", idx+1, r.Method, r.URL)
		w.WriteHeader(http.StatusTeapot)
		return
	}

	rep := f.replies[idx]
	if rep.gzip {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(rep.status)
		gz := gzip.NewWriter(w)
		gz.Write([]byte(rep.body))
		gz.Close()
		return
	}
	w.WriteHeader(rep.status)
	w.Write([]byte(rep.body))
}

func (f *fakeRegistry) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

type recorder struct {
	mu     sync.Mutex
	infos  []string
	tokens []string
	errs   []error
}

func (r *recorder) callbacks() domain.AuthCallbacks {
	return domain.AuthCallbacks{
		OnInfo: func(m string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.infos = append(r.infos, m)
		},
		OnSuccess: func(token string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.tokens = append(r.tokens, token)
		},
		OnError: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
	}
}

func credsFor(srv *httptest.Server) domain.Credentials {
	return domain.Credentials{Username: "bob", Password: "secret1", RegistryURL: srv.URL + "/"}
}

func TestAuthenticateSuccess(t *testing.T) {
	reg, srv := newFakeRegistry(t,
		reply{status: 409, body: disabledBody},
		reply{status: 200, body: readBody},
		reply{status: 201, body: tokenBody},
	)
	auth := NewAuthenticator(srv.Client())
	auth.now = func() time.Time { return time.Date(2024, 3, 1, 10, 20, 30, 0, time.FixedZone("X", 3600)) }
	rec := &recorder{}

	token, err := auth.Authenticate(context.Background(), credsFor(srv), rec.callbacks())
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if token != "abc123" {
		t.Errorf("Token = %q, want abc123", token)
	}
	if len(rec.tokens) != 1 || rec.tokens[0] != "abc123" || len(rec.errs) != 0 {
		t.Errorf("Callbacks: tokens=%q errs=%v", rec.tokens, rec.errs)
	}
	if len(rec.infos) < 3 || !strings.HasPrefix(rec.infos[0], "Step 1/3") || !strings.HasPrefix(rec.infos[2], "Step 3/3") {
		t.Errorf("Infos = %q", rec.infos)
	}
	if auth.Busy() {
		t.Error("Authenticator still busy after success")
	}

	if reg.count() != 3 {
		t.Fatalf("Expected 3 requests, got %d", reg.count())
	}

	first, second, third := reg.reqs[0], reg.reqs[1], reg.reqs[2]
	const path = "/-/user/org.couchdb.user:bob"

	if first.Method != http.MethodPut || first.URL.Path != path {
		t.Errorf("Request 1 = %s %s", first.Method, first.URL)
	}
	if second.Method != http.MethodGet || second.URL.Path != path || second.URL.Query().Get("write") != "true" {
		t.Errorf("Request 2 = %s %s", second.Method, second.URL)
	}
	if third.Method != http.MethodPut || third.URL.Path != path+"/-rev/undefined" {
		t.Errorf("Request 3 = %s %s", third.Method, third.URL)
	}

	for i, r := range reg.reqs {
		if r.Header.Get("npm-command") != "adduser" {
			t.Errorf("Request %d: npm-command = %q", i+1, r.Header.Get("npm-command"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Request %d: Content-Type = %q", i+1, r.Header.Get("Content-Type"))
		}
	}

	if _, _, ok := first.BasicAuth(); ok {
		t.Error("Request 1 should not carry basic auth")
	}
	if user, pass, ok := third.BasicAuth(); !ok || user != "bob" || pass != "secret1" {
		t.Errorf("Request 3 basic auth = %q %q %v", user, pass, ok)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(reg.bodies[0]), &doc); err != nil {
		t.Fatalf("Request 1 body is not JSON: %v", err)
	}
	if doc["_id"] != "org.couchdb.user:bob" || doc["name"] != "bob" || doc["type"] != "user" {
		t.Errorf("Request 1 body = %v", doc)
	}
	if doc["date"] != "2024-03-01T09:20:30Z" {
		t.Errorf("Date = %v", doc["date"])
	}
	if _, ok := doc["ok"]; ok {
		t.Error("Request 1 body should not carry ok")
	}
	if reg.bodies[1] != "" {
		t.Errorf("Request 2 body = %q, want empty", reg.bodies[1])
	}
	if !strings.Contains(reg.bodies[2], `"ok":"you are authenticated as 'bob'"`) {
		t.Errorf("Request 3 body = %s", reg.bodies[2])
	}
}

func TestAuthenticateGzipResponse(t *testing.T) {
	_, srv := newFakeRegistry(t,
		reply{status: 409, body: disabledBody, gzip: true},
		reply{status: 200, body: readBody, gzip: true},
		reply{status: 201, body: tokenBody, gzip: true},
	)

	token, err := NewAuthenticator(srv.Client()).Authenticate(context.Background(), credsFor(srv), domain.AuthCallbacks{})
	if err != nil || token != "abc123" {
		t.Errorf("Authenticate() = %q, %v", token, err)
	}
}

func TestAuthenticateSecondRejection(t *testing.T) {
	reg, srv := newFakeRegistry(t,
		reply{status: 409, body: disabledBody},
		reply{status: 409, body: disabledBody},
	)
	rec := &recorder{}

	_, err := NewAuthenticator(srv.Client()).Authenticate(context.Background(), credsFor(srv), rec.callbacks())
	if !errors.Is(err, domain.ErrProtocol) || !strings.Contains(err.Error(), "cannot find user") {
		t.Errorf("Authenticate() error = %v", err)
	}
	if reg.count() != 2 {
		t.Errorf("Expected 2 requests, got %d", reg.count())
	}
	if len(rec.errs) != 1 || len(rec.tokens) != 0 {
		t.Errorf("Callbacks: tokens=%q errs=%v", rec.tokens, rec.errs)
	}
}

func TestAuthenticateValidationSendsNothing(t *testing.T) {
	reg, srv := newFakeRegistry(t)
	rec := &recorder{}
	auth := NewAuthenticator(srv.Client())

	creds := credsFor(srv)
	creds.Password = ""

	_, err := auth.Authenticate(context.Background(), creds, rec.callbacks())
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Authenticate() error = %v, want validation error", err)
	}
	if reg.count() != 0 {
		t.Errorf("Expected no requests, got %d", reg.count())
	}
	if len(rec.errs) != 1 || len(rec.infos) != 0 {
		t.Errorf("Callbacks: infos=%q errs=%v", rec.infos, rec.errs)
	}
	if auth.Busy() {
		t.Error("Authenticator still busy after validation failure")
	}
}

func TestAuthenticateUnhandledStatus(t *testing.T) {
	_, srv := newFakeRegistry(t, reply{status: 503, body: "maintenance"})
	rec := &recorder{}

	_, err := NewAuthenticator(srv.Client()).Authenticate(context.Background(), credsFor(srv), rec.callbacks())
	if err == nil || !strings.Contains(err.Error(), "unhandled response: status=503, message=maintenance") {
		t.Errorf("Authenticate() error = %v", err)
	}
	if len(rec.errs) != 1 {
		t.Errorf("Error callback called %d times", len(rec.errs))
	}
}

func TestAuthenticateCancelledContext(t *testing.T) {
	_, srv := newFakeRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAuthenticator(srv.Client()).Authenticate(ctx, credsFor(srv), domain.AuthCallbacks{})
	if !errors.Is(err, domain.ErrProtocol) || !strings.Contains(err.Error(), "canceled") {
		t.Errorf("Authenticate() error = %v", err)
	}
}

func TestStartRejectsConcurrentLogin(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		switch n {
		case 1:
			close(arrived)
			<-release
			w.WriteHeader(409)
			w.Write([]byte(disabledBody))
		case 2:
			w.WriteHeader(200)
			w.Write([]byte(readBody))
		default:
			w.WriteHeader(201)
			w.Write([]byte(tokenBody))
		}
	}))
	defer srv.Close()

	auth := NewAuthenticator(srv.Client())
	first := &recorder{}
	results := auth.Start(context.Background(), credsFor(srv), first.callbacks())

	<-arrived
	if !auth.Busy() {
		t.Error("Busy() = false while a login is running")
	}

	second := &recorder{}
	_, err := auth.Authenticate(context.Background(), credsFor(srv), second.callbacks())
	if !errors.Is(err, domain.ErrBusy) {
		t.Errorf("Concurrent Authenticate() error = %v, want ErrBusy", err)
	}
	if len(second.errs) != 1 {
		t.Errorf("Busy error callback called %d times", len(second.errs))
	}

	rejected := <-auth.Start(context.Background(), credsFor(srv), domain.AuthCallbacks{})
	if !errors.Is(rejected.Err, domain.ErrBusy) {
		t.Errorf("Concurrent Start() error = %v, want ErrBusy", rejected.Err)
	}

	close(release)

	res, ok := <-results
	if !ok {
		t.Fatal("Result channel closed without a result")
	}
	if res.Err != nil || res.Token != "abc123" {
		t.Errorf("First login = %+v", res)
	}
	if _, ok := <-results; ok {
		t.Error("Result channel delivered more than one result")
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	if len(first.tokens) != 1 || len(first.errs) != 0 {
		t.Errorf("First login callbacks: tokens=%q errs=%v", first.tokens, first.errs)
	}
	if auth.Busy() {
		t.Error("Authenticator still busy after login finished")
	}
}
