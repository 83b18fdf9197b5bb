package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johanforsgren/upmsetup/internal/domain"
)

func TestIsGitHubRegistry(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{url: "https://npm.pkg.github.com/", want: true},
		{url: "https://NPM.pkg.github.com/owner", want: true},
		{url: "https://registry.npmjs.org/", want: false},
		{url: "http://registry.tiltingpoint.io/", want: false},
		{url: "::not a url", want: false},
	}

	for _, tt := range tests {
		if got := IsGitHubRegistry(tt.url); got != tt.want {
			t.Errorf("IsGitHubRegistry(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func newAPI(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			http.NotFound(w, r)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer ghp_valid":
			w.Header().Set("X-OAuth-Scopes", "repo, read:packages")
			w.Write([]byte(`{"login":"octocat","id":1}`))
		case "Bearer ghp_anonymous":
			w.Write([]byte(`{"id":2}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Bad credentials"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	srv := newAPI(t)
	v, err := NewVerifier(srv.Client()).WithBaseURL(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr error
	}{
		{name: "valid", token: "ghp_valid", want: "octocat"},
		{name: "bad credentials", token: "ghp_wrong", wantErr: domain.ErrProtocol},
		{name: "no login", token: "ghp_anonymous", wantErr: domain.ErrParse},
		{name: "empty", token: "", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.WhoAmI(context.Background(), "https://npm.pkg.github.com/", tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("WhoAmI() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("WhoAmI() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WhoAmI() = %q, want %q", got, tt.want)
			}
		})
	}
}
