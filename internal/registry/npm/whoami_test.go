package npm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johanforsgren/upmsetup/internal/domain"
)

func TestWhoAmI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/-/whoami" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer npm_0123456789" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		w.Write([]byte(`{"username":"bob"}`))
	}))
	defer srv.Close()

	v := NewVerifier(srv.Client())

	tests := []struct {
		name     string
		registry string
		token    string
		want     string
		wantErr  error
	}{
		{name: "valid token", registry: srv.URL + "/", token: "npm_0123456789", want: "bob"},
		{name: "no trailing slash", registry: srv.URL, token: "npm_0123456789", want: "bob"},
		{name: "wrong token", registry: srv.URL, token: "npm_other_token", wantErr: domain.ErrProtocol},
		{name: "empty token", registry: srv.URL, token: "", wantErr: domain.ErrValidation},
		{name: "empty registry", registry: "", token: "npm_0123456789", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.WhoAmI(context.Background(), tt.registry, tt.token)
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

func TestWhoAmIWithoutUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewVerifier(srv.Client()).WhoAmI(context.Background(), srv.URL, "npm_0123456789")
	if !errors.Is(err, domain.ErrParse) {
		t.Errorf("WhoAmI() error = %v, want parse error", err)
	}
}
