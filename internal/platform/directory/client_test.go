package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	return NewClient(url, time.Second, zerolog.Nop())
}

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/facilities/BF-CHU-BOBO" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "BF-CHU-BOBO",
			"name": "CHU Sanou Souro",
			"short_code": "BOBO",
			"type": "CHU",
			"level": "tertiary",
			"region_name": "Hauts-Bassins",
			"city": "Bobo-Dioulasso"
		}`))
	}))
	defer srv.Close()

	fac := newClient(t, srv.URL).Lookup(context.Background(), "BF-CHU-BOBO")
	if fac == nil {
		t.Fatal("expected facility, got nil")
	}
	if fac.Name != "CHU Sanou Souro" || fac.City != "Bobo-Dioulasso" {
		t.Errorf("unexpected facility %+v", fac)
	}
	if fac.LogoColor != "#0047AB" {
		t.Errorf("logo color %q, want CHU blue", fac.LogoColor)
	}
}

func TestLookupFailuresReturnNil(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	badJSON := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{broken`))
	}))
	defer badJSON.Close()

	down := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	down.Close()

	tests := []struct {
		name string
		url  string
		id   string
	}{
		{"not found", notFound.URL, "BF-UNKNOWN"},
		{"malformed response", badJSON.URL, "BF-CHU-YALG"},
		{"connection refused", down.URL, "BF-CHU-YALG"},
		{"empty facility id", notFound.URL, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if fac := newClient(t, tt.url).Lookup(context.Background(), tt.id); fac != nil {
				t.Errorf("want nil, got %+v", fac)
			}
		})
	}
}

func TestLookupTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"id":"BF-CHU-YALG","name":"CHU Yalgado"}`))
	}))
	defer slow.Close()

	c := NewClient(slow.URL, 50*time.Millisecond, zerolog.Nop())
	if fac := c.Lookup(context.Background(), "BF-CHU-YALG"); fac != nil {
		t.Errorf("want nil on timeout, got %+v", fac)
	}
}

func TestColorForType(t *testing.T) {
	tests := []struct {
		facilityType string
		want         string
	}{
		{"CHU", "#0047AB"},
		{"CHR", "#00A651"},
		{"CMA", "#FDB813"},
		{"CSPS", "#20B2AA"},
		{"clinic", "#0047AB"},
		{"", "#0047AB"},
	}
	for _, tt := range tests {
		if got := ColorForType(tt.facilityType); got != tt.want {
			t.Errorf("ColorForType(%q) = %q, want %q", tt.facilityType, got, tt.want)
		}
	}
}
