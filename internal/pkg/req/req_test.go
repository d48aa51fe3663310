package req

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"commongames/internal/pkg/errs"
)

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected Accept header, got %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":{"game_count":2}}`))
	}))
	defer srv.Close()

	var dst struct {
		Response struct {
			GameCount int `json:"game_count"`
		} `json:"response"`
	}
	if err := GetJSON(context.Background(), srv.Client(), srv.URL+"/x?key=abc", &dst); err != nil {
		t.Fatalf("get json: %v", err)
	}
	if dst.Response.GameCount != 2 {
		t.Fatalf("expected game_count 2, got %d", dst.Response.GameCount)
	}
}

func TestGetJSONMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>busy</html>`))
	}))
	defer srv.Close()

	var dst map[string]any
	err := GetJSON(context.Background(), srv.Client(), srv.URL+"/x?key=abc", &dst)
	if !errs.Is(err, errs.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if strings.Contains(err.Error(), "key=abc") {
		t.Fatalf("error leaked query string: %v", err)
	}
}

func TestGetUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), srv.Client(), srv.URL+"/api/appdetails?appids=1")
	if !errs.Is(err, errs.ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in message, got %v", err)
	}
	if got := StatusCode(err); got != http.StatusTooManyRequests {
		t.Fatalf("expected StatusCode 429, got %d", got)
	}
	if got := StatusCode(errors.New("plain")); got != 0 {
		t.Fatalf("expected StatusCode 0 for a plain error, got %d", got)
	}
}

func TestGetTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := Get(context.Background(), http.DefaultClient, url+"/x?key=supersecret")
	if !errs.Is(err, errs.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if strings.Contains(err.Error(), "supersecret") {
		t.Fatalf("error leaked api key: %v", err)
	}
}

func TestGetCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get(ctx, srv.Client(), srv.URL)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEndpointName(t *testing.T) {
	got := endpointName("https://api.steampowered.com/ISteamUser/GetFriendList/v1/?key=abc&steamid=1")
	if got != "api.steampowered.com/ISteamUser/GetFriendList/v1/" {
		t.Fatalf("unexpected endpoint name %q", got)
	}
}
