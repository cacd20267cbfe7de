package loki

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestPushEvent(t *testing.T) {
	var got PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad push body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := PushEvent(context.Background(), srv.URL, ts, `{"hello":"world"}`, map[string]string{"event_type": "login_success"})
	if err != nil {
		t.Fatalf("PushEvent: %v", err)
	}
	if len(got.Streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(got.Streams))
	}
	s := got.Streams[0]
	if s.Stream["job"] != "courier" || s.Stream["event_type"] != "login_success" {
		t.Errorf("unexpected labels: %v", s.Stream)
	}
	if len(s.Values) != 1 || s.Values[0][1] != `{"hello":"world"}` {
		t.Errorf("unexpected values: %v", s.Values)
	}
}

func TestPushEventNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := PushEvent(context.Background(), srv.URL, time.Now(), "line", nil); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestPushEventEmptyURL(t *testing.T) {
	if err := PushEvent(context.Background(), "", time.Now(), "line", nil); err == nil {
		t.Fatal("expected error on empty base URL")
	}
}

func TestPushEventJSONExtractsLabels(t *testing.T) {
	var got PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	raw := []byte(`{"username":"alice","event_type":"message_create","source":"server","created_at":"2025-06-01T12:00:00Z"}`)
	if err := PushEventJSON(context.Background(), srv.URL, raw); err != nil {
		t.Fatalf("PushEventJSON: %v", err)
	}
	s := got.Streams[0].Stream
	if s["username"] != "alice" || s["event_type"] != "message_create" || s["source"] != "server" {
		t.Errorf("unexpected labels: %v", s)
	}
	wantNS := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).UnixNano()
	if got.Streams[0].Values[0][0] != strconv.FormatInt(wantNS, 10) {
		t.Errorf("timestamp not taken from event: %v", got.Streams[0].Values[0][0])
	}
}
