package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storyreel/types"
)

func TestDiscord_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "bad content type", http.StatusBadRequest)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewDiscord(srv.URL).Send(context.Background(), types.Message{Title: "The lake Pt. 2", URL: "https://cdn/p2.mp4"})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if got["content"] != "The lake Pt. 2,https://cdn/p2.mp4" {
		t.Fatalf("content = %q", got["content"])
	}
}

func TestDiscord_SendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if err := NewDiscord(srv.URL).Send(context.Background(), types.Message{Title: "t"}); err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected 429 error, got %v", err)
	}
	if err := NewDiscord("").Send(context.Background(), types.Message{Title: "t"}); err == nil {
		t.Fatalf("expected error for missing webhook")
	}
}

type capturePublisher struct {
	key string
	v   any
	err error
}

func (c *capturePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	c.key, c.v = key, v
	return c.err
}

func TestKafka_Send(t *testing.T) {
	pub := &capturePublisher{}
	k := NewKafka(pub)
	fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	k.now = func() time.Time { return fixed }

	if err := k.Send(context.Background(), types.Message{Title: "Cabin Pt. 1", URL: "u"}); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	ev, ok := pub.v.(PartPublished)
	if !ok {
		t.Fatalf("published %T; want PartPublished", pub.v)
	}
	if pub.key != "Cabin Pt. 1" || ev.URL != "u" || !ev.PublishedAt.Equal(fixed) {
		t.Fatalf("unexpected event %q %+v", pub.key, ev)
	}
}

type recordSender struct {
	msgs []types.Message
	err  error
}

func (r *recordSender) Send(ctx context.Context, msg types.Message) error {
	r.msgs = append(r.msgs, msg)
	return r.err
}

func TestMulti_SendsToAll(t *testing.T) {
	boom := errors.New("boom")
	a := &recordSender{err: boom}
	b := &recordSender{}

	err := Multi{a, b, Discard{}}.Send(context.Background(), types.Message{Title: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("Send error = %v; want boom", err)
	}
	if len(a.msgs) != 1 || len(b.msgs) != 1 {
		t.Fatalf("every sender should receive the message: %d %d", len(a.msgs), len(b.msgs))
	}
	if err := (Multi{}).Send(context.Background(), types.Message{}); err != nil {
		t.Fatalf("empty Multi error: %v", err)
	}
}
