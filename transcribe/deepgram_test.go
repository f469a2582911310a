package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeepgram_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" || r.URL.Query().Get("model") != "nova-2" || r.URL.Query().Get("smart_format") != "true" {
			http.Error(w, "bad request line", http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Token dg-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["url"] != "https://cdn/a.mp3" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"hello world","words":[
			{"word":"hello","punctuated_word":"Hello","start":0.08,"end":0.4},
			{"word":"world","punctuated_word":"world.","start":0.4,"end":0.9},
			{"word":"again","start":1.0,"end":1.3}
		]}]}]}}`))
	}))
	defer srv.Close()

	dg := NewDeepgram(DeepgramConfig{APIKey: "dg-key", BaseURL: srv.URL})
	words, err := dg.Transcribe(context.Background(), "https://cdn/a.mp3")
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[0].Word != "Hello" || words[1].Word != "world." || words[2].Word != "again" {
		t.Fatalf("unexpected words: %+v", words)
	}
	if words[1].Start != 0.4 || words[1].End != 0.9 {
		t.Fatalf("unexpected timing: %+v", words[1])
	}
}

func TestDeepgram_TranscribeErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"err_msg":"boom"}`},
		{"no channels", http.StatusOK, `{"results":{"channels":[]}}`},
		{"malformed", http.StatusOK, `{"results":`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				w.Write([]byte(c.body))
			}))
			defer srv.Close()

			dg := NewDeepgram(DeepgramConfig{APIKey: "k", BaseURL: srv.URL})
			if _, err := dg.Transcribe(context.Background(), "https://cdn/a.mp3"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
