package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storyreel/types"
)

func testScene() types.SceneDescription {
	return types.SceneDescription{
		AudioURL: "https://cdn/audio/a.mp3",
		VideoURL: "https://cdn/video/v.mp4",
		Captions: []types.CaptionOverlay{
			{Text: "Once upon", Start: 0, Duration: 1.2},
			{Text: "a time", Start: 1.2, Duration: 0.8},
		},
		VideoDuration: 2,
		Style:         types.Style{FontFamily: "Playfair Display", FontWeight: 800, FontSize: 68, Color: "#FFFFFF", ShadowColor: "#000000", ShadowOffset: 4, SafeWidth: 864},
	}
}

func TestJSON2Video_SubmitAndAwait(t *testing.T) {
	var (
		mu        sync.Mutex
		submitted movie
		polls     int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "j2v" {
			http.Error(w, `{"success":false}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"success":true,"project":"prj1","timestamp":"now"}`))
		case http.MethodGet:
			if r.URL.Query().Get("project") != "prj1" {
				http.NotFound(w, r)
				return
			}
			polls++
			if polls < 3 {
				w.Write([]byte(`{"success":true,"movie":{"status":"running","message":"Rendering"}}`))
				return
			}
			w.Write([]byte(`{"success":true,"movie":{"status":"done","message":"","url":"https://assets.json2video.com/prj1.mp4"}}`))
		}
	}))
	defer srv.Close()

	r := NewJSON2Video(JSON2VideoConfig{APIKey: "j2v", BaseURL: srv.URL, Width: 1080, Height: 1920, Quality: "high"})
	job, err := r.Submit(context.Background(), testScene())
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if job.ID != "prj1" {
		t.Fatalf("job = %+v", job)
	}

	mu.Lock()
	if submitted.Width != 1080 || submitted.Height != 1920 || submitted.Quality != "high" || submitted.Resolution != "custom" {
		t.Fatalf("unexpected movie settings: %+v", submitted)
	}
	if len(submitted.Scenes) != 1 || len(submitted.Scenes[0].Elements) != 4 {
		t.Fatalf("expected 1 scene with 4 elements: %+v", submitted.Scenes)
	}
	video := submitted.Scenes[0].Elements[0]
	if video.Type != "video" || video.Duration == nil || *video.Duration != 2 {
		t.Fatalf("unexpected video element: %+v", video)
	}
	caption := submitted.Scenes[0].Elements[3]
	if caption.Type != "text" || caption.Text != "a time" || *caption.Start != 1.2 || caption.Settings["font-size"] != "68px" {
		t.Fatalf("unexpected caption element: %+v", caption)
	}
	mu.Unlock()

	res, err := Await(context.Background(), r, job, Policy{Initial: time.Millisecond, Factor: 1, Timeout: time.Second}, nil)
	if err != nil {
		t.Fatalf("Await error: %v", err)
	}
	if res.Status != types.RenderDone || res.MediaURL != "https://assets.json2video.com/prj1.mp4" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestJSON2Video_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"success":false,"message":"invalid scene"}`))
			return
		}
		w.Write([]byte(`{"success":true,"movie":{"status":"error","message":"source not found"}}`))
	}))
	defer srv.Close()

	r := NewJSON2Video(JSON2VideoConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := r.Submit(context.Background(), testScene()); err == nil {
		t.Fatalf("expected rejected submit")
	}
	res, err := r.Status(context.Background(), types.RenderJob{ID: "x"})
	if err != nil {
		t.Fatalf("Status error: %v", err)
	}
	if res.Status != types.RenderFailed || res.Message != "source not found" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMapStatus(t *testing.T) {
	cases := map[string]types.RenderStatus{
		"pending":   types.RenderPending,
		"running":   types.RenderRunning,
		"rendering": types.RenderRunning,
		"done":      types.RenderDone,
		"error":     types.RenderFailed,
	}
	for in, want := range cases {
		if got := mapStatus(in); got != want {
			t.Fatalf("mapStatus(%q) = %s; want %s", in, got, want)
		}
	}
}
