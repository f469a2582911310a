package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storyreel/types"
)

const defaultJSON2VideoURL = "https://api.json2video.com"

// JSON2VideoConfig configures the remote render client
type JSON2VideoConfig struct {
	APIKey  string
	BaseURL string
	Width   int
	Height  int
	Quality string
	Timeout time.Duration
}

// JSON2Video renders scenes with the json2video movie API
type JSON2Video struct {
	cfg        JSON2VideoConfig
	baseURL    string
	httpClient *http.Client
}

// NewJSON2Video creates a json2video client
func NewJSON2Video(cfg JSON2VideoConfig) *JSON2Video {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultJSON2VideoURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &JSON2Video{cfg: cfg, baseURL: base, httpClient: &http.Client{Timeout: timeout}}
}

type movie struct {
	Resolution string  `json:"resolution"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Quality    string  `json:"quality"`
	Scenes     []scene `json:"scenes"`
}

type scene struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type     string            `json:"type"`
	Src      string            `json:"src,omitempty"`
	Text     string            `json:"text,omitempty"`
	Start    *float64          `json:"start,omitempty"`
	Duration *float64          `json:"duration,omitempty"`
	Resize   string            `json:"resize,omitempty"`
	Settings map[string]string `json:"settings,omitempty"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Project string `json:"project"`
	Message string `json:"message"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Movie   struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		URL     string `json:"url"`
	} `json:"movie"`
}

// Submit starts rendering sc and returns the project handle
func (j *JSON2Video) Submit(ctx context.Context, sc types.SceneDescription) (types.RenderJob, error) {
	var out submitResponse
	if err := j.doJSONRequest(ctx, http.MethodPost, "/v2/movies", j.buildMovie(sc), &out); err != nil {
		return types.RenderJob{}, err
	}
	if !out.Success || out.Project == "" {
		return types.RenderJob{}, fmt.Errorf("json2video: submit rejected: %s", out.Message)
	}
	return types.RenderJob{ID: out.Project}, nil
}

// Status fetches the current state of a project
func (j *JSON2Video) Status(ctx context.Context, job types.RenderJob) (types.RenderResult, error) {
	var out statusResponse
	path := "/v2/movies?project=" + url.QueryEscape(job.ID)
	if err := j.doJSONRequest(ctx, http.MethodGet, path, nil, &out); err != nil {
		return types.RenderResult{}, err
	}

	res := types.RenderResult{Status: mapStatus(out.Movie.Status), Message: out.Movie.Message}
	if res.Status == types.RenderDone {
		if out.Movie.URL == "" {
			return types.RenderResult{}, fmt.Errorf("json2video: project %s done without a URL", job.ID)
		}
		res.MediaURL = out.Movie.URL
	}
	return res, nil
}

func (j *JSON2Video) buildMovie(sc types.SceneDescription) movie {
	st := sc.Style
	settings := map[string]string{
		"font-family": st.FontFamily,
		"font-weight": fmt.Sprint(st.FontWeight),
		"font-size":   fmt.Sprintf("%dpx", st.FontSize),
		"font-color":  st.Color,
		"text-align":  "center",
		"text-shadow": fmt.Sprintf("%dpx %dpx 0 %s", st.ShadowOffset, st.ShadowOffset, st.ShadowColor),
		"width":       fmt.Sprintf("%dpx", st.SafeWidth),
	}

	elems := make([]element, 0, len(sc.Captions)+2)
	elems = append(elems,
		element{Type: "video", Src: sc.VideoURL, Duration: ptr(sc.VideoDuration), Resize: "cover"},
		element{Type: "audio", Src: sc.AudioURL},
	)
	for _, c := range sc.Captions {
		elems = append(elems, element{
			Type:     "text",
			Text:     c.Text,
			Start:    ptr(c.Start),
			Duration: ptr(c.Duration),
			Settings: settings,
		})
	}

	return movie{
		Resolution: "custom",
		Width:      j.cfg.Width,
		Height:     j.cfg.Height,
		Quality:    j.cfg.Quality,
		Scenes:     []scene{{Elements: elems}},
	}
}

func mapStatus(s string) types.RenderStatus {
	switch strings.ToLower(s) {
	case "done":
		return types.RenderDone
	case "error", "failed":
		return types.RenderFailed
	case "pending", "":
		return types.RenderPending
	default:
		return types.RenderRunning
	}
}

// doJSONRequest performs a JSON request against the API and decodes the response into result
func (j *JSON2Video) doJSONRequest(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("json2video: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, j.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("json2video: create request: %w", err)
	}
	req.Header.Set("x-api-key", j.cfg.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("json2video: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("json2video: API returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("json2video: decode response: %w", err)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
