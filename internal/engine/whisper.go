package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxd/internal/domain"
)

// Whisper transcribes audio through a whisper.cpp-style HTTP server.
// It uploads a WAV file as multipart form data and reads the "text" field
// of the JSON response.
type Whisper struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWhisper creates the whisper engine for the given inference endpoint.
func NewWhisper(endpoint string, logger *zap.Logger) *Whisper {
	return &Whisper{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

// Name returns the engine identifier.
func (w *Whisper) Name() string { return "whisper" }

// IsAvailable probes the server's health endpoint with a short timeout.
func (w *Whisper) IsAvailable() bool {
	health, err := w.healthURL()
	if err != nil {
		return false
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(health)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

// Transcribe converts samples to text. It never fails outward: every error
// is logged and yields empty text, so a broken backend cannot take down the
// daemon loop.
func (w *Whisper) Transcribe(samples []float32, sampleRate int) string {
	if len(samples) == 0 {
		return ""
	}

	wavPath, err := w.writeTempWav(samples, sampleRate)
	if err != nil {
		w.logger.Error("encode wav failed", zap.Error(err))
		return ""
	}
	defer os.Remove(wavPath)

	text, err := w.upload(wavPath)
	if err != nil {
		w.logger.Error("transcription failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}

func (w *Whisper) writeTempWav(samples []float32, sampleRate int) (string, error) {
	name := fmt.Sprintf("voxd-%s.wav", strings.ReplaceAll(uuid.New().String(), "-", "")[:16])
	path := filepath.Join(os.TempDir(), name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (w *Whisper) upload(wavPath string) (string, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, w.endpoint, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned %s: %s", resp.Status, truncate(raw, 200))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("unexpected response: %s", truncate(raw, 200))
	}
	return parsed.Text, nil
}

func (w *Whisper) healthURL() (string, error) {
	u, err := url.Parse(w.endpoint)
	if err != nil {
		return "", err
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

var _ domain.Engine = (*Whisper)(nil)
