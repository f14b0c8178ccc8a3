package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/services"
)

type fakeExtractor struct {
	resolveCalls  int
	downloadCalls int
	lastRequest   domain.DownloadRequest
	info          *domain.MediaInfo
	result        func() (*domain.DownloadResult, error)
	resolveErr    error
}

func (f *fakeExtractor) Resolve(ctx context.Context, rawURL string) (*domain.MediaInfo, error) {
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.info, nil
}

func (f *fakeExtractor) Download(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	f.downloadCalls++
	f.lastRequest = req
	return f.result()
}

func (f *fakeExtractor) Probe(ctx context.Context) bool { return true }

type fakeTranscoder struct{}

func (fakeTranscoder) Probe(ctx context.Context) bool { return true }

func newTestRouter(ext *fakeExtractor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewRelayService(ext, fakeTranscoder{}, zap.NewNop())
	r := gin.New()
	NewHTTPHandler(svc, zap.NewNop()).Register(r)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRootEndpoint(t *testing.T) {
	r := newTestRouter(&fakeExtractor{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status    string   `json:"status"`
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Endpoints)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(&fakeExtractor{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status domain.HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.ExtractorAvailable)
	assert.True(t, status.TranscoderAvailable)
	assert.NotEmpty(t, status.Platform)
}

func TestMediaInfoRejectsInvalidURL(t *testing.T) {
	ext := &fakeExtractor{}
	r := newTestRouter(ext)

	for _, bad := range []any{
		gin.H{"url": "not a url"},
		gin.H{"url": ""},
		gin.H{},
	} {
		w := postJSON(r, "/api/media-info", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	}
	assert.Zero(t, ext.resolveCalls, "invalid URLs must not reach the collaborator")
}

func TestMediaInfoSuccess(t *testing.T) {
	ext := &fakeExtractor{info: &domain.MediaInfo{
		Title:    "A Clip",
		Duration: "1:05",
		Uploader: "Someone",
		Platform: domain.PlatformYouTube,
		Formats: []domain.FormatOption{
			{FormatID: "22", Quality: "1080p", HasAudio: true},
		},
	}}
	r := newTestRouter(ext)

	w := postJSON(r, "/api/media-info", gin.H{"url": "https://youtube.com/watch?v=x"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    domain.MediaInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "A_Clip", resp.Data.Title)
	require.Len(t, resp.Data.Formats, 1)
	assert.Equal(t, "1080p", resp.Data.Formats[0].Quality)
}

func TestMediaInfoCollaboratorFailure(t *testing.T) {
	ext := &fakeExtractor{resolveErr: fmt.Errorf("%w: ERROR: no video found", domain.ErrExtraction)}
	r := newTestRouter(ext)

	w := postJSON(r, "/api/media-info", gin.H{"url": "https://youtube.com/watch?v=x"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Contains(t, resp.Details, "no video found")
}

func TestDownloadFieldValidation(t *testing.T) {
	ext := &fakeExtractor{}
	r := newTestRouter(ext)

	tests := []struct {
		name    string
		body    gin.H
		wantMsg string
	}{
		{"missing url", gin.H{"formatId": "137"}, "url is required"},
		{"missing formatId", gin.H{"url": "https://youtube.com/watch?v=x"}, "formatId is required"},
		{"missing downloadUrl", gin.H{"url": "https://youtube.com/watch?v=x", "useCobalt": true}, "downloadUrl is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/download", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
		})
	}
	assert.Zero(t, ext.downloadCalls, "invalid requests must not reach the collaborator")
}

// deleteOnClose mimics a scratch-file stream: the file disappears once the
// response has been written.
type deleteOnClose struct {
	*os.File
}

func (d *deleteOnClose) Close() error {
	path := d.File.Name()
	err := d.File.Close()
	os.Remove(path)
	return err
}

func TestDownloadStreamsAndCleansUp(t *testing.T) {
	scratch := filepath.Join(t.TempDir(), "Test_abc123.mp4")
	require.NoError(t, os.WriteFile(scratch, []byte("fake video bytes"), 0o644))

	ext := &fakeExtractor{result: func() (*domain.DownloadResult, error) {
		f, err := os.Open(scratch)
		if err != nil {
			return nil, err
		}
		return &domain.DownloadResult{Stream: &deleteOnClose{File: f}, Size: 16}, nil
	}}
	r := newTestRouter(ext)

	w := postJSON(r, "/api/download", gin.H{
		"url":           "https://youtube.com/watch?v=x",
		"formatId":      "137",
		"audioFormatId": "140",
		"title":         "Test",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="Test_`))
	assert.Equal(t, "16", w.Header().Get("Content-Length"))
	assert.Equal(t, "fake video bytes", w.Body.String())

	assert.Equal(t, "137", ext.lastRequest.FormatID)
	assert.Equal(t, "140", ext.lastRequest.AudioFormatID)

	_, err := os.Stat(scratch)
	assert.True(t, os.IsNotExist(err), "scratch file should be removed after streaming")
}

func TestDownloadDirectLinkProxiesBody(t *testing.T) {
	payload := []byte("remote resource bytes")
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer upstream.Close()

	ext := &fakeExtractor{result: func() (*domain.DownloadResult, error) {
		resp, err := http.Get(upstream.URL + "/file.mp4")
		if err != nil {
			return nil, err
		}
		return &domain.DownloadResult{Stream: resp.Body, Size: resp.ContentLength}, nil
	}}
	r := newTestRouter(ext)

	w := postJSON(r, "/api/download", gin.H{
		"url":         "https://youtube.com/watch?v=x",
		"useCobalt":   true,
		"downloadUrl": upstream.URL + "/file.mp4",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.Bytes())
	assert.True(t, ext.lastRequest.UseCobalt)
	assert.Equal(t, upstream.URL+"/file.mp4", ext.lastRequest.DownloadURL)
}

func TestDownloadCollaboratorFailure(t *testing.T) {
	ext := &fakeExtractor{result: func() (*domain.DownloadResult, error) {
		return nil, fmt.Errorf("%w: ERROR: requested format not available", domain.ErrDownloadFailed)
	}}
	r := newTestRouter(ext)

	w := postJSON(r, "/api/download", gin.H{
		"url":      "https://youtube.com/watch?v=x",
		"formatId": "9999",
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "format not available")
}
