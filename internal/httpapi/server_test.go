package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predictd/internal/classifier"
	"predictd/internal/normalize"
	"predictd/pkg/types"
)

type mockTextService struct {
	pred  types.TextPrediction
	err   error
	ready bool
	calls int
}

func (m *mockTextService) Predict(ctx context.Context, raw string) (types.TextPrediction, error) {
	m.calls++
	return m.pred, m.err
}
func (m *mockTextService) Ready() bool { return m.ready }

type mockImageService struct {
	pred  types.ImagePrediction
	err   error
	ready bool
	calls int
}

func (m *mockImageService) Predict(ctx context.Context, raw []byte) (types.ImagePrediction, error) {
	m.calls++
	return m.pred, m.err
}
func (m *mockImageService) Ready() bool { return m.ready }

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func uploadFile(t *testing.T, h http.Handler, field, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part := make(textproto.MIMEHeader)
	part.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	part.Set("Content-Type", contentType)
	pw, err := mw.CreatePart(part)
	require.NoError(t, err)
	_, err = pw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 200, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTextHealth(t *testing.T) {
	svc := &mockTextService{}
	h := NewTextMux(svc, zerolog.Nop())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Message)
	// health is a liveness probe: it must never touch the predictor
	assert.Zero(t, svc.calls)
}

func TestImageHealthHasMessage(t *testing.T) {
	svc := &mockImageService{}
	h := NewImageMux(svc, zerolog.Nop())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Message)
	assert.Zero(t, svc.calls)
}

func TestTextPredictOK(t *testing.T) {
	svc := &mockTextService{pred: types.TextPrediction{Sentiment: "POSITIVE", Confidence: 0.97}}
	h := NewTextMux(svc, zerolog.Nop())

	w := postJSON(t, h, `{"text":"I love this!"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body types.TextPrediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, []string{"POSITIVE", "NEGATIVE"}, body.Sentiment)
	assert.GreaterOrEqual(t, body.Confidence, float32(0))
	assert.LessOrEqual(t, body.Confidence, float32(1))
}

func TestTextPredictEmptyText(t *testing.T) {
	for _, body := range []string{`{"text":""}`, `{"text":"   "}`, `{}`} {
		svc := &mockTextService{}
		h := NewTextMux(svc, zerolog.Nop())

		w := postJSON(t, h, body)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		// rejected before any inference work begins
		assert.Zero(t, svc.calls, body)
	}
}

func TestTextPredictBadJSON(t *testing.T) {
	svc := &mockTextService{}
	h := NewTextMux(svc, zerolog.Nop())

	w := postJSON(t, h, `not-json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestTextPredictModelUnavailable(t *testing.T) {
	svc := &mockTextService{err: classifier.ErrModelUnavailable(errors.New("corrupt artifact"))}
	h := NewTextMux(svc, zerolog.Nop())

	w := postJSON(t, h, `{"text":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTextPredictInferenceError(t *testing.T) {
	svc := &mockTextService{err: classifier.ErrInference(errors.New("session failed"))}
	h := NewTextMux(svc, zerolog.Nop())

	w := postJSON(t, h, `{"text":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, body.Code)
}

func TestImagePredictOK(t *testing.T) {
	probs := make([]float32, 10)
	probs[3] = 1
	svc := &mockImageService{pred: types.ImagePrediction{ClassLabel: "cat", Probabilities: probs}}
	h := NewImageMux(svc, zerolog.Nop())

	w := uploadFile(t, h, "file", "cat.png", "image/png", smallPNG(t))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body types.ImagePrediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, classifier.CIFAR10Labels, body.ClassLabel)
	assert.Len(t, body.Probabilities, 10)
}

func TestImagePredictWrongContentType(t *testing.T) {
	svc := &mockImageService{}
	h := NewImageMux(svc, zerolog.Nop())

	w := uploadFile(t, h, "file", "notes.txt", "text/plain", []byte("hello"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestImagePredictMissingFileField(t *testing.T) {
	svc := &mockImageService{}
	h := NewImageMux(svc, zerolog.Nop())

	w := uploadFile(t, h, "attachment", "cat.png", "image/png", smallPNG(t))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestImagePredictCorruptImage(t *testing.T) {
	_, decodeErr := normalize.Image([]byte("corrupt bytes"))
	require.Error(t, decodeErr)

	svc := &mockImageService{err: decodeErr}
	h := NewImageMux(svc, zerolog.Nop())

	w := uploadFile(t, h, "file", "broken.png", "image/png", []byte("corrupt bytes"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestImagePredictInferenceError(t *testing.T) {
	svc := &mockImageService{err: classifier.ErrInference(errors.New("shape mismatch"))}
	h := NewImageMux(svc, zerolog.Nop())

	w := uploadFile(t, h, "file", "cat.png", "image/png", smallPNG(t))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReadyz(t *testing.T) {
	ready := &mockTextService{ready: true}
	h := NewTextMux(ready, zerolog.Nop())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	loading := &mockTextService{ready: false}
	h = NewTextMux(loading, zerolog.Nop())
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewTextMux(&mockTextService{}, zerolog.Nop())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
