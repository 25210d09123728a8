package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"predictd/pkg/types"
)

// TextService is what the sentiment variant of the API requires.
type TextService interface {
	Predict(ctx context.Context, raw string) (types.TextPrediction, error)
	Ready() bool
}

// ImageService is what the image variant of the API requires.
type ImageService interface {
	Predict(ctx context.Context, raw []byte) (types.ImagePrediction, error)
	Ready() bool
}

// maxMultipartMemory caps the in-memory portion of multipart parsing.
const maxMultipartMemory = 10 << 20

// maxBodyBytes limits JSON request bodies. 1 MiB is plenty for a 10k
// character text payload.
const maxBodyBytes = 1 << 20

// NewTextMux builds the router for the sentiment variant.
//
// @Summary Predict sentiment
// @Accept json
// @Produce json
// @Success 200 {object} types.TextPrediction
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /predict [post]
func NewTextMux(svc TextService, log zerolog.Logger) http.Handler {
	r := newRouter(log)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, types.HealthResponse{Status: "ok"})
	})

	r.Get("/readyz", readyzHandler(svc.Ready))

	r.Post("/predict", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)

		var in types.PredictTextRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(in.Text) == "" {
			writeJSONError(w, http.StatusBadRequest, "text is required and must be non-empty")
			return
		}

		out, err := svc.Predict(req.Context(), in.Text)
		if err != nil {
			respondError(w, req, log, err, start)
			return
		}
		log.Info().
			Str("request_id", middleware.GetReqID(req.Context())).
			Str("sentiment", out.Sentiment).
			Dur("dur", time.Since(start)).
			Msg("predict ok")
		writeJSON(w, http.StatusOK, out)
	})

	return r
}

// NewImageMux builds the router for the image variant.
//
// @Summary Predict image class
// @Accept mpfd
// @Produce json
// @Success 200 {object} types.ImagePrediction
// @Failure 400 {object} types.ErrorResponse
// @Failure 422 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /predict [post]
func NewImageMux(svc ImageService, log zerolog.Logger) http.Handler {
	r := newRouter(log)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, types.HealthResponse{
			Status:  "ok",
			Message: "API is healthy and model is loaded.",
		})
	})

	r.Get("/readyz", readyzHandler(svc.Ready))

	r.Post("/predict", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		if err := req.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeJSONError(w, http.StatusBadRequest, "expected multipart form upload")
			return
		}
		file, header, err := req.FormFile("file")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		ct := header.Header.Get("Content-Type")
		if !strings.HasPrefix(strings.ToLower(ct), "image/") {
			writeJSONError(w, http.StatusBadRequest, "only image files (e.g. JPEG, PNG) are allowed")
			return
		}

		raw, err := io.ReadAll(file)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		out, err := svc.Predict(req.Context(), raw)
		if err != nil {
			respondError(w, req, log, err, start)
			return
		}
		log.Info().
			Str("request_id", middleware.GetReqID(req.Context())).
			Str("class_label", out.ClassLabel).
			Str("file", header.Filename).
			Dur("dur", time.Since(start)).
			Msg("predict ok")
		writeJSON(w, http.StatusOK, out)
	})

	return r
}

// newRouter assembles the middleware stack shared by both variants.
func newRouter(log zerolog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	// The demo front-end is a cross-origin client of this API.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)
	return r
}

func readyzHandler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
