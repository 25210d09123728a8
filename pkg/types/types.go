package types

// PredictTextRequest is the JSON payload accepted by the sentiment variant
// of POST /predict.
type PredictTextRequest struct {
	// Required text to classify. Whitespace-only text is rejected.
	// example: I love this!
	Text string `json:"text" example:"I love this!"`
}

// TextPrediction is returned by the sentiment variant of POST /predict.
type TextPrediction struct {
	// Predicted sentiment label, drawn from the model's label set.
	// example: POSITIVE
	Sentiment string `json:"sentiment" example:"POSITIVE"`
	// Confidence of the predicted label, in [0,1].
	// example: 0.98
	Confidence float32 `json:"confidence" example:"0.98"`
}

// ImagePrediction is returned by the image variant of POST /predict.
type ImagePrediction struct {
	// Predicted class label, drawn from the model's label set.
	// example: cat
	ClassLabel string `json:"class_label" example:"cat"`
	// Per-class probabilities in label-set order. Length equals the number
	// of classes and the values sum to approximately 1.
	Probabilities []float32 `json:"probabilities"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// Liveness status. Always "ok" once the process has started.
	// example: ok
	Status string `json:"status" example:"ok"`
	// Optional human-readable detail (image variant only).
	// example: API is healthy and model is loaded.
	Message string `json:"message,omitempty" example:"API is healthy and model is loaded."`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: text is required
	Error string `json:"error" example:"text is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
