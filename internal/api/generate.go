package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/retronet/internal/config"
	"github.com/ashureev/retronet/internal/relay"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20

// GenerateHandler relays generation requests to the upstream API.
type GenerateHandler struct {
	gen         relay.Generator
	hasKey      bool
	maxBodySize int64
}

// NewGenerateHandler creates a handler that forwards to gen. The credential
// check uses cfg so a missing key never reaches gen.
func NewGenerateHandler(gen relay.Generator, cfg *config.RelayConfig) *GenerateHandler {
	h := &GenerateHandler{
		gen:         gen,
		maxBodySize: defaultMaxRequestBodySize,
	}
	if cfg != nil {
		h.hasKey = cfg.HasAPIKey()
		if cfg.MaxBodyBytes > 0 {
			h.maxBodySize = cfg.MaxBodyBytes
		}
	}
	return h
}

// HandleGenerate handles POST /api/generate.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := chiMiddleware.GetReqID(r.Context())

	if !h.hasKey {
		slog.Error("Generation rejected: upstream credential missing", "request_id", reqID)
		Error(w, http.StatusInternalServerError, relay.ErrNotConfigured.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req relay.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		Error(w, http.StatusBadRequest, "prompt is required")
		return
	}

	slog.Info("Generation request",
		"request_id", reqID,
		"prompt_length", len(req.Prompt),
		"system_prompt_length", len(req.SystemPrompt),
	)

	text, err := h.gen.Generate(r.Context(), req.Prompt, req.SystemPrompt)
	if err != nil {
		attrs := []any{"request_id", reqID, "error", err}
		var upErr *relay.UpstreamError
		if errors.As(err, &upErr) {
			attrs = append(attrs, "upstream_status", upErr.StatusCode)
		}
		slog.Error("Generation failed", attrs...)
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	JSON(w, http.StatusOK, relay.GenerateResponse{Text: text})
}

// HandleOptions answers cross-origin probes with an empty 200.
func (h *GenerateHandler) HandleOptions(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// RegisterRoutes registers the relay routes.
func (h *GenerateHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", h.HandleGenerate)
		r.Options("/generate", h.HandleOptions)
	})
}
