package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"agrilog/internal/activity/models"
	"agrilog/internal/activity/ports"
	"agrilog/internal/activity/service/pipeline"
	id "agrilog/pkg/domain"
	dErrors "agrilog/pkg/domain-errors"
	"agrilog/pkg/platform/httputil"
	"agrilog/pkg/requestcontext"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service defines the interface for submission processing.
type Service interface {
	Submit(ctx context.Context, sub models.Submission) (*pipeline.Result, error)
}

// AudioUploads stores a decoded audio blob and returns its ref for the
// pipeline, which owns deletion.
type AudioUploads interface {
	Put(ctx context.Context, data []byte) (string, error)
}

// Handler wires activity endpoints to the submission pipeline.
type Handler struct {
	service Service
	history ports.HistoryStore
	uploads AudioUploads
	logger  *slog.Logger
}

// New constructs an activity handler with its dependencies.
func New(service Service, history ports.HistoryStore, uploads AudioUploads, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		history: history,
		uploads: uploads,
		logger:  logger,
	}
}

// Register mounts activity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/activities", h.HandleSubmit)
	r.Get("/activities", h.HandleList)
}

// HandleSubmit handles POST /activities requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[SubmitActivityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sub := models.Submission{
		UserID:   req.ParsedUserID(),
		Text:     req.Text,
		Location: req.ParsedLocation(),
	}
	if req.RecordedAt != nil {
		sub.SubmittedAt = *req.RecordedAt
	}

	if audio := req.ParsedAudio(); len(audio) > 0 {
		ref, err := h.uploads.Put(ctx, audio)
		if err != nil {
			h.logger.ErrorContext(ctx, "audio upload failed",
				"request_id", requestID,
				"user_id", sub.UserID,
				"error", err,
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store audio"))
			return
		}
		sub.AudioRef = ref
	}

	result, err := h.service.Submit(ctx, sub)
	if err != nil {
		// Validation rejections are the normal negative path; only
		// infrastructure failures deserve an error-level entry.
		if dErrors.HasCode(err, dErrors.CodeValidation) || dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			h.logger.InfoContext(ctx, "submission rejected",
				"request_id", requestID,
				"user_id", sub.UserID,
				"error", err,
			)
		} else {
			h.logger.ErrorContext(ctx, "submission processing failed",
				"request_id", requestID,
				"user_id", sub.UserID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "activity recorded",
		"request_id", requestID,
		"user_id", sub.UserID,
		"activity_id", result.Record.ID,
		"status", result.Record.Status,
		"credits", result.Record.Credits,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromResult(result))
}

// HandleList handles GET /activities requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if raw == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "user_id query parameter is required"))
		return
	}
	userID, err := id.ParseUserID(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "user_id must be a valid UUID"))
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = min(parsed, maxListLimit)
	}

	records, err := h.history.ListRecent(ctx, userID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "history read failed",
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}
