package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/service"
)

// maxBodyBytes bounds a single transaction payload.
const maxBodyBytes = 64 << 10

// APIHandlers exposes HTTP handlers for the scoring API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.ScoringService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.ScoringService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	// The form payload; amount accepts a JSON number or string.
	var payload service.TransactionInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Score(r.Context(), payload)
	if err != nil {
		if service.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to score transaction", "error", err, "transNum", payload.TransNum)
		writeError(w, http.StatusInternalServerError, "failed to score transaction")
		return
	}

	respondJSON(w, http.StatusOK, newScoreResponse(result))
}

func (h *APIHandlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload service.TransactionInput
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(payload.TransNum) == "" {
		writeError(w, http.StatusBadRequest, "trans_num is required")
		return
	}

	result, err := h.service.Record(r.Context(), payload)
	if err != nil {
		if service.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to record transaction", "error", err, "transNum", payload.TransNum)
		writeError(w, http.StatusInternalServerError, "failed to record transaction")
		return
	}

	status := http.StatusCreated
	if !result.Added {
		status = http.StatusOK
	}
	respondJSON(w, status, recordResponse{
		Status:        "ok",
		TransactionID: result.TransNum,
		Added:         result.Added,
		Persisted:     result.Persisted,
		HistorySize:   result.HistorySize,
	})
}

type scoreResponse struct {
	ScoreID       string             `json:"scoreId"`
	TransactionID string             `json:"transactionId,omitempty"`
	Label         int                `json:"label"`
	Verdict       string             `json:"verdict"`
	Message       string             `json:"message"`
	Features      map[string]float64 `json:"features"`
	Normalized    map[string]float64 `json:"normalized"`
	ScoredAt      string             `json:"scoredAt"`
}

func newScoreResponse(res service.ScoreResult) scoreResponse {
	verdict := "not_fraud"
	if res.Verdict == domain.Fraud {
		verdict = "fraud"
	}
	return scoreResponse{
		ScoreID:       res.ScoreID,
		TransactionID: res.TransNum,
		Label:         res.Label(),
		Verdict:       verdict,
		Message:       res.Message(),
		Features:      res.Features,
		Normalized:    res.Normalized,
		ScoredAt:      formatTime(res.ScoredAt),
	}
}

type recordResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
	Added         bool   `json:"added"`
	Persisted     bool   `json:"persisted"`
	HistorySize   int    `json:"historySize"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
