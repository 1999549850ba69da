// Package api exposes the deduction calculator and the submission flag
// over HTTP.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rgehrsitz/deductgo/internal/calculation"
	"github.com/rgehrsitz/deductgo/internal/config"
	"github.com/rgehrsitz/deductgo/internal/domain"
	"github.com/rgehrsitz/deductgo/internal/storage"
)

// Handler serves the deduction endpoints.
type Handler struct {
	store  storage.SubmissionStore
	calc   *calculation.DeductionCalculator
	parser *config.InputParser
}

func NewHandler(store storage.SubmissionStore, rules domain.RuleTable) *Handler {
	return &Handler{
		store:  store,
		calc:   calculation.NewDeductionCalculator(rules),
		parser: config.NewInputParser(),
	}
}

// SubmissionStatus is the body of GET /api/v1/submission
type SubmissionStatus struct {
	Submitted bool `json:"submitted"`
}

// SubmissionResponse is returned after a declaration is submitted.
type SubmissionResponse struct {
	Submitted bool                   `json:"submitted"`
	Result    domain.DeductionResult `json:"result"`
}

// Calculate computes the breakdown for a declaration without recording
// anything.
// @Router /api/v1/deductions/calculate [post]
func (h *Handler) Calculate(c *gin.Context) {
	input, ok := h.bindDeclaration(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, h.calc.Compute(input))
}

// Rules returns the active rule table
// @Router /api/v1/rules [get]
func (h *Handler) Rules(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.calc.Rules)
}

// GetSubmission reports whether a declaration has been submitted.
// @Router /api/v1/submission [get]
func (h *Handler) GetSubmission(c *gin.Context) {
	submitted, err := h.store.Submitted(c.Request.Context())
	if err != nil {
		slog.Error("Read submission state failed", "error", err)
		writeJSON(c, http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	writeJSON(c, http.StatusOK, SubmissionStatus{Submitted: submitted})
}

// Submit validates and computes a declaration, then records the submission.
// @Router /api/v1/submission [post]
func (h *Handler) Submit(c *gin.Context) {
	input, ok := h.bindDeclaration(c)
	if !ok {
		return
	}
	result := h.calc.Compute(input)

	if err := h.store.SetSubmitted(c.Request.Context(), true); err != nil {
		slog.Error("Persist submission failed", "error", err)
		writeJSON(c, http.StatusInternalServerError, gin.H{"error": "Failed to record submission"})
		return
	}

	slog.Info("Declaration submitted", "monthly_total", result.MonthlyTotal.String(), "annual_total", result.AnnualTotal.String())
	writeJSON(c, http.StatusOK, SubmissionResponse{Submitted: true, Result: result})
}

// ClearSubmission resets the submission flag.
// @Router /api/v1/submission [delete]
func (h *Handler) ClearSubmission(c *gin.Context) {
	if err := h.store.SetSubmitted(c.Request.Context(), false); err != nil {
		slog.Error("Clear submission failed", "error", err)
		writeJSON(c, http.StatusInternalServerError, gin.H{"error": "Failed to clear submission"})
		return
	}
	slog.Info("Submission cleared")
	writeJSON(c, http.StatusOK, SubmissionStatus{Submitted: false})
}

// bindDeclaration decodes the request body over a fresh declaration, so
// omitted fields keep their defaults, and validates it. It writes the 400
// response itself when the body is unusable.
func (h *Handler) bindDeclaration(c *gin.Context) (domain.DeductionInput, bool) {
	input := domain.NewDeductionInput()

	body, err := c.GetRawData()
	if err != nil {
		writeJSON(c, http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return input, false
	}
	if err := json.Unmarshal(body, &input); err != nil {
		writeJSON(c, http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return input, false
	}
	if err := h.parser.ValidateDeclaration(&input); err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, config.ErrInvalidDeclaration) {
			status = http.StatusInternalServerError
		}
		writeJSON(c, status, gin.H{"error": err.Error()})
		return input, false
	}
	return input, true
}

func writeJSON(c *gin.Context, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Encode response failed", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}
