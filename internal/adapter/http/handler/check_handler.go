package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alimomennasab/hate-speech-agent/internal/usecase"
)

// CheckHandler handles moderation check HTTP requests
type CheckHandler struct {
	checkUC usecase.CheckUsecase
}

// NewCheckHandler creates a new check handler
func NewCheckHandler(checkUC usecase.CheckUsecase) *CheckHandler {
	return &CheckHandler{checkUC: checkUC}
}

// SubmitCheck handles POST /api/v1/checks
func (h *CheckHandler) SubmitCheck(c *gin.Context) {
	var input usecase.CheckInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	if err := ValidateText(input.Text); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.checkUC.Check(c.Request.Context(), &input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	status := http.StatusOK
	if input.Async {
		status = http.StatusAccepted
	}
	respondSuccess(c, status, output)
}

// GetCurrent handles GET /api/v1/checks/current
func (h *CheckHandler) GetCurrent(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.checkUC.State(c.Request.Context()))
}

// ListRecent handles GET /api/v1/submissions/recent
func (h *CheckHandler) ListRecent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}

	records, err := h.checkUC.Recent(c.Request.Context(), limit)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"records": records})
}

// ListSubmissions handles GET /api/v1/submissions
func (h *CheckHandler) ListSubmissions(c *gin.Context) {
	page := ParsePagination(c)

	output, err := h.checkUC.History(c.Request.Context(), page.Limit, page.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetSubmission handles GET /api/v1/submissions/:id
func (h *CheckHandler) GetSubmission(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "submission id")
		return
	}

	record, err := h.checkUC.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, record)
}

// GetStats handles GET /api/v1/submissions/stats
func (h *CheckHandler) GetStats(c *gin.Context) {
	counts, err := h.checkUC.Stats(c.Request.Context())
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"total":          total,
		"by_disposition": counts,
	})
}
