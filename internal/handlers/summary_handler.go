package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prodledger/internal/services"
)

// SummaryHandler handles read-side budget aggregation requests.
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetCategorySummaries handles the per-category spend breakdown.
// @Summary     Category summaries
// @Description Compare estimated and actual spend per budget category
// @Tags        summaries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {array} services.CategorySummary "Category summaries"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/summary/categories [get]
func (h *SummaryHandler) GetCategorySummaries(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summaries, err := h.summaryService.GetCategorySummaries(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": summaries})
}

// GetProjectTotals handles the project-level financial position.
// @Summary     Project totals
// @Description Get income, expense, net balance, remaining budget, and margin
// @Tags        summaries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} services.ProjectTotals "Project totals"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/summary/totals [get]
func (h *SummaryHandler) GetProjectTotals(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.summaryService.GetProjectTotals(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}
