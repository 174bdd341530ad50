package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
	"prodledger/internal/pagination"
	"prodledger/internal/services"
)

// ProjectHandler handles project and planning-data requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
	auditService   services.AuditServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer, auditService services.AuditServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, auditService: auditService}
}

// CreateProjectRequest represents the payload for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// CreateBudgetLineRequest represents the payload for adding a budget line.
type CreateBudgetLineRequest struct {
	Category       string `json:"category" binding:"required,transaction_category"`
	EstimatedCents int64  `json:"estimated_cents" binding:"required,gte=0"`
	Notes          string `json:"notes" binding:"max=2000"`
}

// CreateShootingDayRequest represents the payload for scheduling a shooting day.
type CreateShootingDayRequest struct {
	Date     time.Time `json:"date" binding:"required"`
	Location string    `json:"location" binding:"max=200"`
	Notes    string    `json:"notes" binding:"max=2000"`
}

// CreateProject handles creating a new production project.
// @Summary     Create a project
// @Description Create a new production project with a draft budget
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(actor, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_PROJECT", "project", project.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing projects.
// @Summary     List projects
// @Description Get a paginated list of projects
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Paginated projects"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.projectService.GetProjects(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProject handles retrieving a specific project.
// @Summary     Get project by ID
// @Description Get a specific project by ID
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} models.Project "Project details"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// CreateBudgetLine handles adding a category estimate to a project.
// @Summary     Add budget line
// @Description Add a category-level spend estimate to a project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Project ID"
// @Param       request body CreateBudgetLineRequest true "Budget line details"
// @Success     201 {object} models.BudgetLine "Budget line created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/budget-lines [post]
func (h *ProjectHandler) CreateBudgetLine(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	line, err := h.projectService.AddBudgetLine(actor, projectID,
		models.TransactionCategory(req.Category), req.EstimatedCents, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_BUDGET_LINE", "budget_line", line.ID, c.ClientIP(),
		map[string]interface{}{"category": req.Category, "estimated_cents": req.EstimatedCents})

	c.JSON(http.StatusCreated, gin.H{"budget_line": line})
}

// GetBudgetLines handles listing a project's budget lines.
// @Summary     List budget lines
// @Description Get all budget lines for a project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {array} models.BudgetLine "Budget lines"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/budget-lines [get]
func (h *ProjectHandler) GetBudgetLines(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	lines, err := h.projectService.GetBudgetLines(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_lines": lines})
}

// CreateShootingDay handles scheduling a shooting day.
// @Summary     Add shooting day
// @Description Schedule a production day for a project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Project ID"
// @Param       request body CreateShootingDayRequest true "Shooting day details"
// @Success     201 {object} models.ShootingDay "Shooting day created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/shooting-days [post]
func (h *ProjectHandler) CreateShootingDay(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateShootingDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	day, err := h.projectService.AddShootingDay(actor, projectID, req.Date, req.Location, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_SHOOTING_DAY", "shooting_day", day.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"shooting_day": day})
}

// GetShootingDays handles listing a project's shooting days.
// @Summary     List shooting days
// @Description Get all shooting days for a project in date order
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {array} models.ShootingDay "Shooting days"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/shooting-days [get]
func (h *ProjectHandler) GetShootingDays(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	days, err := h.projectService.GetShootingDays(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shooting_days": days})
}
