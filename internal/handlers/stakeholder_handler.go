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

// StakeholderHandler handles stakeholder and rate-calculation requests.
type StakeholderHandler struct {
	stakeholderService services.StakeholderServicer
	auditService       services.AuditServicer
}

// NewStakeholderHandler creates a new StakeholderHandler.
func NewStakeholderHandler(stakeholderService services.StakeholderServicer, auditService services.AuditServicer) *StakeholderHandler {
	return &StakeholderHandler{stakeholderService: stakeholderService, auditService: auditService}
}

// CreateStakeholderRequest represents the payload for adding a stakeholder.
type CreateStakeholderRequest struct {
	Name             string     `json:"name" binding:"required,min=1,max=200"`
	Role             string     `json:"role" binding:"max=100"`
	Email            string     `json:"email" binding:"omitempty,email,max=255"`
	RateType         string     `json:"rate_type" binding:"omitempty,rate_type"`
	RateValueCents   *int64     `json:"rate_value_cents" binding:"omitempty,gt=0"`
	EstimatedUnits   *int64     `json:"estimated_units" binding:"omitempty,gt=0"`
	BookingStartDate *time.Time `json:"booking_start_date"`
	BookingEndDate   *time.Time `json:"booking_end_date"`
}

// CreateStakeholder handles adding a stakeholder to a project.
// @Summary     Create a stakeholder
// @Description Add a crew member, vendor, or other payee to a project
// @Tags        stakeholders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Project ID"
// @Param       request body CreateStakeholderRequest true "Stakeholder details"
// @Success     201 {object} models.Stakeholder "Stakeholder created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/stakeholders [post]
func (h *StakeholderHandler) CreateStakeholder(c *gin.Context) {
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

	var req CreateStakeholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	rateType := models.RateTypeNone
	if req.RateType != "" {
		rateType = models.RateType(req.RateType)
	}

	stakeholder, err := h.stakeholderService.CreateStakeholder(actor, services.StakeholderInput{
		ProjectID:        projectID,
		Name:             req.Name,
		Role:             req.Role,
		Email:            req.Email,
		RateType:         rateType,
		RateValueCents:   req.RateValueCents,
		EstimatedUnits:   req.EstimatedUnits,
		BookingStartDate: req.BookingStartDate,
		BookingEndDate:   req.BookingEndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_STAKEHOLDER", "stakeholder", stakeholder.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "rate_type": string(rateType)})

	c.JSON(http.StatusCreated, gin.H{"stakeholder": stakeholder})
}

// GetProjectStakeholders handles listing a project's stakeholders.
// @Summary     List stakeholders
// @Description Get a paginated list of stakeholders for a project
// @Tags        stakeholders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Project ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Stakeholder] "Paginated stakeholders"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/stakeholders [get]
func (h *StakeholderHandler) GetProjectStakeholders(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.stakeholderService.GetProjectStakeholders(projectID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStakeholder handles retrieving a specific stakeholder.
// @Summary     Get stakeholder by ID
// @Description Get a specific stakeholder by ID
// @Tags        stakeholders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Stakeholder ID"
// @Success     200 {object} models.Stakeholder "Stakeholder details"
// @Failure     400 {object} ErrorResponse "Invalid stakeholder ID"
// @Failure     404 {object} ErrorResponse "Stakeholder not found"
// @Router      /stakeholders/{id} [get]
func (h *StakeholderHandler) GetStakeholder(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	stakeholderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stakeholder, err := h.stakeholderService.GetStakeholderByID(stakeholderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stakeholder": stakeholder})
}

// ConfirmBooking handles locking in a stakeholder's booking and rate.
// @Summary     Confirm booking
// @Description Confirm a stakeholder's booking, snapshotting the current rate
// @Tags        stakeholders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Stakeholder ID"
// @Success     200 {object} models.Stakeholder "Updated stakeholder"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Failure     404 {object} ErrorResponse "Stakeholder not found"
// @Failure     409 {object} ErrorResponse "Booking already confirmed"
// @Router      /stakeholders/{id}/confirm-booking [post]
func (h *StakeholderHandler) ConfirmBooking(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stakeholderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stakeholder, err := h.stakeholderService.ConfirmBooking(actor, stakeholderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CONFIRM_BOOKING", "stakeholder", stakeholderID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"stakeholder": stakeholder})
}

// GetRateCalculation handles deriving a stakeholder's suggested payment.
// @Summary     Get rate calculation
// @Description Derive the suggested, paid, and pending amounts for a stakeholder
// @Tags        stakeholders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Stakeholder ID"
// @Success     200 {object} services.RateCalculation "Rate calculation"
// @Failure     400 {object} ErrorResponse "Invalid stakeholder ID"
// @Failure     404 {object} ErrorResponse "Stakeholder not found"
// @Router      /stakeholders/{id}/rate-calculation [get]
func (h *StakeholderHandler) GetRateCalculation(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	stakeholderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	calculation, err := h.stakeholderService.GetRateCalculation(stakeholderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rate_calculation": calculation})
}
