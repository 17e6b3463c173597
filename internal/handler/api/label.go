package api

import (
	"errors"
	"net/http"

	"stoodioz/internal/handler/middleware"
	"stoodioz/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LabelHandler struct {
	labelQueries queries.LabelQueries
}

func NewLabelHandler(labelQueries queries.LabelQueries) *LabelHandler {
	return &LabelHandler{labelQueries: labelQueries}
}

// @Summary Label budget overview
// @Description Get a label's budget totals and per-artist allocations
// @Tags labels
// @Produce json
// @Security BearerAuth
// @Param id path string true "Label ID"
// @Success 200 {object} queries.BudgetOverviewView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /labels/{id}/budget [get]
func (h *LabelHandler) GetBudget(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid label ID format",
		})
		return
	}

	overview, err := h.labelQueries.GetBudgetOverview(c.Request.Context(), labelID, userID, role)
	if err != nil {
		h.writeLabelError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// @Summary List label contracts
// @Description List a label's revenue-share contracts
// @Tags labels
// @Produce json
// @Security BearerAuth
// @Param id path string true "Label ID"
// @Success 200 {array} queries.ContractView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /labels/{id}/contracts [get]
func (h *LabelHandler) ListContracts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	labelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid label ID format",
		})
		return
	}

	contracts, err := h.labelQueries.ListContracts(c.Request.Context(), labelID, userID, role)
	if err != nil {
		h.writeLabelError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts)
}

func (h *LabelHandler) writeLabelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrLabelNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Label not found",
		})
	case errors.Is(err, queries.ErrLabelAccess):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not allowed to view this label",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
