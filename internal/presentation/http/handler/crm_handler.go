package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/orderdesk-api/internal/application/service"
	"github.com/sangkips/orderdesk-api/internal/domain/crm"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/dto/response"
)

// CRMHandler exposes the grading engine and the segment overview
type CRMHandler struct {
	recalcService    *service.RecalculationService
	dashboardService *service.DashboardService
	rules            *crm.RuleSet
}

// NewCRMHandler creates a new CRM engine handler
func NewCRMHandler(recalcService *service.RecalculationService, dashboardService *service.DashboardService, rules *crm.RuleSet) *CRMHandler {
	return &CRMHandler{recalcService: recalcService, dashboardService: dashboardService, rules: rules}
}

// Recalculate re-derives grade, status and order totals for every customer
func (h *CRMHandler) Recalculate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	result, err := h.recalcService.Recalculate(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result.Message, result)
}

// Rules returns the thresholds currently in force
func (h *CRMHandler) Rules(c *gin.Context) {
	response.OK(c, "Rules retrieved successfully", h.rules.Load())
}

// Dashboard returns customer counts per grade and status with the unread reminder count
func (h *CRMHandler) Dashboard(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
