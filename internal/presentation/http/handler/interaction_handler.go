package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/orderdesk-api/internal/application/service"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/dto/response"
)

// InteractionHandler handles the customer interaction log
type InteractionHandler struct {
	interactionService *service.InteractionService
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// List returns a customer's interactions, newest first
func (h *InteractionHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	customerID, ok := pathUUID(c, "id", "customer")
	if !ok {
		return
	}

	interactions, err := h.interactionService.ListInteractions(c.Request.Context(), actor, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Interactions retrieved successfully", interactions)
}

// Create records an interaction against a customer
func (h *InteractionHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	customerID, ok := pathUUID(c, "id", "customer")
	if !ok {
		return
	}

	var req request.CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	interaction, err := h.interactionService.CreateInteraction(c.Request.Context(), actor, &service.CreateInteractionInput{
		CustomerID:      customerID,
		InteractionType: req.InteractionType,
		Content:         req.Content,
		NextAction:      req.NextAction,
		NextActionDate:  req.NextActionDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Interaction recorded successfully", interaction)
}

// Complete closes an interaction's next action
func (h *InteractionHandler) Complete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "interaction")
	if !ok {
		return
	}

	interaction, err := h.interactionService.CompleteAction(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next action completed", interaction)
}
