package handler

import (
	"net/http"

	"foodportal/internal/middleware"
	"foodportal/internal/model"
	"foodportal/internal/service"
	"foodportal/pkg/pagination"
	"foodportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	ticketService service.TicketService
}

func NewTicketHandler(ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

func (h *TicketHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleCustomer, model.RoleDriver, model.RoleRestaurant, model.RoleAdmin)

	tickets := router.Group("/api/tickets")
	{
		tickets.POST("", middleware.RequireRole(model.RoleCustomer, model.RoleDriver, model.RoleRestaurant), h.Create)
		tickets.GET("/mine", middleware.RequireRole(model.RoleCustomer, model.RoleDriver, model.RoleRestaurant), h.ListMine)
		tickets.POST("/:id/replies", anyRole, h.Reply)
	}

	admin := router.Group("/api/admin/tickets", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.AdminList)
		admin.GET("/:id", h.GetDetail)
		admin.PUT("/:id/status", h.UpdateStatus)
		admin.PUT("/:id/assign", h.Assign)
		admin.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /api/tickets
// @Summary      Open a support ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateTicketRequest  true  "Ticket Payload"
// @Success      201      {object}  response.Response{data=service.TicketResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req service.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, ticket))
}

// ListMine handles GET /api/tickets/mine
func (h *TicketHandler) ListMine(c *gin.Context) {
	tickets, err := h.ticketService.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tickets))
}

// Reply handles POST /api/tickets/:id/replies. The service only accepts
// replies from admins or the ticket's owner.
func (h *TicketHandler) Reply(c *gin.Context) {
	var req service.TicketReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reply, err := h.ticketService.Reply(c.Request.Context(), c.Param("id"), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, reply))
}

// AdminList handles GET /api/admin/tickets
// @Summary      List support tickets
// @Description  Paginated ticket list with per-status counters for the support queue
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/admin/tickets [get]
func (h *TicketHandler) AdminList(c *gin.Context) {
	params := pagination.Parse(c)

	tickets, total, stats, err := h.ticketService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"tickets": tickets,
		"total":   total,
		"stats":   stats,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// GetDetail handles GET /api/admin/tickets/:id
func (h *TicketHandler) GetDetail(c *gin.Context) {
	ticket, err := h.ticketService.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ticket))
}

// UpdateStatus handles PUT /api/admin/tickets/:id/status
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	ticket, err := h.ticketService.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ticket))
}

// Assign handles PUT /api/admin/tickets/:id/assign
func (h *TicketHandler) Assign(c *gin.Context) {
	var req service.AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	ticket, err := h.ticketService.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, ticket))
}

// Delete handles DELETE /api/admin/tickets/:id
// @Summary      Delete a support ticket
// @Description  Removes the ticket and all of its replies
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/admin/tickets/{id} [delete]
func (h *TicketHandler) Delete(c *gin.Context) {
	if err := h.ticketService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Ticket deleted"))
}
