package handler

import (
	"net/http"

	"foodportal/internal/middleware"
	"foodportal/internal/model"
	"foodportal/internal/repository"
	"foodportal/internal/service"
	"foodportal/pkg/pagination"
	"foodportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.POST("", middleware.RequireRole(model.RoleCustomer), h.PlaceOrder)
		orders.GET("/mine", middleware.RequireRole(model.RoleCustomer), h.ListMine)
		orders.GET("/restaurant", middleware.RequireRole(model.RoleRestaurant), h.ListForRestaurant)
		orders.GET("/:id", middleware.RequireRole(model.RoleCustomer, model.RoleDriver, model.RoleRestaurant, model.RoleAdmin), h.GetOrder)
	}

	driver := router.Group("/api/driver", middleware.RequireRole(model.RoleDriver))
	{
		driver.GET("/board", h.DriverBoard)
		driver.POST("/orders/:id/claim", h.ClaimOrder)
		driver.PUT("/orders/:id/status", h.AdvanceStatus)
	}

	admin := router.Group("/api/admin/orders", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.AdminList)
		admin.GET("/stats", h.OrderStats)
		admin.POST("", h.AdminCreate)
		admin.PUT("/:id/assign", h.AssignDriver)
		admin.PUT("/:id/status", h.OverrideStatus)
		admin.DELETE("/:id", h.DeleteOrder)
	}
}

// PlaceOrder handles POST /api/orders for the customer storefront
// @Summary      Place an order
// @Description  Creates a pending order against an approved restaurant
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PlaceOrderRequest  true  "Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListMine handles GET /api/orders/mine for the customer's own history
func (h *OrderHandler) ListMine(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.orderService.ListForCustomer(c.Request.Context(), currentUserID(c), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// ListForRestaurant handles GET /api/orders/restaurant for the restaurant's queue
func (h *OrderHandler) ListForRestaurant(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.orderService.ListForRestaurant(c.Request.Context(), currentUserID(c), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetOrder handles GET /api/orders/:id
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DriverBoard handles GET /api/driver/board
// @Summary      Driver board
// @Description  Returns the driver's active order, the unassigned pool, and completed deliveries
// @Tags         driver
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DriverBoardResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/driver/board [get]
func (h *OrderHandler) DriverBoard(c *gin.Context) {
	board, err := h.orderService.DriverBoard(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, board))
}

// ClaimOrder handles POST /api/driver/orders/:id/claim
// @Summary      Claim an order
// @Description  Driver self-accepts an unassigned pending order. When two drivers race for the same order, exactly one claim succeeds.
// @Tags         driver
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/driver/orders/{id}/claim [post]
func (h *OrderHandler) ClaimOrder(c *gin.Context) {
	order, err := h.orderService.ClaimOrder(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AdvanceStatus handles PUT /api/driver/orders/:id/status
// @Summary      Advance order status
// @Description  Moves the order one step along its lifecycle. Only the assigned driver may advance, and only to the single next status.
// @Tags         driver
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Order ID"
// @Param        payload  body      service.AdvanceStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/driver/orders/{id}/status [put]
func (h *OrderHandler) AdvanceStatus(c *gin.Context) {
	var req service.AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	order, err := h.orderService.AdvanceStatus(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// AdminList handles GET /api/admin/orders with optional status filter
func (h *OrderHandler) AdminList(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.OrderFilter{}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []string{status}
	}
	if c.Query("unassigned") == "true" {
		filter.Unassigned = true
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// OrderStats handles GET /api/admin/orders/stats
func (h *OrderHandler) OrderStats(c *gin.Context) {
	stats, err := h.orderService.OrderStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// AdminCreate handles POST /api/admin/orders for the manual add-order form
// @Summary      Create order as admin
// @Description  Creates an order on behalf of a customer. Assigning a driver at creation confirms the order immediately.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AdminCreateOrderRequest  true  "Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/admin/orders [post]
func (h *OrderHandler) AdminCreate(c *gin.Context) {
	var req service.AdminCreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.AdminCreateOrder(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// AssignDriver handles PUT /api/admin/orders/:id/assign
func (h *OrderHandler) AssignDriver(c *gin.Context) {
	var req service.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	order, err := h.orderService.AssignDriver(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// OverrideStatus handles PUT /api/admin/orders/:id/status
// @Summary      Override order status
// @Description  Sets the order to any known status, bypassing the driver step rules. The override is recorded in the audit log.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Order ID"
// @Param        payload  body      service.OverrideStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/admin/orders/{id}/status [put]
func (h *OrderHandler) OverrideStatus(c *gin.Context) {
	var req service.OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	order, err := h.orderService.OverrideStatus(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeleteOrder handles DELETE /api/admin/orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Order deleted"))
}
