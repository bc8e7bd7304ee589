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

type RestaurantHandler struct {
	restaurantService service.RestaurantService
}

func NewRestaurantHandler(restaurantService service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService}
}

func (h *RestaurantHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleCustomer, model.RoleDriver, model.RoleRestaurant, model.RoleAdmin)

	// Browsing surface: the storefront the customer sees.
	restaurants := router.Group("/api/restaurants")
	{
		restaurants.GET("", anyRole, h.List)
		restaurants.GET("/:id", anyRole, h.Get)
		restaurants.GET("/:id/menu", anyRole, h.PublicMenu)
		restaurants.GET("/:id/categories", anyRole, h.ListCategories)
	}

	// Owner surface: menu management for the logged-in restaurant.
	menu := router.Group("/api/menu", middleware.RequireRole(model.RoleRestaurant))
	{
		menu.GET("", h.ListOwnMenu)
		menu.POST("", h.CreateMenuItem)
		menu.PUT("/:id", h.UpdateMenuItem)
		menu.DELETE("/:id", h.DeleteMenuItem)
		menu.POST("/categories", h.CreateCategory)
		menu.DELETE("/categories/:id", h.DeleteCategory)
	}

	// Admin surface: CRUD on the restaurant entities themselves.
	admin := router.Group("/api/admin/restaurants", middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("", h.AdminCreate)
		admin.PUT("/:id", h.AdminUpdate)
		admin.DELETE("/:id", h.AdminDelete)
	}
}

// List handles GET /api/restaurants
// @Summary      List restaurants
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/restaurants [get]
func (h *RestaurantHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	restaurants, total, err := h.restaurantService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"restaurants": restaurants,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// Get handles GET /api/restaurants/:id
func (h *RestaurantHandler) Get(c *gin.Context) {
	restaurant, err := h.restaurantService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, restaurant))
}

// PublicMenu handles GET /api/restaurants/:id/menu
// @Summary      Browse a restaurant's menu
// @Description  Returns only the items currently marked available
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=[]service.MenuItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/restaurants/{id}/menu [get]
func (h *RestaurantHandler) PublicMenu(c *gin.Context) {
	items, err := h.restaurantService.ListPublicMenu(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// ListCategories handles GET /api/restaurants/:id/categories
func (h *RestaurantHandler) ListCategories(c *gin.Context) {
	categories, err := h.restaurantService.ListCategories(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// ListOwnMenu handles GET /api/menu for the logged-in restaurant
func (h *RestaurantHandler) ListOwnMenu(c *gin.Context) {
	items, err := h.restaurantService.ListOwnMenu(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// CreateMenuItem handles POST /api/menu
// @Summary      Add a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.MenuItemRequest  true  "Menu Item Payload"
// @Success      201      {object}  response.Response{data=service.MenuItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/menu [post]
func (h *RestaurantHandler) CreateMenuItem(c *gin.Context) {
	var req service.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.restaurantService.CreateMenuItem(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateMenuItem handles PUT /api/menu/:id
func (h *RestaurantHandler) UpdateMenuItem(c *gin.Context) {
	var req service.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.restaurantService.UpdateMenuItem(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteMenuItem handles DELETE /api/menu/:id
func (h *RestaurantHandler) DeleteMenuItem(c *gin.Context) {
	if err := h.restaurantService.DeleteMenuItem(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Menu item deleted"))
}

// CreateCategory handles POST /api/menu/categories
func (h *RestaurantHandler) CreateCategory(c *gin.Context) {
	var req service.MenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.restaurantService.CreateCategory(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// DeleteCategory handles DELETE /api/menu/categories/:id
func (h *RestaurantHandler) DeleteCategory(c *gin.Context) {
	if err := h.restaurantService.DeleteCategory(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Category deleted"))
}

// AdminCreate handles POST /api/admin/restaurants
func (h *RestaurantHandler) AdminCreate(c *gin.Context) {
	var req service.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	restaurant, err := h.restaurantService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, restaurant))
}

// AdminUpdate handles PUT /api/admin/restaurants/:id
func (h *RestaurantHandler) AdminUpdate(c *gin.Context) {
	var req service.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	restaurant, err := h.restaurantService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, restaurant))
}

// AdminDelete handles DELETE /api/admin/restaurants/:id
func (h *RestaurantHandler) AdminDelete(c *gin.Context) {
	if err := h.restaurantService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Restaurant deleted"))
}
