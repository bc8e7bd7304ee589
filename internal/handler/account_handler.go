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

// AccountHandler is the admin's account-management surface: creating driver
// and restaurant accounts directly, editing them, and removing them.
type AccountHandler struct {
	accountService service.AccountService
}

func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	accounts := router.Group("/api/admin/accounts", middleware.RequireRole(model.RoleAdmin))
	{
		accounts.GET("", h.ListAccounts)
		accounts.GET("/order-form", h.UsersForOrderForm)
		accounts.GET("/:id", h.GetAccount)
		accounts.POST("/drivers", h.createAs(model.RoleDriver))
		accounts.POST("/restaurants", h.createAs(model.RoleRestaurant))
		accounts.PUT("/:id", h.UpdateAccount)
		accounts.DELETE("/:id", h.DeleteAccount)
	}
}

func (h *AccountHandler) createAs(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}

		account, err := h.accountService.CreateAccount(c.Request.Context(), role, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}

		c.JSON(http.StatusCreated, response.Success(http.StatusCreated, account))
	}
}

// ListAccounts handles GET /api/admin/accounts?role=driver
// @Summary      List accounts by role
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role   query     string  true   "Account role"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      400    {object}  response.Response
// @Router       /api/admin/accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	params := pagination.Parse(c)
	role := c.DefaultQuery("role", model.RoleDriver)

	accounts, total, err := h.accountService.ListAccounts(c.Request.Context(), role, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// UsersForOrderForm handles GET /api/admin/accounts/order-form
func (h *AccountHandler) UsersForOrderForm(c *gin.Context) {
	users, err := h.accountService.UsersForOrderForm(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, users))
}

// GetAccount handles GET /api/admin/accounts/:id
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// UpdateAccount handles PUT /api/admin/accounts/:id
// @Summary      Update an account
// @Description  Edits the account and its role profile. A non-blank password is rehashed; blank keeps the current password.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Account ID"
// @Param        payload  body      service.UpdateAccountRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.AccountResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/admin/accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req service.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// DeleteAccount handles DELETE /api/admin/accounts/:id
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Account deleted"))
}
