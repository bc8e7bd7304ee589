package handler

import (
	"net/http"

	"foodportal/internal/middleware"
	"foodportal/internal/model"
	"foodportal/internal/service"
	"foodportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/api/admin/approvals", middleware.RequireRole(model.RoleAdmin))
	{
		approvals.GET("", h.ListPending)
		approvals.PUT("/:id/approve", h.Approve)
		approvals.PUT("/:id/reject", h.Reject)
	}
}

// ListPending returns driver and restaurant accounts waiting for sign-off
// @Summary      List pending approvals
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.PendingAccountsResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/admin/approvals [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	pending, err := h.approvalService.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pending))
}

// Approve flips the account's approval flag
// @Summary      Approve account
// @Description  Marks a pending driver or restaurant account as approved. Approving an already-approved account is a no-op.
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/admin/approvals/{id}/approve [put]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	user, err := h.approvalService.Approve(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// Reject deletes the account and everything hanging off it
// @Summary      Reject account
// @Description  Deletes the pending account, its profile, tokens, and owned orders
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/admin/approvals/{id}/reject [put]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	if err := h.approvalService.Reject(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Account rejected and removed"))
}
