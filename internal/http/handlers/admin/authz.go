package admin

import (
	"errors"

	"github.com/minishop-next/internal/authz"
	"github.com/minishop-next/internal/http/handlers/shared"
	"github.com/minishop-next/internal/http/response"
	"github.com/minishop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SetAdminRolesRequest 设置管理员角色请求
type SetAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// ListRoles 角色列表
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// GetAdminRoles 查看管理员角色
func (h *Handler) GetAdminRoles(c *gin.Context) {
	adminID, ok := shared.ParseUintParam(c, "id", "error.admin_id_invalid")
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"admin_id": adminID, "roles": roles})
}

// SetAdminRoles 覆盖管理员角色
func (h *Handler) SetAdminRoles(c *gin.Context) {
	adminID, ok := shared.ParseUintParam(c, "id", "error.admin_id_invalid")
	if !ok {
		return
	}
	var req SetAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if _, err := h.AdminAuthService.GetAdmin(adminID); err != nil {
		shared.RespondMappedError(c, err, []shared.MappedError{
			{Target: service.ErrAdminNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	if err := h.AuthzService.SetAdminRoles(adminID, req.Roles); err != nil {
		if errors.Is(err, authz.ErrInvalidRole) {
			shared.RespondError(c, response.CodeBadRequest, "error.role_invalid", nil)
			return
		}
		shared.RespondError(c, response.CodeInternal, "error.authz_update_failed", err)
		return
	}
	operator, _ := c.Get(shared.ContextKeyAdminID)
	shared.RequestLog(c).Infow("admin_roles_updated", "operator_id", operator, "admin_id", adminID, "roles", req.Roles)
	response.Success(c, gin.H{"admin_id": adminID, "roles": req.Roles})
}
