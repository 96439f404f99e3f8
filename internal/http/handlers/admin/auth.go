package admin

import (
	"errors"
	"time"

	"github.com/minishop-next/internal/http/handlers/shared"
	"github.com/minishop-next/internal/http/response"
	"github.com/minishop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

var adminAuthErrorRules = []shared.MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.admin_invalid_credentials"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.admin_password_invalid"},
	{Target: service.ErrAdminNotFound, Code: response.CodeUnauthorized, Key: "error.unauthorized"},
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	admin, token, expiresAt, err := h.AdminAuthService.Login(req.Username, req.Password)
	if err != nil {
		shared.RespondMappedError(c, err, adminAuthErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
		"user": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
		},
	})
}

// GetCurrentAdmin 当前管理员及角色
func (h *Handler) GetCurrentAdmin(c *gin.Context) {
	adminID, ok := shared.GetAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AdminAuthService.GetAdmin(adminID)
	if err != nil {
		shared.RespondMappedError(c, err, adminAuthErrorRules, response.CodeInternal, "error.internal")
		return
	}
	roles := []string{}
	if h.AuthzService != nil {
		if roles, err = h.AuthzService.GetAdminRoles(adminID); err != nil {
			shared.RespondError(c, response.CodeInternal, "error.internal", err)
			return
		}
	}
	response.Success(c, gin.H{
		"id":       admin.ID,
		"username": admin.Username,
		"is_super": admin.IsSuper,
		"roles":    roles,
	})
}

// UpdateAdminPassword 修改管理员密码
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	adminID, ok := shared.GetAdminID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AdminAuthService.ChangePassword(adminID, req.OldPassword, req.NewPassword); err != nil {
		if isWeakPassword(err) {
			shared.RespondServiceError(c, err, "error.internal")
			return
		}
		shared.RespondMappedError(c, err, adminAuthErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

func isWeakPassword(err error) bool {
	return errors.Is(err, service.ErrWeakPassword)
}
