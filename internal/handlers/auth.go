package handlers

import (
	"errors"
	"strings"

	"ubs/internal/middleware"
	"ubs/internal/services"
	"ubs/pkg/jwt"
	"ubs/pkg/logger"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type AuthHandler struct {
	userService       *services.UserService
	permissionService *services.PermissionService
	jwtManager        *jwt.JWTManager
}

func NewAuthHandler(userService *services.UserService, permissionService *services.PermissionService) *AuthHandler {
	return &AuthHandler{
		userService:       userService,
		permissionService: permissionService,
		jwtManager:        jwt.GetJWTManager(),
	}
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials),
			errors.Is(err, services.ErrAccountLocked),
			errors.Is(err, services.ErrAccountDisabled):
			response.Unauthorized(c, err.Error())
		default:
			response.ServerError(c, "登录失败")
		}
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.OrganizationID, user.RoleID, user.Username)
	if err != nil {
		response.ServerError(c, "令牌生成失败")
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout 用户登出
// JWT是无状态的，登出只做日志记录；无效或缺失的token同样返回成功。
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if claims, err := h.jwtManager.VerifyToken(authHeader[7:]); err == nil {
			logger.GetLogger().Infof("用户登出 - ID: %d, 用户名: %s", claims.UserID, claims.Username)
		}
	}
	response.SuccessWithMessage(c, "登出成功", nil)
}

// Me 获取当前用户信息及其有效权限
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		response.Unauthorized(c, "用户不存在")
		return
	}

	permissions, err := h.permissionService.EffectivePermissions(user.RoleID)
	if err != nil {
		// 权限加载失败按空集处理
		permissions = []string{}
	}

	response.Success(c, gin.H{
		"user":        user,
		"permissions": permissions,
	})
}

// RefreshToken 刷新令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	newToken, err := h.jwtManager.RefreshToken(req.Token)
	if err != nil {
		response.Unauthorized(c, "Token无效或已过期")
		return
	}

	response.Success(c, gin.H{"token": newToken})
}

// VerifyEmail 邮箱验证
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.userService.VerifyEmail(req.Token); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "邮箱验证成功", nil)
}
