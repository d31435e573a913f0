package middleware

import (
	"strings"

	"ubs/internal/models"
	"ubs/internal/services"
	"ubs/pkg/errors"
	"ubs/pkg/jwt"
	"ubs/pkg/logger"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware 认证与授权中间件
type AuthMiddleware struct {
	userService       *services.UserService
	permissionService *services.PermissionService
	moduleService     *services.ModuleService
	jwtManager        *jwt.JWTManager
}

func NewAuthMiddleware(db *gorm.DB, moduleService *services.ModuleService) *AuthMiddleware {
	return &AuthMiddleware{
		userService:       services.NewUserService(db),
		permissionService: services.NewPermissionService(db),
		moduleService:     moduleService,
		jwtManager:        jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// RequireLogin 要求登录
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		tokenString := authHeader[7:] // 去掉 "Bearer "

		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		user, err := m.userService.GetByID(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		if user.Status != models.UserStatusActive {
			response.Unauthorized(c, "用户已被禁用")
			c.Abort()
			return
		}

		// 将用户信息保存到上下文
		c.Set("user", user)
		c.Set("user_id", claims.UserID)
		c.Set("organization_id", claims.OrganizationID)
		c.Set("role_id", claims.RoleID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// RequirePermission 要求特定权限
// 数据缺失或查询失败一律按无权限处理（fail closed）。
func (m *AuthMiddleware) RequirePermission(permissionCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		hasPermission, err := m.permissionService.HasPermission(userID.(uint), permissionCode)
		if err != nil || !hasPermission {
			response.Forbidden(c, "权限不足：需要 "+permissionCode+" 权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireModule 要求组织已激活指定模块
// 模块未激活返回403；激活状态查询出错返回单独的检查失败码，不与未激活混淆。
func (m *AuthMiddleware) RequireModule(moduleKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("organization_id")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}
		organizationID := value.(uint)

		active, err := m.moduleService.IsModuleActiveChecked(organizationID, moduleKey)
		if err != nil {
			logger.GetLogger().Errorf("模块状态查询失败（组织 %d，模块 %s）: %v", organizationID, moduleKey, err)
			response.Error(c, errors.CodeModuleCheckFail, "模块状态查询失败")
			c.Abort()
			return
		}
		if !active {
			response.Forbidden(c, "模块 "+moduleKey+" 未激活")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetOrganizationID 从上下文取当前组织ID
func GetOrganizationID(c *gin.Context) (uint, bool) {
	if organizationID, exists := c.Get("organization_id"); exists {
		return organizationID.(uint), true
	}
	return 0, false
}

// GetUserID 从上下文取当前用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	if userID, exists := c.Get("user_id"); exists {
		return userID.(uint), true
	}
	return 0, false
}
