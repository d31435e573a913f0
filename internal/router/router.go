package router

import (
	"time"

	"ubs/internal/handlers"
	"ubs/internal/middleware"
	"ubs/internal/models"
	"ubs/internal/modules"
	"ubs/internal/services"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(db *gorm.DB, kv services.KVStore) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	registerRoutes(router, db, kv)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine, db *gorm.DB, kv services.KVStore) {

	discovery := modules.DefaultDiscovery()
	registry := modules.DefaultRegistry()

	moduleService := services.NewModuleService(db, discovery)
	preferencesService := services.NewPreferencesService(kv)

	auth := middleware.NewAuthMiddleware(db, moduleService)

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// 认证路由（登录无需认证）
		authHandler := handlers.NewAuthHandler(services.NewUserService(db), services.NewPermissionService(db))
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/refresh", authHandler.RefreshToken)
			authGroup.POST("/verify-email", authHandler.VerifyEmail)
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 组织路由
		organizationHandler := handlers.NewOrganizationHandler(services.NewOrganizationService(db))
		organizations := api.Group("/organizations")
		{
			organizations.POST("", auth.RequireLogin(), auth.RequirePermission("organizations:create"), organizationHandler.Create)
			organizations.GET("", auth.RequireLogin(), auth.RequirePermission("organizations:view"), organizationHandler.GetAll)
			organizations.GET("/:id", auth.RequireLogin(), auth.RequirePermission("organizations:view"), organizationHandler.GetByID)
			organizations.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("organizations:edit"), organizationHandler.Update)
			organizations.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("organizations:delete"), organizationHandler.Delete)
			organizations.POST("/:id/activate", auth.RequireLogin(), auth.RequirePermission("organizations:edit"), organizationHandler.Activate)
			organizations.POST("/:id/deactivate", auth.RequireLogin(), auth.RequirePermission("organizations:edit"), organizationHandler.Deactivate)
		}

		// 用户路由（受用户管理模块保护）
		requireUserModule := auth.RequireModule(models.ModuleKeyUserManagement)
		userHandler := handlers.NewUserHandler(services.NewUserService(db))
		users := api.Group("/users")
		{
			users.POST("", auth.RequireLogin(), requireUserModule, auth.RequirePermission("users:create"), userHandler.Create)
			users.GET("", auth.RequireLogin(), requireUserModule, auth.RequirePermission("users:view"), userHandler.GetAll)
			users.GET("/:id", auth.RequireLogin(), requireUserModule, auth.RequirePermission("users:view"), userHandler.GetByID)
			users.PUT("/:id", auth.RequireLogin(), requireUserModule, auth.RequirePermission("users:edit"), userHandler.Update)
			users.DELETE("/:id", auth.RequireLogin(), requireUserModule, auth.RequirePermission("users:delete"), userHandler.Delete)
			users.POST("/:id/role", auth.RequireLogin(), requireUserModule, auth.RequirePermission("roles:manage"), userHandler.AssignRole)
			users.POST("/:id/reset-password", auth.RequireLogin(), requireUserModule, auth.RequirePermission("users:edit"), userHandler.ResetPassword)
		}

		// 角色路由
		roleHandler := handlers.NewRoleHandler(services.NewRoleService(db))
		roles := api.Group("/roles")
		{
			roles.POST("", auth.RequireLogin(), auth.RequirePermission("roles:manage"), roleHandler.Create)
			roles.GET("", auth.RequireLogin(), auth.RequirePermission("roles:manage"), roleHandler.GetAll)
			roles.GET("/:id", auth.RequireLogin(), auth.RequirePermission("roles:manage"), roleHandler.GetByID)
			roles.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("roles:manage"), roleHandler.Update)
			roles.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("roles:manage"), roleHandler.Delete)
			roles.POST("/:id/permissions", auth.RequireLogin(), auth.RequirePermission("roles:manage"), roleHandler.AssignPermissions)
			roles.GET("/:id/permissions", auth.RequireLogin(), auth.RequirePermission("roles:manage"), roleHandler.GetPermissions)
		}

		// 权限路由（只读）
		permissionHandler := handlers.NewPermissionHandler(services.NewPermissionService(db))
		permissions := api.Group("/permissions")
		{
			permissions.GET("", auth.RequireLogin(), permissionHandler.GetAll)
			permissions.GET("/:id", auth.RequireLogin(), permissionHandler.GetByID)
		}

		// 模块管理路由
		moduleHandler := handlers.NewModuleHandler(moduleService, preferencesService, registry, discovery)
		modulesGroup := api.Group("/modules")
		{
			// 目录查询（只需登录）
			modulesGroup.GET("", auth.RequireLogin(), moduleHandler.GetAvailable)
			modulesGroup.GET("/types/:type", auth.RequireLogin(), moduleHandler.GetByType)
			modulesGroup.GET("/key/:key", auth.RequireLogin(), moduleHandler.GetByKey)
			modulesGroup.GET("/registry", auth.RequireLogin(), moduleHandler.GetRegistry)
			modulesGroup.GET("/implementations", auth.RequireLogin(), moduleHandler.GetImplementations)

			// 组织维度的激活状态
			modulesGroup.GET("/active", auth.RequireLogin(), moduleHandler.GetActive)
			modulesGroup.GET("/status/:key", auth.RequireLogin(), moduleHandler.GetStatus)

			// 激活管理（需要模块管理权限）
			modulesGroup.POST("/:id/activate", auth.RequireLogin(), auth.RequirePermission("modules:manage"), moduleHandler.Activate)
			modulesGroup.POST("/:id/deactivate", auth.RequireLogin(), auth.RequirePermission("modules:manage"), moduleHandler.Deactivate)
			modulesGroup.PUT("/:id/configuration", auth.RequireLogin(), auth.RequirePermission("modules:manage"), moduleHandler.UpdateConfiguration)
			modulesGroup.GET("/:id/configuration", auth.RequireLogin(), auth.RequirePermission("modules:manage"), moduleHandler.GetConfiguration)

			// 模块管理界面偏好
			modulesGroup.GET("/preferences", auth.RequireLogin(), moduleHandler.GetPreferences)
			modulesGroup.PUT("/preferences", auth.RequireLogin(), moduleHandler.SavePreferences)
		}

		// 库存路由（受库存管理模块保护）
		requireInventoryModule := auth.RequireModule(models.ModuleKeyInventoryManagement)

		categoryHandler := handlers.NewCategoryHandler(services.NewCategoryService(db))
		categories := api.Group("/categories")
		{
			categories.POST("", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("categories:create"), categoryHandler.Create)
			categories.GET("", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("categories:view"), categoryHandler.GetAll)
			categories.GET("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("categories:view"), categoryHandler.GetByID)
			categories.PUT("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("categories:edit"), categoryHandler.Update)
			categories.DELETE("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("categories:delete"), categoryHandler.Delete)
		}

		productHandler := handlers.NewProductHandler(services.NewProductService(db))
		products := api.Group("/products")
		{
			products.POST("", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("products:create"), productHandler.Create)
			products.GET("", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("products:view"), productHandler.GetAll)
			products.GET("/low-stock", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("products:view"), productHandler.GetLowStock)
			products.GET("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("products:view"), productHandler.GetByID)
			products.PUT("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("products:edit"), productHandler.Update)
			products.DELETE("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("products:delete"), productHandler.Delete)
		}

		supplierHandler := handlers.NewSupplierHandler(services.NewSupplierService(db))
		suppliers := api.Group("/suppliers")
		{
			suppliers.POST("", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("suppliers:create"), supplierHandler.Create)
			suppliers.GET("", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("suppliers:view"), supplierHandler.GetAll)
			suppliers.GET("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("suppliers:view"), supplierHandler.GetByID)
			suppliers.PUT("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("suppliers:edit"), supplierHandler.Update)
			suppliers.DELETE("/:id", auth.RequireLogin(), requireInventoryModule, auth.RequirePermission("suppliers:delete"), supplierHandler.Delete)
		}
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "UBS",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
