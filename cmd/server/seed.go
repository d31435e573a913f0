package main

import (
	"fmt"

	"ubs/internal/models"
	"ubs/internal/services"
	"ubs/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据，可重复执行
func seedData(db *gorm.DB) error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	// 1. 初始化权限目录
	if err := initializePermissions(db); err != nil {
		return fmt.Errorf("初始化权限失败: %v", err)
	}

	// 2. 初始化模块目录
	if err := initializeModuleCatalog(db); err != nil {
		return fmt.Errorf("初始化模块目录失败: %v", err)
	}

	// 3. 创建默认组织（自动引导系统管理员角色）
	if err := createDefaultOrganization(db); err != nil {
		return fmt.Errorf("创建默认组织失败: %v", err)
	}

	// 4. 为默认组织激活必选模块
	if err := activateRequiredModules(db); err != nil {
		return fmt.Errorf("激活必选模块失败: %v", err)
	}

	// 5. 创建默认管理员用户
	if err := createDefaultAdmin(db); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// initializePermissions 初始化权限目录
func initializePermissions(db *gorm.DB) error {
	defaultPermissions := []models.Permission{
		// 通用权限
		{Code: "dashboard:view", Name: "查看工作台", Category: models.PermissionCategoryGeneral, Description: "访问系统工作台"},

		// 组织管理权限
		{Code: "organizations:create", Name: "创建组织", Category: models.PermissionCategorySettings, Description: "创建新组织"},
		{Code: "organizations:view", Name: "查看组织", Category: models.PermissionCategorySettings, Description: "查看组织信息"},
		{Code: "organizations:edit", Name: "编辑组织", Category: models.PermissionCategorySettings, Description: "更新组织信息"},
		{Code: "organizations:delete", Name: "删除组织", Category: models.PermissionCategorySettings, Description: "删除组织"},
		{Code: "settings:manage", Name: "管理系统设置", Category: models.PermissionCategorySettings, Description: "修改系统级设置"},

		// 用户管理权限
		{Code: "users:view", Name: "查看用户", Category: models.PermissionCategoryUsers, Description: "查看用户列表和详情"},
		{Code: "users:create", Name: "创建用户", Category: models.PermissionCategoryUsers, Description: "创建新用户"},
		{Code: "users:edit", Name: "编辑用户", Category: models.PermissionCategoryUsers, Description: "更新用户信息"},
		{Code: "users:delete", Name: "删除用户", Category: models.PermissionCategoryUsers, Description: "删除用户"},
		{Code: "roles:manage", Name: "管理角色", Category: models.PermissionCategoryUsers, Description: "管理角色及其权限分配"},

		// 产品管理权限
		{Code: "products:view", Name: "查看产品", Category: models.PermissionCategoryProducts, Description: "查看产品列表和详情"},
		{Code: "products:create", Name: "创建产品", Category: models.PermissionCategoryProducts, Description: "创建新产品"},
		{Code: "products:edit", Name: "编辑产品", Category: models.PermissionCategoryProducts, Description: "更新产品信息"},
		{Code: "products:delete", Name: "删除产品", Category: models.PermissionCategoryProducts, Description: "删除产品"},

		// 分类管理权限
		{Code: "categories:view", Name: "查看分类", Category: models.PermissionCategoryCategories, Description: "查看产品分类"},
		{Code: "categories:create", Name: "创建分类", Category: models.PermissionCategoryCategories, Description: "创建产品分类"},
		{Code: "categories:edit", Name: "编辑分类", Category: models.PermissionCategoryCategories, Description: "更新产品分类"},
		{Code: "categories:delete", Name: "删除分类", Category: models.PermissionCategoryCategories, Description: "删除产品分类"},

		// 库存管理权限
		{Code: "suppliers:view", Name: "查看供应商", Category: models.PermissionCategoryInventory, Description: "查看供应商信息"},
		{Code: "suppliers:create", Name: "创建供应商", Category: models.PermissionCategoryInventory, Description: "创建新供应商"},
		{Code: "suppliers:edit", Name: "编辑供应商", Category: models.PermissionCategoryInventory, Description: "更新供应商信息"},
		{Code: "suppliers:delete", Name: "删除供应商", Category: models.PermissionCategoryInventory, Description: "删除供应商"},
		{Code: "inventory:adjust", Name: "调整库存", Category: models.PermissionCategoryInventory, Description: "调整产品库存数量"},

		// 销售与采购权限
		{Code: "sales:view", Name: "查看销售", Category: models.PermissionCategorySales, Description: "查看销售记录"},
		{Code: "sales:create", Name: "创建销售", Category: models.PermissionCategorySales, Description: "创建销售记录"},
		{Code: "purchases:view", Name: "查看采购", Category: models.PermissionCategoryPurchases, Description: "查看采购记录"},
		{Code: "purchases:create", Name: "创建采购", Category: models.PermissionCategoryPurchases, Description: "创建采购记录"},

		// 报表权限
		{Code: "reports:view", Name: "查看报表", Category: models.PermissionCategoryReports, Description: "查看业务报表"},

		// 模块管理权限
		{Code: "modules:manage", Name: "管理模块", Category: models.PermissionCategoryModules, Description: "激活、停用模块及管理模块配置"},
	}

	// 批量创建权限
	for _, perm := range defaultPermissions {
		var count int64
		db.Model(&models.Permission{}).Where("code = ?", perm.Code).Count(&count)
		if count == 0 {
			if err := db.Create(&perm).Error; err != nil {
				return fmt.Errorf("创建权限 %s 失败: %v", perm.Code, err)
			}
		}
	}

	logger.GetLogger().Info("权限初始化完成")
	return nil
}

// initializeModuleCatalog 初始化模块目录
func initializeModuleCatalog(db *gorm.DB) error {
	defaultModules := []models.Module{
		{
			Name:        "用户管理",
			Key:         models.ModuleKeyUserManagement,
			Description: "组织内的用户、角色与权限管理",
			Icon:        "users",
			ModuleType:  models.ModuleTypeCore,
			IsActive:    true,
			IsRequired:  true,
			SortOrder:   1,
		},
		{
			Name:        "库存管理",
			Key:         models.ModuleKeyInventoryManagement,
			Description: "产品、分类、供应商与库存水平管理",
			Icon:        "boxes",
			ModuleType:  models.ModuleTypeInventory,
			IsActive:    true,
			IsRequired:  false,
			SortOrder:   2,
		},
	}

	for _, module := range defaultModules {
		var count int64
		db.Model(&models.Module{}).Where("key = ?", module.Key).Count(&count)
		if count == 0 {
			if err := db.Create(&module).Error; err != nil {
				return fmt.Errorf("创建模块 %s 失败: %v", module.Key, err)
			}
		}
	}

	logger.GetLogger().Info("模块目录初始化完成")
	return nil
}

// createDefaultOrganization 创建默认组织
func createDefaultOrganization(db *gorm.DB) error {
	var count int64
	db.Model(&models.Organization{}).Count(&count)
	if count > 0 {
		logger.GetLogger().Info("组织已存在，跳过创建")
		return nil
	}

	// 通过服务创建，复用管理员角色引导逻辑
	organizationService := services.NewOrganizationService(db)
	if _, err := organizationService.Create("默认组织", "系统初始化创建的默认组织"); err != nil {
		return err
	}

	logger.GetLogger().Info("默认组织创建成功")
	return nil
}

// activateRequiredModules 为默认组织激活必选模块
func activateRequiredModules(db *gorm.DB) error {
	var organization models.Organization
	if err := db.Order("id").First(&organization).Error; err != nil {
		return fmt.Errorf("获取默认组织失败: %v", err)
	}

	var required []models.Module
	if err := db.Where("is_required = ? AND is_active = ?", true, true).Find(&required).Error; err != nil {
		return err
	}

	for _, module := range required {
		var count int64
		db.Model(&models.OrganizationModule{}).
			Where("organization_id = ? AND module_id = ?", organization.ID, module.ID).
			Count(&count)
		if count > 0 {
			continue
		}

		link := &models.OrganizationModule{
			OrganizationID: organization.ID,
			ModuleID:       module.ID,
			IsActive:       true,
		}
		if err := db.Create(link).Error; err != nil {
			return fmt.Errorf("激活模块 %s 失败: %v", module.Key, err)
		}
	}

	logger.GetLogger().Info("必选模块激活完成")
	return nil
}

// createDefaultAdmin 创建默认管理员用户
func createDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("管理员用户已存在，跳过创建")
		return nil
	}

	// 获取默认组织
	var organization models.Organization
	if err := db.Order("id").First(&organization).Error; err != nil {
		return fmt.Errorf("获取默认组织失败: %v", err)
	}

	// 获取引导创建的管理员角色
	var role models.Role
	if err := db.Where("organization_id = ? AND name = ?", organization.ID, services.SystemAdminRoleName).
		First(&role).Error; err != nil {
		return fmt.Errorf("获取管理员角色失败: %v", err)
	}

	user := &models.User{
		OrganizationID:  organization.ID,
		RoleID:          role.ID,
		Username:        "admin",
		Email:           "admin@example.com",
		Name:            "系统管理员",
		Status:          models.UserStatusActive,
		IsEmailVerified: true,
	}

	if err := user.SetPassword("Admin@123"); err != nil {
		return fmt.Errorf("设置密码失败: %v", err)
	}

	if err := db.Create(user).Error; err != nil {
		return err
	}

	logger.GetLogger().Infof("默认管理员创建成功 - 用户名: admin, 密码: Admin@123")
	return nil
}
