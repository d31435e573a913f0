package modules

import (
	"ubs/internal/models"
	"ubs/pkg/logger"
)

// UserManagementModule 用户管理模块实现
type UserManagementModule struct{}

func NewUserManagementModule() *UserManagementModule {
	return &UserManagementModule{}
}

func (m *UserManagementModule) Name() string {
	return "用户管理"
}

func (m *UserManagementModule) Key() string {
	return models.ModuleKeyUserManagement
}

func (m *UserManagementModule) Description() string {
	return "管理用户、角色与权限"
}

func (m *UserManagementModule) ModuleType() string {
	return models.ModuleTypeCore
}

// Initialize 为组织初始化用户管理模块
func (m *UserManagementModule) Initialize(organizationID uint) error {
	logger.GetLogger().Infof("用户管理模块已为组织 %d 初始化", organizationID)
	return nil
}

// Shutdown 为组织停用用户管理模块
func (m *UserManagementModule) Shutdown(organizationID uint) error {
	logger.GetLogger().Infof("用户管理模块已为组织 %d 停用", organizationID)
	return nil
}

// Configure 用户管理模块当前没有可配置项，仅记录收到的配置
func (m *UserManagementModule) Configure(configuration string) error {
	logger.GetLogger().Infof("用户管理模块收到配置: %s", configuration)
	return nil
}

func (m *UserManagementModule) RequiredPermissions() []string {
	return []string{
		"users:view",
		"users:create",
		"users:edit",
		"users:delete",
		"roles:manage",
	}
}

func (m *UserManagementModule) Dependencies() []string {
	return nil // 核心模块无依赖
}
