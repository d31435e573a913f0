package modules

import (
	"encoding/json"
	"fmt"

	"ubs/internal/models"
	"ubs/pkg/logger"
)

// InventoryModule 库存管理模块实现
type InventoryModule struct{}

// InventorySettings 库存模块配置
// 激活记录中的配置串按此结构解释，其他模块看不到该格式
type InventorySettings struct {
	LowStockAlert     bool   `json:"low_stock_alert"`
	DefaultUnit       string `json:"default_unit"`
	NegativeStockMode string `json:"negative_stock_mode"` // allow / forbid
}

func NewInventoryModule() *InventoryModule {
	return &InventoryModule{}
}

func (m *InventoryModule) Name() string {
	return "库存管理"
}

func (m *InventoryModule) Key() string {
	return models.ModuleKeyInventoryManagement
}

func (m *InventoryModule) Description() string {
	return "管理产品、分类与库存"
}

func (m *InventoryModule) ModuleType() string {
	return models.ModuleTypeCore
}

// Initialize 为组织初始化库存模块
func (m *InventoryModule) Initialize(organizationID uint) error {
	logger.GetLogger().Infof("库存管理模块已为组织 %d 初始化", organizationID)
	return nil
}

// Shutdown 为组织停用库存模块
func (m *InventoryModule) Shutdown(organizationID uint) error {
	logger.GetLogger().Infof("库存管理模块已为组织 %d 停用", organizationID)
	return nil
}

// Configure 解析库存模块配置，非法JSON视为生命周期调用失败
func (m *InventoryModule) Configure(configuration string) error {
	if configuration == "" {
		return nil
	}

	var settings InventorySettings
	if err := json.Unmarshal([]byte(configuration), &settings); err != nil {
		return fmt.Errorf("库存模块配置解析失败: %v", err)
	}

	logger.GetLogger().Infof("库存管理模块配置已更新: default_unit=%s low_stock_alert=%t",
		settings.DefaultUnit, settings.LowStockAlert)
	return nil
}

func (m *InventoryModule) RequiredPermissions() []string {
	return []string{
		"products:view",
		"products:create",
		"products:edit",
		"products:delete",
		"categories:view",
		"categories:create",
		"categories:edit",
		"categories:delete",
	}
}

func (m *InventoryModule) Dependencies() []string {
	return nil // 核心模块无依赖
}
