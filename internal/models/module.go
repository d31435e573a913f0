package models

// Module 模块目录定义 - 可选功能包
// Key 是代码使用的稳定标识，静态注册表通过它定位行为实现
type Module struct {
	BaseModel
	Name        string `gorm:"not null;size:100" json:"name"`
	Key         string `gorm:"uniqueIndex;not null;size:50" json:"key"`
	Description string `gorm:"size:500" json:"description"`
	Icon        string `gorm:"size:50" json:"icon"`
	ModuleType  string `gorm:"not null;size:20;default:'core'" json:"module_type"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`    // 目录级开关：false表示整个平台不再提供该模块
	IsRequired  bool   `gorm:"default:false" json:"is_required"` // 必选模块不允许停用
	SortOrder   int    `gorm:"default:0" json:"sort_order"`

	// 关联关系
	OrganizationModules []OrganizationModule `gorm:"foreignKey:ModuleID" json:"-"`
}

// TableName 表名
func (m *Module) TableName() string {
	return "modules"
}

// 模块类型常量
const (
	ModuleTypeCore       = "core"
	ModuleTypeInventory  = "inventory"
	ModuleTypeSales      = "sales"
	ModuleTypePurchasing = "purchasing"
	ModuleTypeReporting  = "reporting"
	ModuleTypeAdvanced   = "advanced"
	ModuleTypeIndustry   = "industry"
)

// 内置模块Key常量
const (
	ModuleKeyUserManagement      = "user_management"
	ModuleKeyInventoryManagement = "inventory_management"
)

// ValidModuleType 检查模块类型是否合法
func ValidModuleType(moduleType string) bool {
	switch moduleType {
	case ModuleTypeCore, ModuleTypeInventory, ModuleTypeSales, ModuleTypePurchasing,
		ModuleTypeReporting, ModuleTypeAdvanced, ModuleTypeIndustry:
		return true
	}
	return false
}

// OrganizationModule 模块激活记录
// (organization_id, module_id) 组合唯一：反复开关复用同一条记录，存储层兜底防止并发重复插入
type OrganizationModule struct {
	BaseModel
	OrganizationID uint   `gorm:"not null;uniqueIndex:idx_org_module" json:"organization_id"`
	ModuleID       uint   `gorm:"not null;uniqueIndex:idx_org_module" json:"module_id"`
	IsActive       bool   `gorm:"default:true" json:"is_active"`
	Configuration  string `gorm:"type:text" json:"configuration"` // 不透明配置串，仅模块实现自己解释，按字节原样存取

	// 关联关系
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Module       *Module       `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}

// TableName 表名
func (om *OrganizationModule) TableName() string {
	return "organization_modules"
}
