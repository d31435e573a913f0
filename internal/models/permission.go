package models

// Permission 权限模型 - 静态参考数据，按类别分组
type Permission struct {
	BaseModel
	Code        string `gorm:"uniqueIndex;size:100;not null" json:"code"` // 权限代码，如 "products:edit"
	Name        string `gorm:"size:100;not null" json:"name"`             // 权限名称
	Description string `gorm:"size:255" json:"description"`               // 权限描述
	Category    string `gorm:"size:50;not null" json:"category"`          // 权限类别
	IsActive    bool   `gorm:"default:true" json:"is_active"`             // 是否启用
}

// TableName 表名
func (p *Permission) TableName() string {
	return "permissions"
}

// 权限类别常量
const (
	PermissionCategoryGeneral    = "general"    // 通用
	PermissionCategoryUsers      = "users"      // 用户管理
	PermissionCategoryProducts   = "products"   // 产品管理
	PermissionCategoryCategories = "categories" // 分类管理
	PermissionCategoryInventory  = "inventory"  // 库存管理
	PermissionCategorySales      = "sales"      // 销售管理
	PermissionCategoryPurchases  = "purchases"  // 采购管理
	PermissionCategoryReports    = "reports"    // 报表
	PermissionCategorySettings   = "settings"   // 系统设置
	PermissionCategoryModules    = "modules"    // 模块管理
)
