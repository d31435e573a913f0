package models

import "gorm.io/datatypes"

// Organization 组织模型 - 所有业务数据的租户边界
type Organization struct {
	BaseModel
	Name        string         `json:"name" gorm:"not null;size:200"`
	Description string         `json:"description" gorm:"size:500"`
	Phone       *string        `json:"phone" gorm:"size:20"`
	Email       *string        `json:"email" gorm:"size:200"`
	Address     *string        `json:"address" gorm:"size:500"`
	Status      string         `json:"status" gorm:"default:'active';size:20"`
	LicenseKey  *string        `json:"license_key" gorm:"size:50"`
	Settings    datatypes.JSON `json:"settings,omitempty"` // 组织级自定义设置

	// 关联关系（组织删除时级联清理）
	Users   []User               `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	Roles   []Role               `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	Modules []OrganizationModule `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

// TableName 表名
func (o *Organization) TableName() string {
	return "organizations"
}

// 组织状态常量
const (
	OrganizationStatusActive   = "active"
	OrganizationStatusInactive = "inactive"
)
