package models

// Supplier 供应商模型
type Supplier struct {
	BaseModel
	OrganizationID uint    `gorm:"not null;index" json:"organization_id"`
	Name           string  `gorm:"not null;size:200" json:"name"`
	ContactName    *string `gorm:"size:100" json:"contact_name"`
	Phone          *string `gorm:"size:20" json:"phone"`
	Email          *string `gorm:"size:200" json:"email"`
	Address        *string `gorm:"size:500" json:"address"`
	Status         string  `gorm:"size:20;default:'active'" json:"status"`

	// 关联关系
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// TableName 表名
func (s *Supplier) TableName() string {
	return "suppliers"
}

// 供应商状态常量
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)
