package models

// Category 产品分类模型 - 组织内的树状分类
type Category struct {
	BaseModel
	OrganizationID uint    `gorm:"not null;index" json:"organization_id"`
	Name           string  `gorm:"not null;size:100" json:"name"`
	Description    string  `gorm:"size:500" json:"description"`
	ParentID       *uint   `gorm:"index" json:"parent_id"` // 父分类，nil表示顶级分类
	Status         string  `gorm:"size:20;default:'active'" json:"status"`

	// 关联关系
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Parent       *Category     `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Products     []Product     `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// TableName 表名
func (c *Category) TableName() string {
	return "categories"
}

// 分类状态常量
const (
	CategoryStatusActive   = "active"
	CategoryStatusInactive = "inactive"
)
