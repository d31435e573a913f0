package models

import "github.com/shopspring/decimal"

// Product 产品模型
type Product struct {
	BaseModel
	OrganizationID uint            `gorm:"not null;uniqueIndex:idx_org_sku" json:"organization_id"`
	CategoryID     *uint           `gorm:"index" json:"category_id"`
	SKU            string          `gorm:"not null;size:50;uniqueIndex:idx_org_sku" json:"sku"` // 组织内唯一
	Name           string          `gorm:"not null;size:200" json:"name"`
	Description    string          `gorm:"size:1000" json:"description"`
	Unit           string          `gorm:"size:20" json:"unit"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(12,2)" json:"sale_price"`
	PurchasePrice  decimal.Decimal `gorm:"type:decimal(12,2)" json:"purchase_price"`
	StockQuantity  int             `gorm:"default:0" json:"stock_quantity"`
	MinStockLevel  int             `gorm:"default:0" json:"min_stock_level"`
	Status         string          `gorm:"size:20;default:'active'" json:"status"`

	// 关联关系
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Category     *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName 表名
func (p *Product) TableName() string {
	return "products"
}

// 产品状态常量
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued"
)
