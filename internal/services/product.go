package services

import (
	"fmt"

	"ubs/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService 产品管理
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// Create 创建产品
func (s *ProductService) Create(organizationID uint, sku, name, description, unit string,
	categoryID *uint, salePrice, purchasePrice decimal.Decimal, minStockLevel int) (*models.Product, error) {
	if sku == "" || name == "" {
		return nil, fmt.Errorf("SKU和产品名称不能为空")
	}
	if salePrice.IsNegative() || purchasePrice.IsNegative() {
		return nil, fmt.Errorf("价格不能为负数")
	}

	// SKU组织内唯一
	var count int64
	s.db.Model(&models.Product{}).Where("organization_id = ? AND sku = ?", organizationID, sku).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("SKU已存在")
	}

	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND organization_id = ?", *categoryID, organizationID).
			First(&category).Error; err != nil {
			return nil, fmt.Errorf("分类不存在")
		}
	}

	product := &models.Product{
		OrganizationID: organizationID,
		CategoryID:     categoryID,
		SKU:            sku,
		Name:           name,
		Description:    description,
		Unit:           unit,
		SalePrice:      salePrice,
		PurchasePrice:  purchasePrice,
		MinStockLevel:  minStockLevel,
		Status:         models.ProductStatusActive,
	}

	err := s.db.Create(product).Error
	return product, err
}

// GetByID 获取组织内的产品
func (s *ProductService) GetByID(organizationID, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("Category").
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&product).Error
	return &product, err
}

// GetWithPage 分页获取组织产品
func (s *ProductService) GetWithPage(organizationID uint, categoryID *uint, status, keyword string, page, pageSize int) ([]*models.Product, int64, error) {
	var products []*models.Product
	var total int64

	query := s.db.Model(&models.Product{}).Where("organization_id = ?", organizationID)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR sku LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Category").Order("name").Offset(offset).Limit(pageSize).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Update 更新产品
func (s *ProductService) Update(organizationID, id uint, name, description, unit string,
	categoryID *uint, salePrice, purchasePrice decimal.Decimal, minStockLevel int, status string) (*models.Product, error) {
	if name == "" {
		return nil, fmt.Errorf("产品名称不能为空")
	}
	if salePrice.IsNegative() || purchasePrice.IsNegative() {
		return nil, fmt.Errorf("价格不能为负数")
	}

	product, err := s.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}

	product.Name = name
	product.Description = description
	product.Unit = unit
	product.CategoryID = categoryID
	product.SalePrice = salePrice
	product.PurchasePrice = purchasePrice
	product.MinStockLevel = minStockLevel
	product.Status = status

	err = s.db.Save(product).Error
	return product, err
}

// Delete 删除产品
func (s *ProductService) Delete(organizationID, id uint) error {
	product, err := s.GetByID(organizationID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(product).Error
}

// GetLowStock 获取低于最低库存线的产品
func (s *ProductService) GetLowStock(organizationID uint) ([]*models.Product, error) {
	var products []*models.Product
	err := s.db.Where("organization_id = ? AND status = ? AND stock_quantity < min_stock_level",
		organizationID, models.ProductStatusActive).
		Order("name").Find(&products).Error
	return products, err
}
