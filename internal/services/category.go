package services

import (
	"fmt"
	"unicode/utf8"

	"ubs/internal/models"

	"gorm.io/gorm"
)

// CategoryService 产品分类管理
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Create 创建分类
func (s *CategoryService) Create(organizationID uint, name, description string, parentID *uint) (*models.Category, error) {
	if err := s.validateName(name); err != nil {
		return nil, err
	}

	// 父分类必须属于同一组织
	if parentID != nil {
		var parent models.Category
		if err := s.db.Where("id = ? AND organization_id = ?", *parentID, organizationID).
			First(&parent).Error; err != nil {
			return nil, fmt.Errorf("父分类不存在")
		}
	}

	category := &models.Category{
		OrganizationID: organizationID,
		Name:           name,
		Description:    description,
		ParentID:       parentID,
		Status:         models.CategoryStatusActive,
	}

	err := s.db.Create(category).Error
	return category, err
}

// GetByID 获取组织内的分类
func (s *CategoryService) GetByID(organizationID, id uint) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("id = ? AND organization_id = ?", id, organizationID).First(&category).Error
	return &category, err
}

// GetByOrganization 获取组织的分类列表
func (s *CategoryService) GetByOrganization(organizationID uint) ([]*models.Category, error) {
	var categories []*models.Category
	err := s.db.Where("organization_id = ?", organizationID).Order("name").Find(&categories).Error
	return categories, err
}

// Update 更新分类
func (s *CategoryService) Update(organizationID, id uint, name, description, status string) (*models.Category, error) {
	if err := s.validateName(name); err != nil {
		return nil, err
	}

	category, err := s.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = description
	category.Status = status

	err = s.db.Save(category).Error
	return category, err
}

// Delete 删除分类
func (s *CategoryService) Delete(organizationID, id uint) error {
	category, err := s.GetByID(organizationID, id)
	if err != nil {
		return err
	}

	// 仍有产品引用时拒绝删除
	var productCount int64
	s.db.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount)
	if productCount > 0 {
		return fmt.Errorf("分类下仍有产品，无法删除")
	}

	return s.db.Delete(category).Error
}

func (s *CategoryService) validateName(name string) error {
	runeCount := utf8.RuneCountInString(name)
	if runeCount < 1 || runeCount > 100 {
		return fmt.Errorf("分类名称长度必须在1-100个字符之间")
	}
	return nil
}
