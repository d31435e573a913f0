package services

import (
	"fmt"
	"unicode/utf8"

	"ubs/internal/models"

	"gorm.io/gorm"
)

// SupplierService 供应商管理
type SupplierService struct {
	db *gorm.DB
}

func NewSupplierService(db *gorm.DB) *SupplierService {
	return &SupplierService{db: db}
}

// Create 创建供应商
func (s *SupplierService) Create(organizationID uint, name string, contactName, phone, email, address *string) (*models.Supplier, error) {
	if err := s.validateName(name); err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		OrganizationID: organizationID,
		Name:           name,
		ContactName:    contactName,
		Phone:          phone,
		Email:          email,
		Address:        address,
		Status:         models.SupplierStatusActive,
	}

	err := s.db.Create(supplier).Error
	return supplier, err
}

// GetByID 获取组织内的供应商
func (s *SupplierService) GetByID(organizationID, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := s.db.Where("id = ? AND organization_id = ?", id, organizationID).First(&supplier).Error
	return &supplier, err
}

// GetWithPage 分页获取组织供应商
func (s *SupplierService) GetWithPage(organizationID uint, status, keyword string, page, pageSize int) ([]*models.Supplier, int64, error) {
	var suppliers []*models.Supplier
	var total int64

	query := s.db.Model(&models.Supplier{}).Where("organization_id = ?", organizationID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("name").Offset(offset).Limit(pageSize).Find(&suppliers).Error
	if err != nil {
		return nil, 0, err
	}

	return suppliers, total, nil
}

// Update 更新供应商
func (s *SupplierService) Update(organizationID, id uint, name string, contactName, phone, email, address *string, status string) (*models.Supplier, error) {
	if err := s.validateName(name); err != nil {
		return nil, err
	}

	supplier, err := s.GetByID(organizationID, id)
	if err != nil {
		return nil, err
	}

	supplier.Name = name
	supplier.ContactName = contactName
	supplier.Phone = phone
	supplier.Email = email
	supplier.Address = address
	supplier.Status = status

	err = s.db.Save(supplier).Error
	return supplier, err
}

// Delete 删除供应商
func (s *SupplierService) Delete(organizationID, id uint) error {
	supplier, err := s.GetByID(organizationID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(supplier).Error
}

func (s *SupplierService) validateName(name string) error {
	runeCount := utf8.RuneCountInString(name)
	if runeCount < 2 || runeCount > 200 {
		return fmt.Errorf("供应商名称长度必须在2-200个字符之间")
	}
	return nil
}
