package services

import (
	"fmt"
	"unicode/utf8"

	"ubs/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationService 组织管理
type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// SystemAdminRoleName 组织引导时创建的系统管理员角色名
const SystemAdminRoleName = "管理员"

// ========== 基础CRUD方法 ==========

// Create 创建组织并引导系统管理员角色
// 系统角色的"完全访问"通过显式链接目录中全部权限实现，权限解析器没有任何旁路。
func (s *OrganizationService) Create(name, description string) (*models.Organization, error) {
	if err := s.ValidateName(name); err != nil {
		return nil, err
	}

	licenseKey := uuid.NewString()
	organization := &models.Organization{
		Name:        name,
		Description: description,
		Status:      models.OrganizationStatusActive,
		LicenseKey:  &licenseKey,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(organization).Error; err != nil {
			return err
		}
		_, err := s.bootstrapAdminRole(tx, organization.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return organization, nil
}

// bootstrapAdminRole 创建链接全部权限的系统管理员角色
func (s *OrganizationService) bootstrapAdminRole(tx *gorm.DB, organizationID uint) (*models.Role, error) {
	role := &models.Role{
		OrganizationID: organizationID,
		Name:           SystemAdminRoleName,
		Description:    "系统预置角色，拥有全部权限",
		IsSystem:       true,
		Status:         models.RoleStatusActive,
	}
	if err := tx.Create(role).Error; err != nil {
		return nil, err
	}

	var permissions []models.Permission
	if err := tx.Find(&permissions).Error; err != nil {
		return nil, err
	}
	if len(permissions) > 0 {
		if err := tx.Model(role).Association("Permissions").Append(permissions); err != nil {
			return nil, err
		}
	}

	return role, nil
}

// GetByID 根据ID获取组织
func (s *OrganizationService) GetByID(id uint) (*models.Organization, error) {
	var organization models.Organization
	err := s.db.First(&organization, id).Error
	return &organization, err
}

// GetWithPage 分页获取组织列表
func (s *OrganizationService) GetWithPage(status, keyword string, page, pageSize int) ([]*models.Organization, int64, error) {
	var organizations []*models.Organization
	var total int64

	query := s.db.Model(&models.Organization{})
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
	err := query.Offset(offset).Limit(pageSize).Find(&organizations).Error
	if err != nil {
		return nil, 0, err
	}

	return organizations, total, nil
}

// Update 更新组织信息
func (s *OrganizationService) Update(id uint, name, description string, phone, email, address *string) (*models.Organization, error) {
	if err := s.ValidateName(name); err != nil {
		return nil, err
	}

	var organization models.Organization
	err := s.db.First(&organization, id).Error
	if err != nil {
		return nil, err
	}

	organization.Name = name
	organization.Description = description
	organization.Phone = phone
	organization.Email = email
	organization.Address = address

	err = s.db.Save(&organization).Error
	return &organization, err
}

// Delete 删除组织（用户、角色、激活记录随外键级联清理）
func (s *OrganizationService) Delete(id uint) error {
	var organization models.Organization
	err := s.db.First(&organization, id).Error
	if err != nil {
		return err
	}
	return s.db.Delete(&organization).Error
}

// Activate 启用组织
func (s *OrganizationService) Activate(id uint) (*models.Organization, error) {
	return s.setStatus(id, models.OrganizationStatusActive)
}

// Deactivate 停用组织
func (s *OrganizationService) Deactivate(id uint) (*models.Organization, error) {
	return s.setStatus(id, models.OrganizationStatusInactive)
}

func (s *OrganizationService) setStatus(id uint, status string) (*models.Organization, error) {
	var organization models.Organization
	err := s.db.First(&organization, id).Error
	if err != nil {
		return nil, err
	}

	organization.Status = status
	err = s.db.Save(&organization).Error
	return &organization, err
}

// ========== 验证方法 ==========

// ValidateName 验证组织名称
func (s *OrganizationService) ValidateName(name string) error {
	runeCount := utf8.RuneCountInString(name)
	if runeCount < 2 || runeCount > 200 {
		return fmt.Errorf("组织名称长度必须在2-200个字符之间")
	}
	return nil
}
