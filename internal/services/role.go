package services

import (
	"fmt"
	"unicode/utf8"

	"ubs/internal/models"

	"gorm.io/gorm"
)

// RoleService 角色管理
type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建角色
func (s *RoleService) Create(organizationID uint, name, description string) (*models.Role, error) {
	if err := s.ValidateName(name); err != nil {
		return nil, err
	}

	// 同一组织内角色名称不重复
	var count int64
	s.db.Model(&models.Role{}).Where("organization_id = ? AND name = ?", organizationID, name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("角色名称已存在")
	}

	role := &models.Role{
		OrganizationID: organizationID,
		Name:           name,
		Description:    description,
		Status:         models.RoleStatusActive,
		IsSystem:       false,
	}

	err := s.db.Create(role).Error
	return role, err
}

// GetByID 根据ID获取角色
func (s *RoleService) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, id).Error
	return &role, err
}

// GetByOrganization 获取组织的角色列表
func (s *RoleService) GetByOrganization(organizationID uint) ([]*models.Role, error) {
	var roles []*models.Role
	err := s.db.Where("organization_id = ?", organizationID).Preload("Permissions").Find(&roles).Error
	return roles, err
}

// GetByOrganizationWithPage 分页获取组织角色
func (s *RoleService) GetByOrganizationWithPage(organizationID uint, status string, page, pageSize int) ([]*models.Role, int64, error) {
	var roles []*models.Role
	var total int64

	query := s.db.Model(&models.Role{}).Where("organization_id = ?", organizationID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Permissions").Offset(offset).Limit(pageSize).Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

// Update 更新角色
func (s *RoleService) Update(id uint, name, description, status string) (*models.Role, error) {
	if err := s.ValidateName(name); err != nil {
		return nil, err
	}
	if !s.ValidateStatus(status) {
		return nil, fmt.Errorf("状态只能是active或inactive")
	}

	var role models.Role
	err := s.db.First(&role, id).Error
	if err != nil {
		return nil, err
	}

	// 系统角色不允许修改
	if role.IsSystem {
		return nil, fmt.Errorf("系统角色不允许修改")
	}

	role.Name = name
	role.Description = description
	role.Status = status

	err = s.db.Save(&role).Error
	return &role, err
}

// Delete 删除角色
func (s *RoleService) Delete(id uint) error {
	var role models.Role
	err := s.db.First(&role, id).Error
	if err != nil {
		return err
	}

	// 系统角色不允许删除
	if role.IsSystem {
		return fmt.Errorf("系统角色不允许删除")
	}

	// 仍有用户持有该角色时拒绝删除
	var userCount int64
	s.db.Model(&models.User{}).Where("role_id = ?", id).Count(&userCount)
	if userCount > 0 {
		return fmt.Errorf("角色仍被用户使用，无法删除")
	}

	return s.db.Delete(&role).Error
}

// ========== 权限管理方法 ==========

// AssignPermissions 为角色分配权限（整体替换）
func (s *RoleService) AssignPermissions(roleID uint, permissionIDs []uint) error {
	var role models.Role
	err := s.db.First(&role, roleID).Error
	if err != nil {
		return err
	}

	var permissions []models.Permission
	err = s.db.Where("id IN ?", permissionIDs).Find(&permissions).Error
	if err != nil {
		return err
	}

	// 清除现有权限后重新分配，链接表的唯一索引保证每对只有一条
	return s.db.Model(&role).Association("Permissions").Replace(permissions)
}

// GetRolePermissions 获取角色的权限
func (s *RoleService) GetRolePermissions(roleID uint) ([]models.Permission, error) {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, roleID).Error
	if err != nil {
		return nil, err
	}
	return role.Permissions, nil
}

// ========== 验证方法 ==========

// ValidateName 验证角色名称
func (s *RoleService) ValidateName(name string) error {
	runeCount := utf8.RuneCountInString(name)
	if runeCount < 2 || runeCount > 50 {
		return fmt.Errorf("角色名称长度必须在2-50个字符之间")
	}
	return nil
}

// ValidateStatus 验证角色状态
func (s *RoleService) ValidateStatus(status string) bool {
	return status == models.RoleStatusActive || status == models.RoleStatusInactive
}
