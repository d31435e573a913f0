package services

import (
	"errors"

	"ubs/internal/models"

	"gorm.io/gorm"
)

// PermissionService 权限目录查询与权限解析
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// ========== 目录查询 ==========

// GetWithPage 分页获取权限，支持按类别筛选
func (s *PermissionService) GetWithPage(category string, page, pageSize int) ([]*models.Permission, int64, error) {
	var permissions []*models.Permission
	var total int64

	query := s.db.Model(&models.Permission{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("category, code").Offset(offset).Limit(pageSize).Find(&permissions).Error
	if err != nil {
		return nil, 0, err
	}

	return permissions, total, nil
}

// GetByID 根据ID获取权限
func (s *PermissionService) GetByID(id uint) (*models.Permission, error) {
	var permission models.Permission
	err := s.db.First(&permission, id).Error
	return &permission, err
}

// GetAll 获取全部权限
func (s *PermissionService) GetAll() ([]*models.Permission, error) {
	var permissions []*models.Permission
	err := s.db.Order("category, code").Find(&permissions).Error
	return permissions, err
}

// ========== 权限解析 ==========

// EffectivePermissions 返回角色链接的权限代码集合
// 角色之间没有继承，系统角色也不享受任何解析旁路。
func (s *PermissionService) EffectivePermissions(roleID uint) ([]string, error) {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, roleID).Error
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(role.Permissions))
	for _, permission := range role.Permissions {
		if permission.IsActive {
			codes = append(codes, permission.Code)
		}
	}
	return codes, nil
}

// HasPermission 检查用户是否持有指定权限
// 数据缺失（用户或角色不存在、链接为空）一律按无权限处理，不向调用方抛异常。
func (s *PermissionService) HasPermission(userID uint, permissionCode string) (bool, error) {
	var user models.User
	err := s.db.Preload("Role.Permissions").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if user.Role == nil || user.Role.Status != models.RoleStatusActive {
		return false, nil
	}

	for _, permission := range user.Role.Permissions {
		if permission.IsActive && permission.Code == permissionCode {
			return true, nil
		}
	}
	return false, nil
}
