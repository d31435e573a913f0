package services

import (
	"testing"

	"ubs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationCreateBootstrapsAdminRole(t *testing.T) {
	db := setupTestDB(t)

	// 目录中的权限在组织引导时全部链接到管理员角色
	for _, code := range []string{"users:view", "products:view", "modules:manage"} {
		require.NoError(t, db.Create(&models.Permission{
			Code: code, Name: code, Category: models.PermissionCategoryGeneral, IsActive: true,
		}).Error)
	}

	service := NewOrganizationService(db)
	organization, err := service.Create("新组织", "描述")
	require.NoError(t, err)
	require.NotNil(t, organization.LicenseKey)
	assert.NotEmpty(t, *organization.LicenseKey)

	var role models.Role
	require.NoError(t, db.Preload("Permissions").
		Where("organization_id = ? AND name = ?", organization.ID, SystemAdminRoleName).
		First(&role).Error)
	assert.True(t, role.IsSystem)
	assert.Len(t, role.Permissions, 3)

	// 管理员角色没有权限解析旁路，链接的权限即是全部
	permissionService := NewPermissionService(db)
	codes, err := permissionService.EffectivePermissions(role.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"users:view", "products:view", "modules:manage"}, codes)
}

func TestOrganizationStatusToggle(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrganizationService(db)

	organization, err := service.Create("新组织", "")
	require.NoError(t, err)

	deactivated, err := service.Deactivate(organization.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrganizationStatusInactive, deactivated.Status)

	activated, err := service.Activate(organization.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrganizationStatusActive, activated.Status)
}

func TestOrganizationNameValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrganizationService(db)

	_, err := service.Create("x", "")
	assert.Error(t, err)
}
