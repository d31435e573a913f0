package services

import (
	"testing"

	"ubs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedUserWithPermissions 创建组织、角色和持有指定权限的用户
func seedUserWithPermissions(t *testing.T, db *gorm.DB, codes ...string) *models.User {
	t.Helper()

	organization := &models.Organization{Name: "测试组织", Status: models.OrganizationStatusActive}
	require.NoError(t, db.Create(organization).Error)

	role := &models.Role{
		OrganizationID: organization.ID,
		Name:           "操作员",
		Status:         models.RoleStatusActive,
	}
	require.NoError(t, db.Create(role).Error)

	for _, code := range codes {
		permission := &models.Permission{Code: code, Name: code, Category: models.PermissionCategoryGeneral, IsActive: true}
		require.NoError(t, db.Create(permission).Error)
		require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: permission.ID}).Error)
	}

	user := &models.User{
		OrganizationID: organization.ID,
		RoleID:         role.ID,
		Username:       "worker",
		Email:          "worker@example.com",
		Name:           "Worker",
		PasswordHash:   "x",
		Status:         models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestHasPermission(t *testing.T) {
	db := setupTestDB(t)
	service := NewPermissionService(db)

	user := seedUserWithPermissions(t, db, "products:view", "products:edit")

	granted, err := service.HasPermission(user.ID, "products:view")
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = service.HasPermission(user.ID, "products:edit")
	require.NoError(t, err)
	assert.True(t, granted)

	// 未链接到角色的权限一律拒绝
	granted, err = service.HasPermission(user.ID, "products:delete")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestHasPermissionMissingUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewPermissionService(db)

	// 数据缺失不是异常，按无权限处理
	granted, err := service.HasPermission(999, "products:view")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestHasPermissionInactiveRole(t *testing.T) {
	db := setupTestDB(t)
	service := NewPermissionService(db)

	user := seedUserWithPermissions(t, db, "products:view")
	require.NoError(t, db.Model(&models.Role{}).Where("id = ?", user.RoleID).
		Update("status", models.RoleStatusInactive).Error)

	granted, err := service.HasPermission(user.ID, "products:view")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestHasPermissionInactivePermission(t *testing.T) {
	db := setupTestDB(t)
	service := NewPermissionService(db)

	user := seedUserWithPermissions(t, db, "products:view")
	require.NoError(t, db.Model(&models.Permission{}).Where("code = ?", "products:view").
		Update("is_active", false).Error)

	granted, err := service.HasPermission(user.ID, "products:view")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestEffectivePermissions(t *testing.T) {
	db := setupTestDB(t)
	service := NewPermissionService(db)

	user := seedUserWithPermissions(t, db, "products:view", "categories:view")

	codes, err := service.EffectivePermissions(user.RoleID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"products:view", "categories:view"}, codes)
}
