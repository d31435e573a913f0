package services

import (
	"testing"

	"ubs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrganization(t *testing.T, db *gorm.DB) *models.Organization {
	t.Helper()

	organization := &models.Organization{Name: "测试组织", Status: models.OrganizationStatusActive}
	require.NoError(t, db.Create(organization).Error)
	return organization
}

func TestRoleCreateDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	service := NewRoleService(db)
	organization := seedOrganization(t, db)

	_, err := service.Create(organization.ID, "仓库管理员", "")
	require.NoError(t, err)

	// 同一组织内名称唯一
	_, err = service.Create(organization.ID, "仓库管理员", "")
	assert.Error(t, err)

	// 不同组织可以重名
	other := &models.Organization{Name: "另一组织", Status: models.OrganizationStatusActive}
	require.NoError(t, db.Create(other).Error)
	_, err = service.Create(other.ID, "仓库管理员", "")
	assert.NoError(t, err)
}

func TestRoleDeleteRefusals(t *testing.T) {
	db := setupTestDB(t)
	service := NewRoleService(db)
	organization := seedOrganization(t, db)

	system := &models.Role{OrganizationID: organization.ID, Name: "管理员", IsSystem: true, Status: models.RoleStatusActive}
	require.NoError(t, db.Create(system).Error)
	assert.Error(t, service.Delete(system.ID), "system role must not be deletable")

	held, err := service.Create(organization.ID, "操作员", "")
	require.NoError(t, err)
	user := &models.User{
		OrganizationID: organization.ID,
		RoleID:         held.ID,
		Username:       "bob",
		Email:          "bob@example.com",
		Name:           "Bob",
		PasswordHash:   "x",
		Status:         models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	assert.Error(t, service.Delete(held.ID), "role held by a user must not be deletable")

	empty, err := service.Create(organization.ID, "临时角色", "")
	require.NoError(t, err)
	assert.NoError(t, service.Delete(empty.ID))
}

func TestRoleAssignPermissionsReplaces(t *testing.T) {
	db := setupTestDB(t)
	service := NewRoleService(db)
	organization := seedOrganization(t, db)

	role, err := service.Create(organization.ID, "操作员", "")
	require.NoError(t, err)

	var ids []uint
	for _, code := range []string{"products:view", "products:edit", "products:delete"} {
		permission := &models.Permission{Code: code, Name: code, Category: models.PermissionCategoryProducts, IsActive: true}
		require.NoError(t, db.Create(permission).Error)
		ids = append(ids, permission.ID)
	}

	require.NoError(t, service.AssignPermissions(role.ID, ids[:2]))
	permissions, err := service.GetRolePermissions(role.ID)
	require.NoError(t, err)
	assert.Len(t, permissions, 2)

	// 再次分配是整体替换，不是追加
	require.NoError(t, service.AssignPermissions(role.ID, ids[2:]))
	permissions, err = service.GetRolePermissions(role.ID)
	require.NoError(t, err)
	require.Len(t, permissions, 1)
	assert.Equal(t, "products:delete", permissions[0].Code)
}

func TestRoleUpdateSystemRefused(t *testing.T) {
	db := setupTestDB(t)
	service := NewRoleService(db)
	organization := seedOrganization(t, db)

	system := &models.Role{OrganizationID: organization.ID, Name: "管理员", IsSystem: true, Status: models.RoleStatusActive}
	require.NoError(t, db.Create(system).Error)

	_, err := service.Update(system.ID, "改名", "", models.RoleStatusActive)
	assert.Error(t, err)
}
