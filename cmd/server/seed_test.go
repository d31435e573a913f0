package main

import (
	"testing"

	"ubs/internal/models"
	"ubs/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Permission{},
		&models.Role{},
		&models.RolePermission{},
		&models.Module{},
		&models.OrganizationModule{},
	))
	return db
}

// tableCounts 采集种子数据涉及的各表行数
func tableCounts(db *gorm.DB) map[string]int64 {
	counts := make(map[string]int64)
	for name, model := range map[string]interface{}{
		"permissions":          &models.Permission{},
		"modules":              &models.Module{},
		"organizations":        &models.Organization{},
		"roles":                &models.Role{},
		"role_permissions":     &models.RolePermission{},
		"users":                &models.User{},
		"organization_modules": &models.OrganizationModule{},
	} {
		var count int64
		db.Model(model).Count(&count)
		counts[name] = count
	}
	return counts
}

func TestSeedData(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, seedData(db))

	counts := tableCounts(db)
	assert.Equal(t, int64(2), counts["modules"])
	assert.Equal(t, int64(1), counts["organizations"])
	assert.Equal(t, int64(1), counts["users"])
	assert.Greater(t, counts["permissions"], int64(0))
	// 管理员角色持有全部权限
	assert.Equal(t, counts["permissions"], counts["role_permissions"])

	// 管理员可以登录
	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.CheckPassword("Admin@123"))
	assert.True(t, admin.IsEmailVerified)

	var role models.Role
	require.NoError(t, db.First(&role, admin.RoleID).Error)
	assert.Equal(t, services.SystemAdminRoleName, role.Name)

	// 必选模块已为默认组织激活
	var link models.OrganizationModule
	require.NoError(t, db.Preload("Module").
		Where("organization_id = ?", admin.OrganizationID).
		First(&link).Error)
	assert.True(t, link.IsActive)
	assert.Equal(t, models.ModuleKeyUserManagement, link.Module.Key)
}

func TestSeedDataIdempotent(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, seedData(db))
	first := tableCounts(db)

	// 重复执行不产生任何重复行
	require.NoError(t, seedData(db))
	assert.Equal(t, first, tableCounts(db))
}
