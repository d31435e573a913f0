package services

import (
	"testing"
	"time"

	"ubs/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUserFixture(t *testing.T, db *gorm.DB) (*UserService, *models.User) {
	t.Helper()

	organization := &models.Organization{Name: "测试组织", Status: models.OrganizationStatusActive}
	require.NoError(t, db.Create(organization).Error)

	role := &models.Role{OrganizationID: organization.ID, Name: "操作员", Status: models.RoleStatusActive}
	require.NoError(t, db.Create(role).Error)

	service := NewUserService(db)
	user, err := service.Create(organization.ID, role.ID, "alice", "alice@example.com", "Secret@123", "Alice", nil)
	require.NoError(t, err)
	return service, user
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	service, _ := seedUserFixture(t, db)

	user, err := service.Authenticate("alice", "Secret@123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotNil(t, user.LastLoginAt)

	// 邮箱同样可以作为登录标识
	user, err = service.Authenticate("alice@example.com", "Secret@123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	service, _ := seedUserFixture(t, db)

	_, err := service.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 不存在的用户返回同样的错误，不泄露账户是否存在
	_, err = service.Authenticate("nobody", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateLockout(t *testing.T) {
	db := setupTestDB(t)
	service, seeded := seedUserFixture(t, db)

	for i := 0; i < 5; i++ {
		_, err := service.Authenticate("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// 达到失败阈值后即使密码正确也被拒绝
	_, err := service.Authenticate("alice", "Secret@123")
	assert.ErrorIs(t, err, ErrAccountLocked)

	var stored models.User
	require.NoError(t, db.First(&stored, seeded.ID).Error)
	assert.GreaterOrEqual(t, stored.FailedLoginAttempts, 5)
	require.NotNil(t, stored.LockedUntil)
	assert.True(t, stored.LockedUntil.After(time.Now()))
}

func TestAuthenticateDisabled(t *testing.T) {
	db := setupTestDB(t)
	service, seeded := seedUserFixture(t, db)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", seeded.ID).
		Update("status", models.UserStatusInactive).Error)

	_, err := service.Authenticate("alice", "Secret@123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestVerifyEmail(t *testing.T) {
	db := setupTestDB(t)
	service, seeded := seedUserFixture(t, db)

	require.NotNil(t, seeded.EmailVerificationToken)
	require.NoError(t, service.VerifyEmail(*seeded.EmailVerificationToken))

	var stored models.User
	require.NoError(t, db.First(&stored, seeded.ID).Error)
	assert.True(t, stored.IsEmailVerified)
	assert.Nil(t, stored.EmailVerificationToken)

	// 已消费的令牌不能重复使用
	assert.Error(t, service.VerifyEmail(*seeded.EmailVerificationToken))
}

func TestUnlockExpired(t *testing.T) {
	db := setupTestDB(t)
	service, seeded := seedUserFixture(t, db)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", seeded.ID).
		Updates(map[string]interface{}{
			"failed_login_attempts": 5,
			"locked_until":          past,
		}).Error)

	unlocked, err := service.UnlockExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 1, unlocked)

	// 解锁后可以正常登录
	_, err = service.Authenticate("alice", "Secret@123")
	require.NoError(t, err)
}
