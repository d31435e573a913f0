package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"ubs/internal/models"
	"ubs/pkg/config"
	"ubs/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 认证业务错误
var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrAccountLocked      = errors.New("账户已被锁定，请稍后再试")
	ErrAccountDisabled    = errors.New("账户已被停用")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService 用户管理与认证
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建用户，同时生成邮箱验证令牌
func (s *UserService) Create(organizationID, roleID uint, username, email, password, name string, phone *string) (*models.User, error) {
	if err := s.ValidateCreateParams(username, email, password, name); err != nil {
		return nil, err
	}

	cfg := config.GetConfig()
	ttl, err := time.ParseDuration(cfg.Auth.VerifyTokenTTL)
	if err != nil {
		ttl = 48 * time.Hour
	}
	token := uuid.NewString()
	expires := time.Now().Add(ttl)

	user := &models.User{
		OrganizationID:           organizationID,
		RoleID:                   roleID,
		Username:                 username,
		Email:                    email,
		Name:                     name,
		Phone:                    phone,
		Status:                   models.UserStatusActive,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Role").Preload("Organization").First(&user, id).Error
	return &user, err
}

// GetByUsernameOrEmail 按用户名或邮箱查找用户
func (s *UserService) GetByUsernameOrEmail(identifier string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Role.Permissions").Preload("Organization").
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	return &user, err
}

// GetWithPage 分页获取组织内用户
func (s *UserService) GetWithPage(organizationID uint, status, keyword string, page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{}).Where("organization_id = ?", organizationID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("username LIKE ? OR email LIKE ? OR name LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Role").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update 更新用户信息
func (s *UserService) Update(id uint, name, email string, phone *string, status string) (*models.User, error) {
	if err := s.ValidateUpdateParams(name, email, status); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email
	user.Phone = phone
	user.Status = status

	err = s.db.Save(&user).Error
	return &user, err
}

// Delete 删除用户
func (s *UserService) Delete(id uint) error {
	return s.db.Delete(&models.User{}, id).Error
}

// AssignRole 变更用户角色
func (s *UserService) AssignRole(userID, roleID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		return err
	}

	// 角色必须属于用户所在组织
	if role.OrganizationID != user.OrganizationID {
		return fmt.Errorf("角色不属于用户所在组织")
	}

	user.RoleID = roleID
	return s.db.Save(&user).Error
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(id uint, newPassword string) error {
	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.db.Save(&user).Error
}

// ========== 认证方法 ==========

// Authenticate 用户名/邮箱+密码认证
// 连续失败达到阈值后锁定账户一段时间；锁定与停用状态直接拒绝。
func (s *UserService) Authenticate(identifier, password string) (*models.User, error) {
	user, err := s.GetByUsernameOrEmail(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != models.UserStatusActive {
		return nil, ErrAccountDisabled
	}
	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	if !user.CheckPassword(password) {
		s.recordFailedLogin(user)
		return nil, ErrInvalidCredentials
	}

	// 认证成功，清零失败计数
	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := s.db.Save(user).Error; err != nil {
		logger.GetLogger().Errorf("登录状态更新失败（用户 %d）: %v", user.ID, err)
	}

	return user, nil
}

// recordFailedLogin 累计失败次数，达到阈值后锁定
func (s *UserService) recordFailedLogin(user *models.User) {
	cfg := config.GetConfig()
	user.FailedLoginAttempts++

	if user.FailedLoginAttempts >= cfg.Auth.MaxLoginAttempts {
		lockDuration, err := time.ParseDuration(cfg.Auth.LockDuration)
		if err != nil {
			lockDuration = 30 * time.Minute
		}
		lockedUntil := time.Now().Add(lockDuration)
		user.LockedUntil = &lockedUntil
		logger.GetLogger().Warnf("用户 %s 连续登录失败 %d 次，锁定至 %s",
			user.Username, user.FailedLoginAttempts, lockedUntil.Format(time.RFC3339))
	}

	if err := s.db.Save(user).Error; err != nil {
		logger.GetLogger().Errorf("登录失败计数更新失败（用户 %d）: %v", user.ID, err)
	}
}

// VerifyEmail 用验证令牌确认邮箱
func (s *UserService) VerifyEmail(token string) error {
	var user models.User
	err := s.db.Where("email_verification_token = ?", token).First(&user).Error
	if err != nil {
		return fmt.Errorf("验证令牌无效")
	}

	if user.EmailVerificationExpires == nil || user.EmailVerificationExpires.Before(time.Now()) {
		return fmt.Errorf("验证令牌已过期")
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil
	return s.db.Save(&user).Error
}

// ========== 维护方法（由调度器周期调用） ==========

// UnlockExpired 解锁锁定期已过的账户
func (s *UserService) UnlockExpired() (int64, error) {
	result := s.db.Model(&models.User{}).
		Where("locked_until IS NOT NULL AND locked_until <= ?", time.Now()).
		Updates(map[string]interface{}{
			"locked_until":          nil,
			"failed_login_attempts": 0,
		})
	return result.RowsAffected, result.Error
}

// PurgeExpiredVerificationTokens 清理过期的邮箱验证令牌
func (s *UserService) PurgeExpiredVerificationTokens() (int64, error) {
	result := s.db.Model(&models.User{}).
		Where("email_verification_token IS NOT NULL AND email_verification_expires <= ?", time.Now()).
		Updates(map[string]interface{}{
			"email_verification_token":   nil,
			"email_verification_expires": nil,
		})
	return result.RowsAffected, result.Error
}

// ========== 验证方法 ==========

// ValidateUsername 验证用户名
func (s *UserService) ValidateUsername(username string) bool {
	if len(username) < 3 || len(username) > 50 {
		return false
	}
	for _, r := range username {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '.') {
			return false
		}
	}
	return true
}

// ValidateEmail 验证邮箱格式
func (s *UserService) ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePassword 验证密码强度
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("密码长度不能少于8个字符")
	}
	return nil
}

// ValidateName 验证姓名
func (s *UserService) ValidateName(name string) bool {
	return len(name) >= 1 && len(name) <= 100
}

// ValidateCreateParams 验证创建用户的参数
func (s *UserService) ValidateCreateParams(username, email, password, name string) error {
	if !s.ValidateUsername(username) {
		return fmt.Errorf("用户名长度必须在3-50个字符之间，且只能包含字母、数字、下划线和点")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	if err := s.ValidatePassword(password); err != nil {
		return err
	}
	if !s.ValidateName(name) {
		return fmt.Errorf("姓名长度必须在1-100个字符之间")
	}
	return nil
}

// ValidateUpdateParams 验证更新用户的参数
func (s *UserService) ValidateUpdateParams(name, email, status string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("姓名长度必须在1-100个字符之间")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	if status != models.UserStatusActive && status != models.UserStatusInactive {
		return fmt.Errorf("状态只能是active或inactive")
	}
	return nil
}
