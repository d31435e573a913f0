package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户模型 - 每个用户属于一个组织、持有一个角色
type User struct {
	BaseModel
	Username     string  `json:"username" gorm:"unique;not null;size:100;index"`
	Email        string  `json:"email" gorm:"unique;not null;size:100;index"`
	PasswordHash string  `json:"-" gorm:"not null;size:255"`
	Name         string  `json:"name" gorm:"not null;size:100"`
	Phone        *string `json:"phone" gorm:"size:20"`
	Status       string  `json:"status" gorm:"default:'active';size:20"`

	// 登录安全
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at"`

	// 邮箱验证
	IsEmailVerified          bool       `json:"is_email_verified" gorm:"default:false"`
	EmailVerificationToken   *string    `json:"-" gorm:"size:64"`
	EmailVerificationExpires *time.Time `json:"-"`

	OrganizationID uint `json:"organization_id" gorm:"not null;index"`
	RoleID         uint `json:"role_id" gorm:"not null;index"`

	// 关联关系
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Role         *Role         `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// SetPassword 设置密码
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsLocked 检查账户当前是否处于锁定状态
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && u.LockedUntil.After(time.Now())
}
