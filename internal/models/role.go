package models

import "time"

// Role 角色模型 - 组织内的权限集合，成员关系通过role_permissions链接表表达
type Role struct {
	BaseModel
	OrganizationID uint   `gorm:"not null;index" json:"organization_id"`  // 所属组织
	Name           string `gorm:"size:50;not null" json:"name"`           // 角色名称
	Description    string `gorm:"size:200" json:"description"`            // 角色描述
	IsSystem       bool   `gorm:"default:false" json:"is_system"`         // 系统角色标记（仅表示不可删除，不带任何权限旁路）
	Status         string `gorm:"size:20;default:'active'" json:"status"` // 状态：active, inactive

	// 关联关系
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Users        []User        `gorm:"foreignKey:RoleID" json:"users,omitempty"`
	Permissions  []Permission  `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// TableName 表名
func (r *Role) TableName() string {
	return "roles"
}

// 角色状态常量
const (
	RoleStatusActive   = "active"
	RoleStatusInactive = "inactive"
)

// RolePermission 角色权限关联表
// (role_id, permission_id) 组合唯一，重复分配在存储层被拒绝
type RolePermission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoleID       uint      `gorm:"not null;uniqueIndex:idx_role_permission" json:"role_id"`
	PermissionID uint      `gorm:"not null;uniqueIndex:idx_role_permission" json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 表名
func (rp *RolePermission) TableName() string {
	return "role_permissions"
}
