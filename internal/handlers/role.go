package handlers

import (
	"errors"
	"strings"

	"ubs/internal/middleware"
	"ubs/internal/services"
	"ubs/pkg/pagination"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateRoleRequest 更新角色请求
type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
}

// AssignPermissionsRequest 分配权限请求
type AssignPermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" binding:"required"`
}

type RoleHandler struct {
	service *services.RoleService
}

func NewRoleHandler(service *services.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// Create 在当前组织创建角色
func (h *RoleHandler) Create(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	role, err := h.service.Create(organizationID, req.Name, req.Description)
	if err != nil {
		if strings.Contains(err.Error(), "已存在") || strings.Contains(err.Error(), "角色名称") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "角色创建失败")
		return
	}
	response.Success(c, role)
}

// GetAll 分页获取当前组织角色
func (h *RoleHandler) GetAll(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")

	roles, total, err := h.service.GetByOrganizationWithPage(organizationID, status, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, roles, pageInfo)
}

// GetByID 获取角色详情
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	role, err := h.service.GetByID(id)
	if err != nil {
		response.NotFound(c, "角色不存在")
		return
	}
	response.Success(c, role)
}

// Update 更新角色
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	role, err := h.service.Update(id, req.Name, req.Description, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, role)
}

// Delete 删除角色
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "角色删除成功", nil)
}

// AssignPermissions 替换角色的权限集合
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AssignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.service.AssignPermissions(id, req.PermissionIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.ServerError(c, "权限分配失败")
		return
	}
	response.SuccessWithMessage(c, "权限分配成功", nil)
}

// GetPermissions 获取角色的权限列表
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	permissions, err := h.service.GetRolePermissions(id)
	if err != nil {
		response.NotFound(c, "角色不存在")
		return
	}
	response.Success(c, permissions)
}
