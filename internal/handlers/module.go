package handlers

import (
	"errors"
	"strconv"

	"ubs/internal/middleware"
	"ubs/internal/models"
	"ubs/internal/modules"
	"ubs/internal/services"
	apperrors "ubs/pkg/errors"
	"ubs/pkg/logger"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ActivateModuleRequest 模块激活请求
type ActivateModuleRequest struct {
	Configuration string `json:"configuration"`
}

// UpdateConfigurationRequest 模块配置更新请求
type UpdateConfigurationRequest struct {
	Configuration string `json:"configuration" binding:"required"`
}

// SavePreferencesRequest 模块管理界面偏好保存请求
type SavePreferencesRequest struct {
	SearchText      string  `json:"search_text"`
	SortOption      string  `json:"sort_option"`
	AvailableFilter *string `json:"available_filter"`
	ActiveFilter    *string `json:"active_filter"`
}

// ImplementationInfo 模块实现的展示信息
type ImplementationInfo struct {
	Name                string   `json:"name"`
	Key                 string   `json:"key"`
	Description         string   `json:"description"`
	ModuleType          string   `json:"module_type"`
	RequiredPermissions []string `json:"required_permissions"`
	Dependencies        []string `json:"dependencies"` // 仅供展示，激活时不校验
}

type ModuleHandler struct {
	service     *services.ModuleService
	preferences *services.PreferencesService
	registry    *modules.Registry
	discovery   *modules.Discovery
}

func NewModuleHandler(service *services.ModuleService, preferences *services.PreferencesService,
	registry *modules.Registry, discovery *modules.Discovery) *ModuleHandler {
	return &ModuleHandler{
		service:     service,
		preferences: preferences,
		registry:    registry,
		discovery:   discovery,
	}
}

// ========== 目录查询 ==========

// GetAvailable 获取目录中启用的全部模块
// 查询失败时返回空列表（调用方无法区分空和失败，沿用既有约定）
func (h *ModuleHandler) GetAvailable(c *gin.Context) {
	mods, err := h.service.GetAvailableModules()
	if err != nil {
		logger.GetLogger().Errorf("可用模块查询失败: %v", err)
		response.Success(c, []*models.Module{})
		return
	}
	response.Success(c, mods)
}

// GetByType 按类型获取模块
func (h *ModuleHandler) GetByType(c *gin.Context) {
	moduleType := c.Param("type")
	if !models.ValidModuleType(moduleType) {
		response.BadRequest(c, "模块类型不合法")
		return
	}

	mods, err := h.service.GetModulesByType(moduleType)
	if err != nil {
		logger.GetLogger().Errorf("模块类型查询失败: %v", err)
		response.Success(c, []*models.Module{})
		return
	}
	response.Success(c, mods)
}

// GetByKey 按Key获取模块
func (h *ModuleHandler) GetByKey(c *gin.Context) {
	key := c.Param("key")
	module, err := h.service.GetModuleByKey(key)
	if err != nil {
		response.NotFound(c, "模块不存在")
		return
	}
	response.Success(c, module)
}

// GetRegistry 获取模块描述符注册表
func (h *ModuleHandler) GetRegistry(c *gin.Context) {
	response.Success(c, h.registry.All())
}

// GetImplementations 获取已登记的模块实现信息
func (h *ModuleHandler) GetImplementations(c *gin.Context) {
	impls := h.discovery.All()
	infos := make([]ImplementationInfo, 0, len(impls))
	for _, impl := range impls {
		infos = append(infos, ImplementationInfo{
			Name:                impl.Name(),
			Key:                 impl.Key(),
			Description:         impl.Description(),
			ModuleType:          impl.ModuleType(),
			RequiredPermissions: impl.RequiredPermissions(),
			Dependencies:        impl.Dependencies(),
		})
	}
	response.Success(c, infos)
}

// ========== 组织激活状态 ==========

// GetActive 获取当前组织已激活的模块
func (h *ModuleHandler) GetActive(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	mods, err := h.service.GetActiveModules(organizationID)
	if err != nil {
		logger.GetLogger().Errorf("已激活模块查询失败（组织 %d）: %v", organizationID, err)
		response.Success(c, []*models.Module{})
		return
	}
	response.Success(c, mods)
}

// GetStatus 检查当前组织是否激活了指定Key的模块
func (h *ModuleHandler) GetStatus(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	key := c.Param("key")
	response.Success(c, gin.H{
		"key":       key,
		"is_active": h.service.IsModuleActive(organizationID, key),
	})
}

// Activate 为当前组织激活模块
func (h *ModuleHandler) Activate(c *gin.Context) {
	moduleID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ActivateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "参数错误")
		return
	}

	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	if err := h.service.ActivateModuleChecked(organizationID, moduleID, req.Configuration); err != nil {
		switch {
		case errors.Is(err, services.ErrModuleNotFound):
			response.Error(c, apperrors.CodeModuleNotFound, "模块不存在")
		case errors.Is(err, services.ErrModuleDisabled):
			response.Error(c, apperrors.CodeModuleDisabled, "模块已在目录中停用")
		default:
			response.ServerError(c, "模块激活失败")
		}
		return
	}
	response.SuccessWithMessage(c, "模块激活成功", nil)
}

// Deactivate 为当前组织停用模块
func (h *ModuleHandler) Deactivate(c *gin.Context) {
	moduleID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	if err := h.service.DeactivateModuleChecked(organizationID, moduleID); err != nil {
		if errors.Is(err, services.ErrModuleRequired) {
			response.Forbidden(c, "必选模块不允许停用")
			return
		}
		response.ServerError(c, "模块停用失败")
		return
	}
	response.SuccessWithMessage(c, "模块停用成功", nil)
}

// UpdateConfiguration 更新当前组织的模块配置
func (h *ModuleHandler) UpdateConfiguration(c *gin.Context) {
	moduleID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	if err := h.service.UpdateModuleConfigurationChecked(organizationID, moduleID, req.Configuration); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, apperrors.CodeModuleInactive, "该模块尚未激活")
			return
		}
		response.ServerError(c, "模块配置更新失败")
		return
	}
	response.SuccessWithMessage(c, "模块配置更新成功", nil)
}

// GetConfiguration 获取当前组织的模块激活记录
func (h *ModuleHandler) GetConfiguration(c *gin.Context) {
	moduleID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	link, err := h.service.GetOrganizationModule(organizationID, moduleID)
	if err != nil {
		response.NotFound(c, "激活记录不存在")
		return
	}
	response.Success(c, link)
}

// ========== 界面偏好 ==========

// GetPreferences 获取当前组织的模块管理界面偏好
func (h *ModuleHandler) GetPreferences(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	preferences, err := h.preferences.GetModuleManagementPreferences(c.Request.Context(), organizationID)
	if err != nil {
		logger.GetLogger().Errorf("偏好读取失败（组织 %d）: %v", organizationID, err)
		response.ServerError(c, "偏好读取失败")
		return
	}
	response.Success(c, preferences)
}

// SavePreferences 保存当前组织的模块管理界面偏好
func (h *ModuleHandler) SavePreferences(c *gin.Context) {
	var req SavePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	preferences := &services.ModuleManagementPreferences{
		SearchText:      req.SearchText,
		SortOption:      req.SortOption,
		AvailableFilter: req.AvailableFilter,
		ActiveFilter:    req.ActiveFilter,
	}
	if err := h.preferences.SaveModuleManagementPreferences(c.Request.Context(), organizationID, preferences); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "偏好保存成功", nil)
}

// parseIDParam 解析路径中的ID参数
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
