package handlers

import (
	"errors"

	"ubs/internal/middleware"
	"ubs/internal/services"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

// UpdateCategoryRequest 更新分类请求
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
}

type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create 创建分类
func (h *CategoryHandler) Create(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	category, err := h.service.Create(organizationID, req.Name, req.Description, req.ParentID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, category)
}

// GetAll 获取当前组织分类列表
func (h *CategoryHandler) GetAll(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	categories, err := h.service.GetByOrganization(organizationID)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}
	response.Success(c, categories)
}

// GetByID 获取分类详情
func (h *CategoryHandler) GetByID(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	category, err := h.service.GetByID(organizationID, id)
	if err != nil {
		response.NotFound(c, "分类不存在")
		return
	}
	response.Success(c, category)
}

// Update 更新分类
func (h *CategoryHandler) Update(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	category, err := h.service.Update(organizationID, id, req.Name, req.Description, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "分类不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, category)
}

// Delete 删除分类
func (h *CategoryHandler) Delete(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(organizationID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "分类不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "分类删除成功", nil)
}
