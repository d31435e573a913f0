package handlers

import (
	"errors"
	"strings"

	"ubs/internal/services"
	"ubs/pkg/pagination"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateOrganizationRequest 创建组织请求
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateOrganizationRequest 更新组织请求
type UpdateOrganizationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
}

type OrganizationHandler struct {
	service *services.OrganizationService
}

func NewOrganizationHandler(service *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// Create 创建组织
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	organization, err := h.service.Create(req.Name, req.Description)
	if err != nil {
		if strings.Contains(err.Error(), "组织名称长度") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "组织创建失败")
		return
	}

	response.Success(c, organization)
}

// GetAll 分页获取组织列表
func (h *OrganizationHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	organizations, total, err := h.service.GetWithPage(status, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, organizations, pageInfo)
}

// GetByID 获取组织详情
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	organization, err := h.service.GetByID(id)
	if err != nil {
		response.NotFound(c, "组织不存在")
		return
	}
	response.Success(c, organization)
}

// Update 更新组织
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	organization, err := h.service.Update(id, req.Name, req.Description, req.Phone, req.Email, req.Address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "组织不存在")
			return
		}
		if strings.Contains(err.Error(), "组织名称长度") {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "组织更新失败")
		return
	}
	response.Success(c, organization)
}

// Delete 删除组织
func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "组织不存在")
			return
		}
		response.ServerError(c, "组织删除失败")
		return
	}
	response.SuccessWithMessage(c, "组织删除成功", nil)
}

// Activate 启用组织
func (h *OrganizationHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	organization, err := h.service.Activate(id)
	if err != nil {
		response.NotFound(c, "组织不存在")
		return
	}
	response.Success(c, organization)
}

// Deactivate 停用组织
func (h *OrganizationHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	organization, err := h.service.Deactivate(id)
	if err != nil {
		response.NotFound(c, "组织不存在")
		return
	}
	response.Success(c, organization)
}
