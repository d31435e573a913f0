package handlers

import (
	"errors"

	"ubs/internal/middleware"
	"ubs/internal/services"
	"ubs/pkg/pagination"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name        string  `json:"name" binding:"required"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name        string  `json:"name" binding:"required"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
	Status      string  `json:"status" binding:"required"`
}

type SupplierHandler struct {
	service *services.SupplierService
}

func NewSupplierHandler(service *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

// Create 创建供应商
func (h *SupplierHandler) Create(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	supplier, err := h.service.Create(organizationID, req.Name, req.ContactName, req.Phone, req.Email, req.Address)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, supplier)
}

// GetAll 分页获取当前组织供应商
func (h *SupplierHandler) GetAll(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	suppliers, total, err := h.service.GetWithPage(organizationID, status, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, suppliers, pageInfo)
}

// GetByID 获取供应商详情
func (h *SupplierHandler) GetByID(c *gin.Context) {
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

	supplier, err := h.service.GetByID(organizationID, id)
	if err != nil {
		response.NotFound(c, "供应商不存在")
		return
	}
	response.Success(c, supplier)
}

// Update 更新供应商
func (h *SupplierHandler) Update(c *gin.Context) {
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

	var req UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	supplier, err := h.service.Update(organizationID, id, req.Name, req.ContactName, req.Phone, req.Email, req.Address, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "供应商不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, supplier)
}

// Delete 删除供应商
func (h *SupplierHandler) Delete(c *gin.Context) {
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
			response.NotFound(c, "供应商不存在")
			return
		}
		response.ServerError(c, "供应商删除失败")
		return
	}
	response.SuccessWithMessage(c, "供应商删除成功", nil)
}
