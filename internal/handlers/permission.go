package handlers

import (
	"ubs/internal/services"
	"ubs/pkg/pagination"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	service *services.PermissionService
}

func NewPermissionHandler(service *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// GetAll 分页获取权限列表
func (h *PermissionHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	category := c.Query("category")

	permissions, total, err := h.service.GetWithPage(category, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, permissions, pageInfo)
}

// GetByID 获取权限详情
func (h *PermissionHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	permission, err := h.service.GetByID(id)
	if err != nil {
		response.NotFound(c, "权限不存在")
		return
	}
	response.Success(c, permission)
}
