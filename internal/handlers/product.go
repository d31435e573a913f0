package handlers

import (
	"errors"
	"strconv"

	"ubs/internal/middleware"
	"ubs/internal/services"
	"ubs/pkg/pagination"
	"ubs/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateProductRequest 创建产品请求
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	CategoryID    *uint           `json:"category_id"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	MinStockLevel int             `json:"min_stock_level"`
}

// UpdateProductRequest 更新产品请求
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	CategoryID    *uint           `json:"category_id"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	MinStockLevel int             `json:"min_stock_level"`
	Status        string          `json:"status" binding:"required"`
}

type ProductHandler struct {
	service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create 创建产品
func (h *ProductHandler) Create(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.service.Create(organizationID, req.SKU, req.Name, req.Description, req.Unit,
		req.CategoryID, req.SalePrice, req.PurchasePrice, req.MinStockLevel)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, product)
}

// GetAll 分页获取当前组织产品
func (h *ProductHandler) GetAll(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(c, "分类ID格式错误")
			return
		}
		id := uint(parsed)
		categoryID = &id
	}

	products, total, err := h.service.GetWithPage(organizationID, categoryID, status, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, products, pageInfo)
}

// GetByID 获取产品详情
func (h *ProductHandler) GetByID(c *gin.Context) {
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

	product, err := h.service.GetByID(organizationID, id)
	if err != nil {
		response.NotFound(c, "产品不存在")
		return
	}
	response.Success(c, product)
}

// Update 更新产品
func (h *ProductHandler) Update(c *gin.Context) {
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

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.service.Update(organizationID, id, req.Name, req.Description, req.Unit,
		req.CategoryID, req.SalePrice, req.PurchasePrice, req.MinStockLevel, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "产品不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, product)
}

// Delete 删除产品
func (h *ProductHandler) Delete(c *gin.Context) {
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
			response.NotFound(c, "产品不存在")
			return
		}
		response.ServerError(c, "产品删除失败")
		return
	}
	response.SuccessWithMessage(c, "产品删除成功", nil)
}

// GetLowStock 获取低库存产品
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	organizationID, ok := middleware.GetOrganizationID(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	products, err := h.service.GetLowStock(organizationID)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}
	response.Success(c, products)
}
