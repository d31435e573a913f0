package services

import (
	"testing"

	"ubs/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreate(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)
	organization := seedOrganization(t, db)

	product, err := service.Create(organization.ID, "SKU-001", "螺丝刀", "", "件",
		nil, decimal.NewFromFloat(19.90), decimal.NewFromFloat(12.50), 5)
	require.NoError(t, err)
	assert.True(t, product.SalePrice.Equal(decimal.NewFromFloat(19.90)))

	// SKU组织内唯一
	_, err = service.Create(organization.ID, "SKU-001", "另一个", "", "件",
		nil, decimal.Zero, decimal.Zero, 0)
	assert.Error(t, err)

	// 其他组织可以使用同一SKU
	other := &models.Organization{Name: "另一组织", Status: models.OrganizationStatusActive}
	require.NoError(t, db.Create(other).Error)
	_, err = service.Create(other.ID, "SKU-001", "螺丝刀", "", "件",
		nil, decimal.Zero, decimal.Zero, 0)
	assert.NoError(t, err)
}

func TestProductCreateNegativePrice(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)
	organization := seedOrganization(t, db)

	_, err := service.Create(organization.ID, "SKU-002", "商品", "", "件",
		nil, decimal.NewFromInt(-1), decimal.Zero, 0)
	assert.Error(t, err)
}

func TestProductOrganizationScoped(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)
	organization := seedOrganization(t, db)
	other := &models.Organization{Name: "另一组织", Status: models.OrganizationStatusActive}
	require.NoError(t, db.Create(other).Error)

	product, err := service.Create(organization.ID, "SKU-003", "商品", "", "件",
		nil, decimal.Zero, decimal.Zero, 0)
	require.NoError(t, err)

	// 跨组织访问视为不存在
	_, err = service.GetByID(other.ID, product.ID)
	assert.Error(t, err)

	_, err = service.GetByID(organization.ID, product.ID)
	assert.NoError(t, err)
}

func TestProductGetLowStock(t *testing.T) {
	db := setupTestDB(t)
	service := NewProductService(db)
	organization := seedOrganization(t, db)

	low, err := service.Create(organization.ID, "SKU-LOW", "库存告急", "", "件",
		nil, decimal.Zero, decimal.Zero, 10)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", low.ID).
		Update("stock_quantity", 3).Error)

	ok, err := service.Create(organization.ID, "SKU-OK", "库存充足", "", "件",
		nil, decimal.Zero, decimal.Zero, 10)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", ok.ID).
		Update("stock_quantity", 50).Error)

	products, err := service.GetLowStock(organization.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SKU-LOW", products[0].SKU)
}
