package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ubs/internal/models"
	"ubs/internal/modules"
	"ubs/internal/services"
	"ubs/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// setupModuleAPI 搭建模块管理接口的测试环境，跳过认证直接注入组织上下文
func setupModuleAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Module{},
		&models.OrganizationModule{},
	))

	discovery := modules.NewDiscovery(modules.NewInventoryModule())
	registry := modules.NewRegistry(modules.Descriptor{Key: "inventory_management", Name: "库存管理"})
	handler := NewModuleHandler(
		services.NewModuleService(db, discovery),
		services.NewPreferencesService(&memoryKV{data: make(map[string]string)}),
		registry,
		discovery,
	)

	router := gin.New()
	api := router.Group("/api/v1/modules", func(c *gin.Context) {
		c.Set("organization_id", uint(1))
	})
	api.GET("", handler.GetAvailable)
	api.GET("/key/:key", handler.GetByKey)
	api.GET("/registry", handler.GetRegistry)
	api.GET("/implementations", handler.GetImplementations)
	api.GET("/active", handler.GetActive)
	api.GET("/status/:key", handler.GetStatus)
	api.POST("/:id/activate", handler.Activate)
	api.POST("/:id/deactivate", handler.Deactivate)
	api.PUT("/:id/configuration", handler.UpdateConfiguration)
	api.GET("/:id/configuration", handler.GetConfiguration)
	api.GET("/preferences", handler.GetPreferences)
	api.PUT("/preferences", handler.SavePreferences)

	return router, db
}

func seedModule(t *testing.T, db *gorm.DB) *models.Module {
	t.Helper()

	module := &models.Module{
		Name:       "库存管理",
		Key:        models.ModuleKeyInventoryManagement,
		ModuleType: models.ModuleTypeInventory,
		IsActive:   true,
		SortOrder:  1,
	}
	require.NoError(t, db.Create(module).Error)
	return module
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()

	var body apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestModuleActivationFlow(t *testing.T) {
	router, db := setupModuleAPI(t)
	module := seedModule(t, db)

	// 激活
	w := doRequest(router, http.MethodPost, "/api/v1/modules/1/activate", `{"configuration":"{\"default_unit\":\"pcs\"}"}`)
	body := parseResponse(t, w)
	assert.Equal(t, 200, body.Code)

	// 状态查询
	w = doRequest(router, http.MethodGet, "/api/v1/modules/status/inventory_management", "")
	body = parseResponse(t, w)
	var status struct {
		Key      string `json:"key"`
		IsActive bool   `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &status))
	assert.True(t, status.IsActive)

	// 已激活列表
	w = doRequest(router, http.MethodGet, "/api/v1/modules/active", "")
	body = parseResponse(t, w)
	var active []models.Module
	require.NoError(t, json.Unmarshal(body.Data, &active))
	require.Len(t, active, 1)
	assert.Equal(t, module.Key, active[0].Key)

	// 配置读取
	w = doRequest(router, http.MethodGet, "/api/v1/modules/1/configuration", "")
	body = parseResponse(t, w)
	var link models.OrganizationModule
	require.NoError(t, json.Unmarshal(body.Data, &link))
	assert.Equal(t, `{"default_unit":"pcs"}`, link.Configuration)

	// 停用
	w = doRequest(router, http.MethodPost, "/api/v1/modules/1/deactivate", "")
	body = parseResponse(t, w)
	assert.Equal(t, 200, body.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/modules/status/inventory_management", "")
	body = parseResponse(t, w)
	require.NoError(t, json.Unmarshal(body.Data, &status))
	assert.False(t, status.IsActive)
}

func TestModuleActivateUnknown(t *testing.T) {
	router, _ := setupModuleAPI(t)

	w := doRequest(router, http.MethodPost, "/api/v1/modules/999/activate", "")
	body := parseResponse(t, w)
	assert.Equal(t, errors.CodeModuleNotFound, body.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/modules/abc/activate", "")
	body = parseResponse(t, w)
	assert.Equal(t, 400, body.Code)
}

func TestModuleActivateDisabled(t *testing.T) {
	router, db := setupModuleAPI(t)

	module := &models.Module{
		Name:       "报表中心",
		Key:        "reporting",
		ModuleType: models.ModuleTypeReporting,
		IsActive:   false,
	}
	require.NoError(t, db.Create(module).Error)
	// GORM 跳过带 default 标签的零值字段，显式写回以落实 false
	require.NoError(t, db.Model(module).Update("is_active", false).Error)

	w := doRequest(router, http.MethodPost, "/api/v1/modules/1/activate", "")
	body := parseResponse(t, w)
	assert.Equal(t, errors.CodeModuleDisabled, body.Code)
}

func TestModuleUpdateConfigurationNeverActivated(t *testing.T) {
	router, db := setupModuleAPI(t)
	seedModule(t, db)

	w := doRequest(router, http.MethodPut, "/api/v1/modules/1/configuration", `{"configuration":"{}"}`)
	body := parseResponse(t, w)
	assert.Equal(t, errors.CodeModuleInactive, body.Code)
}

func TestModuleDeactivateRequiredRefused(t *testing.T) {
	router, db := setupModuleAPI(t)

	module := &models.Module{
		Name:       "用户管理",
		Key:        models.ModuleKeyUserManagement,
		ModuleType: models.ModuleTypeCore,
		IsActive:   true,
		IsRequired: true,
	}
	require.NoError(t, db.Create(module).Error)

	w := doRequest(router, http.MethodPost, "/api/v1/modules/1/activate", "")
	body := parseResponse(t, w)
	require.Equal(t, 200, body.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/modules/1/deactivate", "")
	body = parseResponse(t, w)
	assert.Equal(t, errors.CodeForbidden, body.Code)
}

func TestModuleQueriesDegradeToEmpty(t *testing.T) {
	router, db := setupModuleAPI(t)
	seedModule(t, db)

	// 存储故障时目录查询降级为空列表而不是报错
	require.NoError(t, db.Migrator().DropTable(&models.Module{}))

	w := doRequest(router, http.MethodGet, "/api/v1/modules", "")
	body := parseResponse(t, w)
	assert.Equal(t, 200, body.Code)

	var mods []models.Module
	require.NoError(t, json.Unmarshal(body.Data, &mods))
	assert.Empty(t, mods)
}

func TestModuleGetByKey(t *testing.T) {
	router, db := setupModuleAPI(t)
	seedModule(t, db)

	w := doRequest(router, http.MethodGet, "/api/v1/modules/key/inventory_management", "")
	body := parseResponse(t, w)
	assert.Equal(t, 200, body.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/modules/key/nope", "")
	body = parseResponse(t, w)
	assert.Equal(t, 404, body.Code)
}

func TestModuleImplementationsListing(t *testing.T) {
	router, _ := setupModuleAPI(t)

	w := doRequest(router, http.MethodGet, "/api/v1/modules/implementations", "")
	body := parseResponse(t, w)

	var infos []ImplementationInfo
	require.NoError(t, json.Unmarshal(body.Data, &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "inventory_management", infos[0].Key)
	assert.NotEmpty(t, infos[0].RequiredPermissions)
}

func TestModulePreferencesEndpoints(t *testing.T) {
	router, _ := setupModuleAPI(t)

	// 未保存过时返回空
	w := doRequest(router, http.MethodGet, "/api/v1/modules/preferences", "")
	body := parseResponse(t, w)
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, "null", strings.TrimSpace(string(body.Data)))

	// 保存后可以读回
	w = doRequest(router, http.MethodPut, "/api/v1/modules/preferences", `{"search_text":"库存","sort_option":"name_desc"}`)
	body = parseResponse(t, w)
	assert.Equal(t, 200, body.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/modules/preferences", "")
	body = parseResponse(t, w)
	var preferences services.ModuleManagementPreferences
	require.NoError(t, json.Unmarshal(body.Data, &preferences))
	assert.Equal(t, "库存", preferences.SearchText)
	assert.Equal(t, services.SortOptionNameDesc, preferences.SortOption)

	// 不合法的排序选项被拒绝
	w = doRequest(router, http.MethodPut, "/api/v1/modules/preferences", `{"sort_option":"bogus"}`)
	body = parseResponse(t, w)
	assert.Equal(t, 400, body.Code)
}
