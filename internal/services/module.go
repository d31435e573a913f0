package services

import (
	"errors"
	"fmt"
	"sync"

	"ubs/internal/models"
	"ubs/internal/modules"
	"ubs/pkg/logger"

	"gorm.io/gorm"
)

// 模块激活业务错误
var (
	ErrModuleNotFound = errors.New("模块不存在")
	ErrModuleDisabled = errors.New("模块已在目录中停用")
	ErrModuleRequired = errors.New("必选模块不允许停用")
)

// ModuleService 模块激活引擎
// 每个(组织, 模块)对是一个两态状态机：未激活（无记录或记录is_active=false）/已激活。
// 激活记录是权威状态；生命周期钩子是建议性副作用，失败只记日志。
// 写操作在一个事务内完成读-判-写，并用(组织,模块)粒度互斥锁串行化并发切换，
// 存储层的唯一索引做最后兜底。
type ModuleService struct {
	db        *gorm.DB
	discovery *modules.Discovery
	locks     sync.Map // "orgID:moduleID" -> *sync.Mutex
}

func NewModuleService(db *gorm.DB, discovery *modules.Discovery) *ModuleService {
	return &ModuleService{
		db:        db,
		discovery: discovery,
	}
}

// pairLock 获取(组织,模块)对的互斥锁
func (s *ModuleService) pairLock(organizationID, moduleID uint) *sync.Mutex {
	key := fmt.Sprintf("%d:%d", organizationID, moduleID)
	actual, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// ========== 查询操作 ==========

// GetAvailableModules 获取目录中启用的全部模块，按排序值排列
func (s *ModuleService) GetAvailableModules() ([]*models.Module, error) {
	var mods []*models.Module
	err := s.db.Where("is_active = ?", true).Order("sort_order").Find(&mods).Error
	return mods, err
}

// GetActiveModules 获取组织已激活的模块，按排序值排列，不含其他组织的记录
func (s *ModuleService) GetActiveModules(organizationID uint) ([]*models.Module, error) {
	var mods []*models.Module
	err := s.db.Model(&models.Module{}).
		Joins("JOIN organization_modules om ON om.module_id = modules.id").
		Where("om.organization_id = ? AND om.is_active = ?", organizationID, true).
		Order("modules.sort_order").
		Find(&mods).Error
	return mods, err
}

// GetModuleByKey 按Key获取目录中启用的模块
func (s *ModuleService) GetModuleByKey(moduleKey string) (*models.Module, error) {
	var module models.Module
	err := s.db.Where("key = ? AND is_active = ?", moduleKey, true).First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// GetModulesByType 按类型获取目录中启用的模块
func (s *ModuleService) GetModulesByType(moduleType string) ([]*models.Module, error) {
	var mods []*models.Module
	err := s.db.Where("module_type = ? AND is_active = ?", moduleType, true).
		Order("sort_order").Find(&mods).Error
	return mods, err
}

// GetOrganizationModule 获取组织的激活记录（含模块信息）
func (s *ModuleService) GetOrganizationModule(organizationID, moduleID uint) (*models.OrganizationModule, error) {
	var link models.OrganizationModule
	err := s.db.Preload("Module").
		Where("organization_id = ? AND module_id = ?", organizationID, moduleID).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// IsModuleActiveChecked 检查组织是否激活了指定Key的模块
// 存储错误原样返回，供需要区分"未激活"和"查询失败"的调用方使用
func (s *ModuleService) IsModuleActiveChecked(organizationID uint, moduleKey string) (bool, error) {
	var count int64
	err := s.db.Model(&models.OrganizationModule{}).
		Joins("JOIN modules ON modules.id = organization_modules.module_id").
		Where("organization_modules.organization_id = ? AND organization_modules.is_active = ? AND modules.key = ?",
			organizationID, true, moduleKey).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsModuleActive 检查组织是否激活了指定Key的模块
// 任何存储错误都按未激活处理（fail closed）
func (s *ModuleService) IsModuleActive(organizationID uint, moduleKey string) bool {
	active, err := s.IsModuleActiveChecked(organizationID, moduleKey)
	if err != nil {
		logger.GetLogger().Errorf("模块激活状态查询失败（组织 %d，模块 %s）: %v", organizationID, moduleKey, err)
		return false
	}
	return active
}

// ========== 状态变更操作 ==========

// ActivateModule 为组织激活模块，只反映持久化结果
func (s *ModuleService) ActivateModule(organizationID, moduleID uint, configuration string) bool {
	return s.ActivateModuleChecked(organizationID, moduleID, configuration) == nil
}

// ActivateModuleChecked 为组织激活模块
// 拒绝原因作为错误返回（ErrModuleNotFound / ErrModuleDisabled，其余为存储错误）；
// 生命周期钩子失败不改变结论。
// 已有记录时统一置为激活并替换配置（含已激活的幂等分支，配置同样被替换）。
func (s *ModuleService) ActivateModuleChecked(organizationID, moduleID uint, configuration string) error {
	lock := s.pairLock(organizationID, moduleID)
	lock.Lock()
	defer lock.Unlock()

	var module models.Module
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&module, moduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrModuleNotFound
			}
			return err
		}
		if !module.IsActive {
			return ErrModuleDisabled
		}

		var link models.OrganizationModule
		err := tx.Where("organization_id = ? AND module_id = ?", organizationID, moduleID).
			First(&link).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			link = models.OrganizationModule{
				OrganizationID: organizationID,
				ModuleID:       moduleID,
				IsActive:       true,
				Configuration:  configuration,
			}
			return tx.Create(&link).Error
		case err != nil:
			return err
		default:
			link.IsActive = true
			link.Configuration = configuration
			return tx.Save(&link).Error
		}
	})

	if err != nil {
		if errors.Is(err, ErrModuleNotFound) || errors.Is(err, ErrModuleDisabled) {
			logger.GetLogger().Warnf("模块激活被拒绝（组织 %d，模块 %d）: %v", organizationID, moduleID, err)
		} else {
			logger.GetLogger().Errorf("模块激活持久化失败（组织 %d，模块 %d）: %v", organizationID, moduleID, err)
		}
		return err
	}

	// 权威状态已落库，之后的初始化调用尽力而为
	s.initializeImplementation(module.Key, organizationID, configuration)
	return nil
}

// DeactivateModule 为组织停用模块，只反映持久化结果
func (s *ModuleService) DeactivateModule(organizationID, moduleID uint) bool {
	return s.DeactivateModuleChecked(organizationID, moduleID) == nil
}

// DeactivateModuleChecked 为组织停用模块
// 停用从未激活过的模块视为成功且不产生记录；必选模块不允许停用（ErrModuleRequired）。
func (s *ModuleService) DeactivateModuleChecked(organizationID, moduleID uint) error {
	lock := s.pairLock(organizationID, moduleID)
	lock.Lock()
	defer lock.Unlock()

	var link models.OrganizationModule
	missing := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Module").
			Where("organization_id = ? AND module_id = ?", organizationID, moduleID).
			First(&link).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			missing = true
			return nil
		}
		if err != nil {
			return err
		}
		if link.Module != nil && link.Module.IsRequired {
			return ErrModuleRequired
		}
		link.IsActive = false
		return tx.Save(&link).Error
	})

	if err != nil {
		if errors.Is(err, ErrModuleRequired) {
			logger.GetLogger().Warnf("模块停用被拒绝（组织 %d，模块 %d）: %v", organizationID, moduleID, err)
		} else {
			logger.GetLogger().Errorf("模块停用持久化失败（组织 %d，模块 %d）: %v", organizationID, moduleID, err)
		}
		return err
	}
	if missing {
		return nil
	}

	if link.Module != nil {
		s.shutdownImplementation(link.Module.Key, organizationID)
	}
	return nil
}

// UpdateModuleConfiguration 替换组织模块的配置串
// 要求激活记录已存在，否则返回false。
func (s *ModuleService) UpdateModuleConfiguration(organizationID, moduleID uint, configuration string) bool {
	return s.UpdateModuleConfigurationChecked(organizationID, moduleID, configuration) == nil
}

// UpdateModuleConfigurationChecked 替换组织模块的配置串
// 激活记录不存在时返回gorm.ErrRecordNotFound。
func (s *ModuleService) UpdateModuleConfigurationChecked(organizationID, moduleID uint, configuration string) error {
	lock := s.pairLock(organizationID, moduleID)
	lock.Lock()
	defer lock.Unlock()

	var link models.OrganizationModule
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Module").
			Where("organization_id = ? AND module_id = ?", organizationID, moduleID).
			First(&link).Error; err != nil {
			return err
		}
		link.Configuration = configuration
		return tx.Save(&link).Error
	})

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.GetLogger().Errorf("模块配置更新失败（组织 %d，模块 %d）: %v", organizationID, moduleID, err)
		}
		return err
	}

	if link.Module != nil {
		s.configureImplementation(link.Module.Key, configuration)
	}
	return nil
}

// ========== 生命周期钩子（建议性副作用） ==========

// initializeImplementation 激活后初始化实现，配置非空时随后下发配置
func (s *ModuleService) initializeImplementation(moduleKey string, organizationID uint, configuration string) {
	impl, ok := s.discovery.Find(moduleKey)
	if !ok {
		// 没有实现的模块依然可以处于激活状态，仅存在于配置中
		logger.GetLogger().Warnf("模块 %s 没有已登记的实现，跳过初始化", moduleKey)
		return
	}

	if err := s.safeCall(func() error { return impl.Initialize(organizationID) }); err != nil {
		logger.GetLogger().Errorf("模块 %s 初始化失败（组织 %d）: %v", moduleKey, organizationID, err)
	}
	if configuration != "" {
		if err := s.safeCall(func() error { return impl.Configure(configuration) }); err != nil {
			logger.GetLogger().Errorf("模块 %s 配置下发失败（组织 %d）: %v", moduleKey, organizationID, err)
		}
	}
}

// shutdownImplementation 停用后关停实现
func (s *ModuleService) shutdownImplementation(moduleKey string, organizationID uint) {
	impl, ok := s.discovery.Find(moduleKey)
	if !ok {
		return
	}
	if err := s.safeCall(func() error { return impl.Shutdown(organizationID) }); err != nil {
		logger.GetLogger().Errorf("模块 %s 关停失败（组织 %d）: %v", moduleKey, organizationID, err)
	}
}

// configureImplementation 配置更新后下发配置
func (s *ModuleService) configureImplementation(moduleKey, configuration string) {
	impl, ok := s.discovery.Find(moduleKey)
	if !ok {
		return
	}
	if err := s.safeCall(func() error { return impl.Configure(configuration) }); err != nil {
		logger.GetLogger().Errorf("模块 %s 配置下发失败: %v", moduleKey, err)
	}
}

// safeCall 执行生命周期调用，panic一律转换为错误，不允许穿透服务边界
func (s *ModuleService) safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("生命周期调用panic: %v", r)
		}
	}()
	return fn()
}
