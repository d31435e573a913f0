package services

import (
	"fmt"

	"ubs/pkg/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// MaintenanceScheduler 账户维护调度器
// 周期性解锁锁定期已过的账户，并清理过期的邮箱验证令牌。
type MaintenanceScheduler struct {
	userService *UserService
	cron        *cron.Cron
	running     bool
}

// NewMaintenanceScheduler 创建账户维护调度器
func NewMaintenanceScheduler(db *gorm.DB) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		userService: NewUserService(db),
		cron:        cron.New(),
	}
}

// Start 启动调度器
func (s *MaintenanceScheduler) Start() error {
	if s.running {
		return fmt.Errorf("调度器已经在运行")
	}

	logger.GetLogger().Info("启动账户维护调度器")

	// 每5分钟解锁到期账户
	if _, err := s.cron.AddFunc("*/5 * * * *", s.unlockExpiredAccounts); err != nil {
		return fmt.Errorf("添加账户解锁任务失败: %v", err)
	}

	// 每小时清理过期验证令牌
	if _, err := s.cron.AddFunc("0 * * * *", s.purgeExpiredTokens); err != nil {
		return fmt.Errorf("添加令牌清理任务失败: %v", err)
	}

	s.cron.Start()
	s.running = true
	return nil
}

// Stop 停止调度器
func (s *MaintenanceScheduler) Stop() {
	if !s.running {
		return
	}
	logger.GetLogger().Info("停止账户维护调度器")
	s.cron.Stop()
	s.running = false
}

func (s *MaintenanceScheduler) unlockExpiredAccounts() {
	count, err := s.userService.UnlockExpired()
	if err != nil {
		logger.GetLogger().Errorf("解锁到期账户失败: %v", err)
		return
	}
	if count > 0 {
		logger.GetLogger().Infof("已解锁 %d 个到期账户", count)
	}
}

func (s *MaintenanceScheduler) purgeExpiredTokens() {
	count, err := s.userService.PurgeExpiredVerificationTokens()
	if err != nil {
		logger.GetLogger().Errorf("清理过期验证令牌失败: %v", err)
		return
	}
	if count > 0 {
		logger.GetLogger().Infof("已清理 %d 个过期验证令牌", count)
	}
}
