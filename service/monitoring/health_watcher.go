/*
 * @module service/monitoring/health_watcher
 * @description 健康监视器，按固定间隔触发工作流控制器的健康检查，保持服务状态新鲜
 * @architecture 定时调度 - 基于cron的周期任务驱动控制器事件
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 启动 -> 周期触发CheckHealth -> 控制器内部单飞行去重 -> 停止
 * @rules 监视器只负责触发，不解读结果；上一次检查未完成时本次触发被控制器忽略
 * @dependencies context, time, github.com/robfig/cron/v3, modernize-client/service/workflow
 * @refs service/workflow/controller.go
 */

package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"modernize-client/service/workflow"
)

// DefaultInterval 默认健康检查间隔
const DefaultInterval = 30 * time.Second

// HealthWatcher 周期性健康检查监视器
type HealthWatcher struct {
	controller *workflow.Controller
	interval   time.Duration
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewHealthWatcher 创建健康监视器，interval不大于0时使用默认间隔
func NewHealthWatcher(controller *workflow.Controller, interval time.Duration) *HealthWatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &HealthWatcher{
		controller: controller,
		interval:   interval,
		cron:       cron.New(cron.WithSeconds()),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start 启动周期检查，立即触发一次首检
func (w *HealthWatcher) Start() error {
	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := w.cron.AddFunc(spec, w.tick); err != nil {
		return fmt.Errorf("注册健康检查任务失败: %w", err)
	}

	w.cron.Start()
	slog.Info("健康监视器已启动", "interval", w.interval.String())

	w.tick()
	return nil
}

// Stop 停止周期检查，等待在途任务结束
func (w *HealthWatcher) Stop() {
	w.cancel()
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
	slog.Info("健康监视器已停止")
}

// tick 触发一次健康检查；控制器对飞行中的同类请求自动去重
func (w *HealthWatcher) tick() {
	select {
	case <-w.ctx.Done():
		return
	default:
	}

	if !w.controller.CheckHealth(w.ctx) {
		slog.Debug("上一次健康检查尚未完成，跳过本次触发")
	}
}
