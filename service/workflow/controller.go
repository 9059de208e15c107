/*
 * @module service/workflow/controller
 * @description 工作流控制器，驱动健康检查与上传的异步调度，维护唯一的状态值
 * @architecture 事件驱动 - 控制器把外部动作翻译为事件，经纯转移函数演进状态
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow 动作 -> 守卫检查 -> 事件入状态机 -> 异步派发 -> 完成事件入状态机 -> 通知观察者
 * @rules 服务不可达时提交在本地拒绝且不发起网络调用；完成事件按请求标识去重；状态只在持锁时变更
 * @dependencies context, sync, github.com/google/uuid, modernize-client/client
 * @refs service/workflow/state.go, client/modernize_client.go
 */

package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"modernize-client/client"
)

// Transport 控制器依赖的传输操作，由client.ModernizeClient实现
type Transport interface {
	Health(ctx context.Context) (*client.HealthStatus, error)
	Modernize(ctx context.Context, req *client.UploadRequest) (*client.ModernizationResult, error)
}

// 本地守卫错误，提交前在控制器内拒绝，不产生网络调用
var (
	ErrServiceUnreachable = errors.New("服务不可达，请先重试健康检查")
	ErrNotReady           = errors.New("服务尚未就绪，无法提交")
	ErrHealthCheckPending = errors.New("健康检查正在进行中")
)

// Controller 工作流控制器
type Controller struct {
	mu        sync.Mutex
	state     State
	transport Transport
	observers []func(State)
}

// NewController 创建工作流控制器
func NewController(transport Transport) *Controller {
	return &Controller{
		state:     NewState(),
		transport: transport,
	}
}

// State 返回当前状态快照
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange 注册状态变更观察者，状态每次演进后以新状态回调
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// apply 在持锁状态下演进状态机并通知观察者
func (c *Controller) apply(e Event) State {
	c.mu.Lock()
	next := Reduce(c.state, e)
	changed := next != c.state
	c.state = next
	observers := c.observers
	c.mu.Unlock()

	// 被丢弃的迟到响应不产生状态变化，也不打扰观察者
	if changed {
		for _, fn := range observers {
			fn(next)
		}
	}
	return next
}

// CheckHealth 触发健康检查，启动与手动重试共用同一入口
// 已有健康检查在飞行中时忽略本次触发并返回false
func (c *Controller) CheckHealth(ctx context.Context) bool {
	id := uuid.NewString()

	next := c.apply(StartEvent{RequestID: id})
	if next.PendingHealthID != id {
		slog.Debug("健康检查已在进行中，忽略本次触发")
		return false
	}

	go c.dispatchHealth(ctx, id)
	return true
}

func (c *Controller) dispatchHealth(ctx context.Context, id string) {
	health, err := c.transport.Health(ctx)
	if err != nil {
		c.apply(HealthResolvedEvent{RequestID: id, Err: toTransportError(err)})
		return
	}
	if !health.Online {
		c.apply(HealthResolvedEvent{RequestID: id, Err: &client.TransportError{
			Kind:    client.ErrorUnreachable,
			Message: client.UnreachableMessage,
		}})
		return
	}
	c.apply(HealthResolvedEvent{RequestID: id, Health: health})
}

// Submit 提交上传请求
// 守卫：必须有非空文件且服务处于就绪类状态；不可达状态下在本地快速失败；
// 飞行中的上传被新提交取代，旧响应到达时按请求标识丢弃
func (c *Controller) Submit(ctx context.Context, req *client.UploadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	switch c.state.Phase {
	case PhaseUnreachable:
		c.mu.Unlock()
		return ErrServiceUnreachable
	case PhaseIdle, PhaseCheckingHealth:
		c.mu.Unlock()
		return ErrNotReady
	}
	c.mu.Unlock()

	id := uuid.NewString()
	next := c.apply(SubmitEvent{RequestID: id, Request: req})
	if next.PendingUploadID != id {
		return ErrNotReady
	}

	slog.Info("提交现代化请求", "file", req.FileName, "table", req.TableName, "request_id", id)
	go c.dispatchUpload(ctx, id, req)
	return nil
}

func (c *Controller) dispatchUpload(ctx context.Context, id string, req *client.UploadRequest) {
	result, err := c.transport.Modernize(ctx, req)
	if err != nil {
		c.apply(UploadResolvedEvent{RequestID: id, Err: toTransportError(err)})
		return
	}
	c.apply(UploadResolvedEvent{RequestID: id, Result: result})
}

// DismissError 显式清除已展示的错误
func (c *Controller) DismissError() {
	c.apply(DismissErrorEvent{})
}

// Reset 重置工作流到初始状态
func (c *Controller) Reset() {
	c.apply(ResetEvent{})
}

// toTransportError 把任意错误归类为传输错误，未分类错误按请求被拒处理
func toTransportError(err error) *client.TransportError {
	if te, ok := client.AsTransportError(err); ok {
		return te
	}
	return &client.TransportError{
		Kind:    client.ErrorRequestRejected,
		Message: err.Error(),
		Cause:   err,
	}
}
