/*
 * @module service/workflow/state
 * @description 工作流状态机定义：状态变体、事件和纯转移函数
 * @architecture 状态机模式 - 每次转移都是纯函数 (State, Event) -> State，任意组合均有定义
 * @documentReference ai_docs/modernize_workflow.md
 * @stateFlow Idle -> CheckingHealth -> Ready/Unreachable -> Uploading -> Succeeded/Failed -> Uploading(重新提交)
 * @rules 同类请求单飞行；携带请求标识的完成事件若与当前待定标识不符则丢弃；健康槽与上传槽互不干扰
 * @dependencies modernize-client/client
 * @refs service/workflow/controller.go
 */

package workflow

import (
	"modernize-client/client"
)

// Phase 工作流阶段
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseCheckingHealth Phase = "checking_health"
	PhaseReady          Phase = "ready"
	PhaseUnreachable    Phase = "unreachable"
	PhaseUploading      Phase = "uploading"
	PhaseSucceeded      Phase = "succeeded"
	PhaseFailed         Phase = "failed"
)

// State 工作流状态
// 同一时刻只有一个活动阶段；健康槽与结果槽相互独立，跨类并发不会互相覆盖
type State struct {
	Phase  Phase
	Health *client.HealthStatus // Ready阶段的健康信息，健康检查完成后更新
	Reason string               // Unreachable阶段的原因描述

	Request *client.UploadRequest        // Uploading阶段的当前请求
	Result  *client.ModernizationResult  // 最近一次成功的结果，单槽，新结果覆盖旧结果

	// LastError 最近一次错误，保留到新的成功动作或显式清除为止
	LastError *client.TransportError

	// 飞行中请求标识，空串表示该类别没有待定请求
	PendingHealthID string
	PendingUploadID string
}

// NewState 初始状态
func NewState() State {
	return State{Phase: PhaseIdle}
}

// Event 工作流事件
type Event interface {
	isEvent()
}

// StartEvent 启动或手动重试，进入健康检查
type StartEvent struct {
	RequestID string
}

// HealthResolvedEvent 健康检查完成
type HealthResolvedEvent struct {
	RequestID string
	Health    *client.HealthStatus
	Err       *client.TransportError
}

// SubmitEvent 用户提交上传
type SubmitEvent struct {
	RequestID string
	Request   *client.UploadRequest
}

// UploadResolvedEvent 上传完成
type UploadResolvedEvent struct {
	RequestID string
	Result    *client.ModernizationResult
	Err       *client.TransportError
}

// DismissErrorEvent 显式清除已展示的错误
type DismissErrorEvent struct{}

// ResetEvent 重置工作流
type ResetEvent struct{}

func (StartEvent) isEvent()          {}
func (HealthResolvedEvent) isEvent() {}
func (SubmitEvent) isEvent()         {}
func (UploadResolvedEvent) isEvent() {}
func (DismissErrorEvent) isEvent()   {}
func (ResetEvent) isEvent()          {}

// Reduce 纯转移函数，对任意状态和事件组合都有唯一定义
// 不匹配守卫条件的事件返回原状态，不产生副作用
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case StartEvent:
		return reduceStart(s, ev)
	case HealthResolvedEvent:
		return reduceHealthResolved(s, ev)
	case SubmitEvent:
		return reduceSubmit(s, ev)
	case UploadResolvedEvent:
		return reduceUploadResolved(s, ev)
	case DismissErrorEvent:
		return reduceDismissError(s)
	case ResetEvent:
		return NewState()
	default:
		return s
	}
}

// reduceStart 手动重试从任意状态都允许进入健康检查，但同类请求单飞行
func reduceStart(s State, ev StartEvent) State {
	if s.PendingHealthID != "" {
		return s
	}
	s.Phase = PhaseCheckingHealth
	s.PendingHealthID = ev.RequestID
	return s
}

// reduceHealthResolved 健康检查完成只更新健康槽
// 标识不符的迟到响应直接丢弃，避免慢响应覆盖新状态
func reduceHealthResolved(s State, ev HealthResolvedEvent) State {
	if ev.RequestID != s.PendingHealthID {
		return s
	}
	s.PendingHealthID = ""

	if ev.Err != nil {
		s.Health = nil
		s.Reason = ev.Err.Message
		if s.Phase == PhaseCheckingHealth {
			s.Phase = PhaseUnreachable
			s.LastError = ev.Err
		}
		return s
	}

	s.Health = ev.Health
	s.Reason = ""
	if s.Phase == PhaseCheckingHealth {
		s.Phase = PhaseReady
		s.LastError = nil
	}
	return s
}

// reduceSubmit 提交上传
// 允许从Ready、Succeeded、Failed进入；Uploading期间的新提交取代旧请求，
// 旧请求的完成事件随后会因标识不符被丢弃
func reduceSubmit(s State, ev SubmitEvent) State {
	switch s.Phase {
	case PhaseReady, PhaseSucceeded, PhaseFailed, PhaseUploading:
		s.Phase = PhaseUploading
		s.Request = ev.Request
		s.PendingUploadID = ev.RequestID
		return s
	default:
		return s
	}
}

// reduceUploadResolved 上传完成，单槽结果采用请求标识判定而不是完成顺序
func reduceUploadResolved(s State, ev UploadResolvedEvent) State {
	if ev.RequestID != s.PendingUploadID {
		return s
	}
	s.PendingUploadID = ""
	s.Request = nil

	if ev.Err != nil {
		s.Phase = PhaseFailed
		s.LastError = ev.Err
		return s
	}

	s.Phase = PhaseSucceeded
	s.Result = ev.Result
	s.LastError = nil
	return s
}

// reduceDismissError 清除错误展示，失败阶段回到动作前的就绪状态
func reduceDismissError(s State) State {
	s.LastError = nil
	if s.Phase == PhaseFailed || s.Phase == PhaseUnreachable {
		if s.Health != nil && s.Health.Online {
			s.Phase = PhaseReady
		} else {
			s.Phase = PhaseIdle
		}
	}
	return s
}
