package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"modernize-client/client"
)

func onlineHealth() *client.HealthStatus {
	return &client.HealthStatus{Online: true, AIEnabled: false, Version: "1.0", Environment: "dev"}
}

func unreachableErr() *client.TransportError {
	return &client.TransportError{Kind: client.ErrorUnreachable, Message: client.UnreachableMessage}
}

func TestReduceHealthFlow(t *testing.T) {
	s := NewState()
	assert.Equal(t, PhaseIdle, s.Phase)

	s = Reduce(s, StartEvent{RequestID: "h1"})
	assert.Equal(t, PhaseCheckingHealth, s.Phase)
	assert.Equal(t, "h1", s.PendingHealthID)

	// 同类请求单飞行：第二次触发被忽略
	s2 := Reduce(s, StartEvent{RequestID: "h2"})
	assert.Equal(t, s, s2)

	s = Reduce(s, HealthResolvedEvent{RequestID: "h1", Health: onlineHealth()})
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, "", s.PendingHealthID)
	assert.Equal(t, "1.0", s.Health.Version)
	assert.Equal(t, "dev", s.Health.Environment)
}

func TestReduceHealthUnreachable(t *testing.T) {
	s := Reduce(NewState(), StartEvent{RequestID: "h1"})
	s = Reduce(s, HealthResolvedEvent{RequestID: "h1", Err: unreachableErr()})

	assert.Equal(t, PhaseUnreachable, s.Phase)
	assert.Equal(t, client.UnreachableMessage, s.Reason)
	assert.Nil(t, s.Health)
	assert.NotNil(t, s.LastError)
}

func TestReduceStaleHealthDiscarded(t *testing.T) {
	s := Reduce(NewState(), StartEvent{RequestID: "h1"})
	s = Reduce(s, HealthResolvedEvent{RequestID: "h1", Health: onlineHealth()})

	// h1已完成后到达的迟到响应不改变任何状态
	stale := Reduce(s, HealthResolvedEvent{RequestID: "h0", Err: unreachableErr()})
	assert.Equal(t, s, stale)
}

func TestReduceSubmitGuards(t *testing.T) {
	req := &client.UploadRequest{FileName: "a.csv", Content: []byte("x"), TableName: "t1",
		TargetDatabase: client.TargetPostgres, ExportFormat: client.ExportStandard}

	tests := []struct {
		name      string
		phase     Phase
		wantMoved bool
	}{
		{"Idle状态拒绝提交", PhaseIdle, false},
		{"健康检查中拒绝提交", PhaseCheckingHealth, false},
		{"不可达状态拒绝提交", PhaseUnreachable, false},
		{"Ready允许提交", PhaseReady, true},
		{"成功后允许重新提交", PhaseSucceeded, true},
		{"失败后允许重新提交", PhaseFailed, true},
		{"上传中允许取代提交", PhaseUploading, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Phase: tt.phase}
			next := Reduce(s, SubmitEvent{RequestID: "u1", Request: req})
			if tt.wantMoved {
				assert.Equal(t, PhaseUploading, next.Phase)
				assert.Equal(t, "u1", next.PendingUploadID)
			} else {
				assert.Equal(t, s, next)
			}
		})
	}
}

func TestReduceUploadSupersede(t *testing.T) {
	req := &client.UploadRequest{FileName: "a.csv", Content: []byte("x"), TableName: "t1",
		TargetDatabase: client.TargetPostgres, ExportFormat: client.ExportStandard}
	resultA := &client.ModernizationResult{FileInfo: client.FileInfo{Filename: "a.csv"}}
	resultB := &client.ModernizationResult{FileInfo: client.FileInfo{Filename: "b.csv"}}

	base := State{Phase: PhaseReady, Health: onlineHealth()}
	s := Reduce(base, SubmitEvent{RequestID: "ua", Request: req})
	s = Reduce(s, SubmitEvent{RequestID: "ub", Request: req})
	assert.Equal(t, "ub", s.PendingUploadID)

	t.Run("旧请求先完成时被丢弃", func(t *testing.T) {
		next := Reduce(s, UploadResolvedEvent{RequestID: "ua", Result: resultA})
		assert.Equal(t, PhaseUploading, next.Phase)
		assert.Nil(t, next.Result)

		next = Reduce(next, UploadResolvedEvent{RequestID: "ub", Result: resultB})
		assert.Equal(t, PhaseSucceeded, next.Phase)
		assert.Equal(t, "b.csv", next.Result.FileInfo.Filename)
	})

	t.Run("新请求先完成后旧响应不覆盖", func(t *testing.T) {
		next := Reduce(s, UploadResolvedEvent{RequestID: "ub", Result: resultB})
		assert.Equal(t, PhaseSucceeded, next.Phase)

		next = Reduce(next, UploadResolvedEvent{RequestID: "ua", Result: resultA})
		assert.Equal(t, PhaseSucceeded, next.Phase)
		assert.Equal(t, "b.csv", next.Result.FileInfo.Filename)
	})
}

func TestReduceUploadFailureRetainsError(t *testing.T) {
	rejected := &client.TransportError{Kind: client.ErrorRequestRejected, Message: "File too large", StatusCode: 413}

	s := State{Phase: PhaseReady, Health: onlineHealth()}
	s = Reduce(s, SubmitEvent{RequestID: "u1", Request: &client.UploadRequest{}})
	s = Reduce(s, UploadResolvedEvent{RequestID: "u1", Err: rejected})

	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Equal(t, rejected, s.LastError)

	// 错误保留到显式清除；清除后回到就绪状态
	s = Reduce(s, DismissErrorEvent{})
	assert.Nil(t, s.LastError)
	assert.Equal(t, PhaseReady, s.Phase)
}

func TestReduceSuccessClearsError(t *testing.T) {
	rejected := &client.TransportError{Kind: client.ErrorRequestRejected, Message: "boom"}
	result := &client.ModernizationResult{}

	s := State{Phase: PhaseFailed, Health: onlineHealth(), LastError: rejected}
	s = Reduce(s, SubmitEvent{RequestID: "u2", Request: &client.UploadRequest{}})
	s = Reduce(s, UploadResolvedEvent{RequestID: "u2", Result: result})

	assert.Equal(t, PhaseSucceeded, s.Phase)
	assert.Nil(t, s.LastError, "新的成功动作应清除保留的错误")
}

func TestReduceRetryFromAnyPhase(t *testing.T) {
	phases := []Phase{PhaseIdle, PhaseReady, PhaseUnreachable, PhaseUploading, PhaseSucceeded, PhaseFailed}
	for _, p := range phases {
		s := State{Phase: p}
		next := Reduce(s, StartEvent{RequestID: "h9"})
		assert.Equal(t, PhaseCheckingHealth, next.Phase, "阶段 %s 应允许手动重试", p)
	}
}

func TestReduceHealthResolutionDuringUpload(t *testing.T) {
	// 跨类并发：上传期间健康检查完成只更新健康槽，不改变上传阶段
	s := State{Phase: PhaseUploading, PendingUploadID: "u1", PendingHealthID: "h1"}
	s = Reduce(s, HealthResolvedEvent{RequestID: "h1", Health: onlineHealth()})

	assert.Equal(t, PhaseUploading, s.Phase)
	assert.NotNil(t, s.Health)
	assert.Equal(t, "u1", s.PendingUploadID)
}

func TestReduceReset(t *testing.T) {
	s := State{Phase: PhaseSucceeded, Result: &client.ModernizationResult{}, Health: onlineHealth()}
	s = Reduce(s, ResetEvent{})
	assert.Equal(t, NewState(), s)
}
