// Package fanout 实现多后端顺序复制执行器
//
// 复制策略(best-effort):
// 1. 按添加顺序依次执行每个步骤(每个步骤对应一个存储后端)
// 2. 某个步骤失败不回滚已完成的步骤,也不阻止后续步骤执行
// 3. 所有失败以StepError列表形式返回,由调用方决定如何上报
//
// 这是刻意的设计:双后端写入没有任何事务保证,一旦部分成功
// 系统就处于不一致状态,且不做任何补偿动作。
package fanout

import (
	"context"
	"time"

	"github.com/benhanover/kaplat/pkg/metrics"
)

// Step 表示一次针对单个后端的操作
type Step struct {
	Name string                          // 后端名称(用于日志、指标和错误上报)
	Run  func(ctx context.Context) error // 实际操作
}

// StepError 记录单个步骤的失败
type StepError struct {
	Step string // 失败的后端名称
	Err  error  // 底层错误
}

func (e StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

// Fanout 一次多后端复制
type Fanout struct {
	operation string // 操作名称(create/update/delete),用于指标
	steps     []Step
	timeout   time.Duration // 整体超时,0表示不限制
}

// New 创建复制执行器
func New(operation string, timeout time.Duration) *Fanout {
	return &Fanout{
		operation: operation,
		steps:     make([]Step, 0, 2),
		timeout:   timeout,
	}
}

// Add 添加一个后端步骤
// 步骤按添加顺序执行,与配置的后端顺序一致。
func (f *Fanout) Add(name string, run func(ctx context.Context) error) {
	f.steps = append(f.steps, Step{Name: name, Run: run})
}

// Execute 执行所有步骤
//
// 执行流程:
// 1. 依次执行每个步骤的Run
// 2. 失败的步骤记入返回值,继续执行剩余步骤
// 3. 超时后剩余未执行的步骤以ctx.Err()记为失败
//
// 返回nil表示全部成功。
func (f *Fanout) Execute(ctx context.Context) []StepError {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var failures []StepError

	for _, step := range f.steps {
		select {
		case <-ctx.Done():
			// 超时:剩余步骤不再尝试,按失败上报
			failures = append(failures, StepError{Step: step.Name, Err: ctx.Err()})
			metrics.RecordPersistenceOp(step.Name, f.operation, "failure", 0)
			continue
		default:
		}

		start := time.Now()
		if err := step.Run(ctx); err != nil {
			failures = append(failures, StepError{Step: step.Name, Err: err})
			metrics.RecordPersistenceOp(step.Name, f.operation, "failure", time.Since(start))
			continue
		}
		metrics.RecordPersistenceOp(step.Name, f.operation, "success", time.Since(start))
	}

	return failures
}
