package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "scheduler")

// NextTick 计算下一个触发时刻：下一个整分（UTC）+ offset
// offset 用于等上游交易所的 1m K 线收盘定稿（默认 2 秒）。
func NextTick(now time.Time, offset time.Duration) time.Time {
	return now.UTC().Truncate(time.Minute).Add(time.Minute).Add(offset)
}

// Loop 按分钟边界驱动策略周期的调度循环
// 单线程顺序执行：一轮跑完（或提前观望）才进入下一次睡眠，不会有
// 重叠周期。周期内逃逸的 panic 在这里兜底，进程绝不因单轮失败退出。
type Loop struct {
	offset time.Duration
	fn     func(ctx context.Context)
}

// NewLoop 创建调度循环
func NewLoop(offset time.Duration, fn func(ctx context.Context)) *Loop {
	if offset < 0 {
		offset = 0
	}
	return &Loop{offset: offset, fn: fn}
}

// Run 永续运行：睡到下一个 tick、执行一轮、循环，直到 ctx 取消
func (l *Loop) Run(ctx context.Context) {
	for {
		target := NextTick(time.Now(), l.offset)
		if !l.sleepUntil(ctx, target) {
			return
		}
		l.RunOnce(ctx)
	}
}

// RunOnce 在恢复边界内执行一轮
// 这是唯一的 catch-all：周期内部用显式结果标签短路，只有真正的意外
// panic 才落到这里，打上标记后循环继续。
func (l *Loop) RunOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("🔥 UNCAUGHT ERROR: %v", r)
		}
	}()
	l.fn(ctx)
}

// sleepUntil 睡到 target；ctx 取消返回 false
func (l *Loop) sleepUntil(ctx context.Context, target time.Time) bool {
	d := time.Until(target)
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
