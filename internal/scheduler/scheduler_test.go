package scheduler

import (
	"context"
	"testing"
	"time"
)

// TestNextTick 下一个触发时刻 = 下一个整分（UTC）+ offset
func TestNextTick(t *testing.T) {
	now := time.Date(2026, time.January, 5, 14, 3, 30, 500000000, time.UTC)

	got := NextTick(now, 2*time.Second)
	want := time.Date(2026, time.January, 5, 14, 4, 2, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("下一个 tick 应该为 %v，实际为 %v", want, got)
	}
}

// TestNextTickAtBoundary 正好在整分时也推到下一分钟
func TestNextTickAtBoundary(t *testing.T) {
	now := time.Date(2026, time.January, 5, 14, 4, 0, 0, time.UTC)

	got := NextTick(now, 2*time.Second)
	want := time.Date(2026, time.January, 5, 14, 5, 2, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("下一个 tick 应该为 %v，实际为 %v", want, got)
	}
}

// TestNextTickNonUTC 非 UTC 时区的输入按 UTC 对齐
func TestNextTickNonUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2026, time.January, 5, 22, 3, 30, 0, loc)

	got := NextTick(now, 0)
	want := time.Date(2026, time.January, 5, 14, 4, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("下一个 tick 应该为 %v，实际为 %v", want, got)
	}
}

// TestRunOnceRecoversFromPanic 周期内的 panic 被兜底，循环不崩溃
func TestRunOnceRecoversFromPanic(t *testing.T) {
	calls := 0
	loop := NewLoop(0, func(ctx context.Context) {
		calls++
		panic("injected failure")
	})

	// 连续两轮都 panic，RunOnce 都必须正常返回
	loop.RunOnce(context.Background())
	loop.RunOnce(context.Background())

	if calls != 2 {
		t.Errorf("周期函数应该被调用 2 次，实际为 %d", calls)
	}
}

// TestRunStopsOnContextCancel ctx 取消后 Run 在睡眠点退出
func TestRunStopsOnContextCancel(t *testing.T) {
	loop := NewLoop(0, func(ctx context.Context) {
		t.Error("取消后不应该再执行周期")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run 应该在 ctx 取消后退出")
	}
}
