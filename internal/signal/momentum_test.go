package signal

import (
	"math"
	"testing"

	"github.com/betbot/fastloop/internal/binance"
	"github.com/betbot/fastloop/internal/domain"
)

func klinesWith(open, close float64, n int) []binance.Kline {
	klines := make([]binance.Kline, n)
	for i := range klines {
		klines[i] = binance.Kline{Open: open, Close: open}
	}
	klines[0].Open = open
	klines[n-1].Close = close
	return klines
}

// TestComputeMomentumPct 动量 = (末根收盘 - 首根开盘) / 首根开盘 × 100
func TestComputeMomentumPct(t *testing.T) {
	sig, ok := ComputeMomentum(klinesWith(60000, 59520, 5))
	if !ok {
		t.Fatal("应该计算出信号")
	}

	if math.Abs(sig.Pct-(-0.8)) > 1e-9 {
		t.Errorf("动量应该为 -0.8%%，实际为 %.6f%%", sig.Pct)
	}
	if sig.Dir != domain.DirectionDown {
		t.Errorf("方向应该为 down，实际为 %s", sig.Dir)
	}
	if sig.LastPrice != 59520 {
		t.Errorf("最新价应该为 59520，实际为 %.2f", sig.LastPrice)
	}
}

// TestComputeMomentumUp 正动量方向为 up
func TestComputeMomentumUp(t *testing.T) {
	sig, ok := ComputeMomentum(klinesWith(60000, 60360, 5))
	if !ok {
		t.Fatal("应该计算出信号")
	}
	if math.Abs(sig.Pct-0.6) > 1e-9 {
		t.Errorf("动量应该为 +0.6%%，实际为 %.6f%%", sig.Pct)
	}
	if sig.Dir != domain.DirectionUp {
		t.Errorf("方向应该为 up，实际为 %s", sig.Dir)
	}
}

// TestComputeMomentumZeroIsDown 边界规则：动量正好为 0 归类为 down
// 这是明确的设计决定（up 只对严格大于 0 成立），不是待修的 bug。
func TestComputeMomentumZeroIsDown(t *testing.T) {
	sig, ok := ComputeMomentum(klinesWith(60000, 60000, 2))
	if !ok {
		t.Fatal("应该计算出信号")
	}
	if sig.Pct != 0 {
		t.Fatalf("动量应该为 0，实际为 %.6f", sig.Pct)
	}
	if sig.Dir != domain.DirectionDown {
		t.Errorf("动量为 0 时方向应该为 down，实际为 %s", sig.Dir)
	}
}

// TestComputeMomentumTooFewKlines 不足 2 根 K 线无信号
func TestComputeMomentumTooFewKlines(t *testing.T) {
	if _, ok := ComputeMomentum(nil); ok {
		t.Error("空 K 线不应该有信号")
	}
	if _, ok := ComputeMomentum([]binance.Kline{{Open: 100, Close: 101}}); ok {
		t.Error("单根 K 线不应该有信号")
	}
}

// TestComputeMomentumBadOpen 首根开盘价非正无信号
func TestComputeMomentumBadOpen(t *testing.T) {
	if _, ok := ComputeMomentum(klinesWith(0, 100, 3)); ok {
		t.Error("开盘价为 0 不应该有信号")
	}
}

// TestSideForDirection up -> yes，down -> no
func TestSideForDirection(t *testing.T) {
	if got := domain.SideForDirection(domain.DirectionUp); got != domain.SideYes {
		t.Errorf("up 应该映射为 yes，实际为 %s", got)
	}
	if got := domain.SideForDirection(domain.DirectionDown); got != domain.SideNo {
		t.Errorf("down 应该映射为 no，实际为 %s", got)
	}
}
