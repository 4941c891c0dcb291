package signal

import (
	"github.com/betbot/fastloop/internal/binance"
	"github.com/betbot/fastloop/internal/domain"
)

// ComputeMomentum 对回看窗口内的 K 线计算动量信号
// momentum = (最后一根收盘 - 第一根开盘) / 第一根开盘 × 100。
// 不足 2 根或首根开盘价非正时无信号。
// 边界规则：pct == 0 归类为 down（up 只对严格大于 0 的动量成立）。
func ComputeMomentum(klines []binance.Kline) (domain.MomentumSignal, bool) {
	if len(klines) < 2 {
		return domain.MomentumSignal{}, false
	}

	open := klines[0].Open
	last := klines[len(klines)-1].Close
	if open <= 0 {
		return domain.MomentumSignal{}, false
	}

	pct := (last - open) / open * 100

	dir := domain.DirectionDown
	if pct > 0 {
		dir = domain.DirectionUp
	}

	return domain.MomentumSignal{
		Pct:       pct,
		Dir:       dir,
		LastPrice: last,
	}, true
}
