package signal

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/betbot/fastloop/internal/binance"
	"github.com/betbot/fastloop/internal/domain"
)

var log = logrus.WithField("component", "signal")

// Provider 动量信号源
// ok=false 表示本 tick 拿不到信号（数据源不可用或 K 线不足），
// 调用方观望即可，下个 tick 自然重试。
type Provider interface {
	Momentum(ctx context.Context) (domain.MomentumSignal, bool)
}

// RESTProvider 每个 tick 通过 REST 拉取回看窗口的 K 线
type RESTProvider struct {
	client   *binance.Client
	symbol   string
	interval string
	lookback int
}

// NewRESTProvider 创建 REST 信号源（固定 1m K 线）
func NewRESTProvider(client *binance.Client, symbol string, lookback int) *RESTProvider {
	return &RESTProvider{
		client:   client,
		symbol:   symbol,
		interval: "1m",
		lookback: lookback,
	}
}

func (p *RESTProvider) Momentum(ctx context.Context) (domain.MomentumSignal, bool) {
	klines, ok := p.client.GetRecentKlines(ctx, p.symbol, p.interval, p.lookback)
	if !ok {
		return domain.MomentumSignal{}, false
	}
	return ComputeMomentum(klines)
}

// StreamProvider 从 K 线流缓存取回看窗口，tick 内零网络往返
type StreamProvider struct {
	stream   *binance.KlineStream
	lookback int
}

// NewStreamProvider 创建流缓存信号源
func NewStreamProvider(stream *binance.KlineStream, lookback int) *StreamProvider {
	return &StreamProvider{stream: stream, lookback: lookback}
}

func (p *StreamProvider) Momentum(ctx context.Context) (domain.MomentumSignal, bool) {
	_ = ctx // 纯内存读取，无需取消

	klines := p.stream.Recent(p.lookback)
	if len(klines) < 2 {
		// 刚启动缓存还没攒够，观望等下个 tick
		log.Debugf("K 线缓存不足: have=%d want=%d", len(klines), p.lookback)
		return domain.MomentumSignal{}, false
	}
	return ComputeMomentum(klines)
}
