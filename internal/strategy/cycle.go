package strategy

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/betbot/fastloop/internal/domain"
	"github.com/betbot/fastloop/internal/gamma"
	"github.com/betbot/fastloop/internal/signal"
	"github.com/betbot/fastloop/internal/simmer"
	"github.com/betbot/fastloop/pkg/config"
)

var log = logrus.WithField("strategy", "fastloop")

// Result 一次周期的结局标签
// 每个阶段都可能把本 tick 短路到观望；用显式标签代替散落的 try/except，
// 调度器和测试都只看这一个出口。
type Result string

const (
	ResultNoCredentials Result = "no_credentials"
	ResultNoMarkets     Result = "no_markets"
	ResultNoWindow      Result = "no_market_in_window"
	ResultNoSignal      Result = "no_signal"
	ResultWeakMomentum  Result = "weak_momentum"
	ResultDecision      Result = "decision"
)

// Cycle 每个 tick 执行一轮的策略周期
// 无跨周期状态：依赖全部在构建时注入，每轮从干净状态开始。
type Cycle struct {
	cfg    *config.Config
	gamma  *gamma.Client
	signal signal.Provider
	simmer *simmer.Client
	live   bool

	// now 可注入以便测试；为 nil 时用 time.Now
	now func() time.Time
}

// NewCycle 创建策略周期
func NewCycle(cfg *config.Config, g *gamma.Client, sp signal.Provider, sc *simmer.Client, live bool) *Cycle {
	return &Cycle{
		cfg:    cfg,
		gamma:  g,
		signal: sp,
		simmer: sc,
		live:   live,
		now:    time.Now,
	}
}

// Run 执行一轮：发现 -> 选市 -> 信号 -> 阈值门控 -> 决策
// 严格顺序，任何阶段失败即观望到下个 tick。返回结局标签和决策
//（只有 ResultDecision 时决策非 nil）。
func (c *Cycle) Run(ctx context.Context) (Result, *domain.Decision) {
	entry := log.WithField("cycle", uuid.NewString()[:8])
	now := c.now().UTC()

	// 1. 凭证检查：缺失软暂停，绝不退出进程
	if !c.simmer.Authenticated() {
		entry.Warnf("❌ SIMMER_API_KEY 未设置，本周期观望")
		return ResultNoCredentials, nil
	}

	// 2. 市场发现
	markets := c.gamma.DiscoverMarkets(ctx, now)
	if len(markets) == 0 {
		entry.Infof("⏸ 没有候选市场")
		return ResultNoMarkets, nil
	}

	// 3. 窗口选市
	minTTE := time.Duration(c.cfg.MinTimeToExpirySecs) * time.Second
	maxTTE := time.Duration(c.cfg.MaxTimeToExpirySecs) * time.Second
	market := SelectMarket(markets, now, minTTE, maxTTE)
	if market == nil {
		entry.Infof("⏸ 没有市场落在 %d–%d 秒窗口内", c.cfg.MinTimeToExpirySecs, c.cfg.MaxTimeToExpirySecs)
		return ResultNoWindow, nil
	}

	// 4. YES 价解析：脏数据回退 0.5，不让周期失败
	yesPrice := domain.ParseYesPrice(market.OutcomePrices)

	// 5. 动量信号
	sig, ok := c.signal.Momentum(ctx)
	if !ok {
		entry.Warnf("⚠️ 没有动量数据")
		return ResultNoSignal, nil
	}

	// 6. 阈值门控（绝对值，浮点直接比较，不做舍入）
	if math.Abs(sig.Pct) < c.cfg.MinMomentumPct {
		entry.Infof("⏸ 动量不足: %+.2f%% (阈值 %.2f%%)", sig.Pct, c.cfg.MinMomentumPct)
		return ResultWeakMomentum, nil
	}

	// 7. 决策输出
	side := domain.SideForDirection(sig.Dir)
	decision := &domain.Decision{
		Market:   market,
		Side:     side,
		Momentum: sig,
		YesPrice: yesPrice,
	}
	entry.Infof("🎯 SIGNAL %s | momentum %+.2f%% | YES %.3f | market=%s", side, sig.Pct, yesPrice, market.Slug)

	if c.live {
		c.simmer.SubmitDecision(ctx, decision)
	}
	return ResultDecision, decision
}
