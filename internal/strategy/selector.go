package strategy

import (
	"time"

	"github.com/betbot/fastloop/internal/domain"
)

// SelectMarket 从候选中挑选进入交易窗口的市场
// 规则：剩余时间严格大于 minTTE 且小于等于 maxTTE；多个合格时取剩余
// 时间最小的（最接近收盘但仍在安全窗口内），并列任取。无合格返回 nil。
// 到期时间缺失的候选直接排除。
func SelectMarket(candidates []domain.Candidate, now time.Time, minTTE, maxTTE time.Duration) *domain.Candidate {
	var best *domain.Candidate
	var bestRemaining time.Duration

	for i := range candidates {
		c := &candidates[i]
		remaining, ok := c.TimeToExpiry(now)
		if !ok {
			continue
		}
		if remaining <= minTTE || remaining > maxTTE {
			continue
		}
		if best == nil || remaining < bestRemaining {
			best = c
			bestRemaining = remaining
		}
	}
	return best
}
