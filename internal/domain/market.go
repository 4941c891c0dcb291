package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Candidate 一次发现周期内的候选市场
// 每个 tick 重新构建，tick 结束即丢弃，不跨周期持有。
type Candidate struct {
	Slug          string          // 市场 slug
	Question      string          // 问题描述（标题）
	EndTime       *time.Time      // 从标题解析出的到期时间（UTC，可能缺失）
	OutcomePrices json.RawMessage // 原始结果价格（数组或 JSON 字符串，原样透传）
	FeeRateBps    int             // 费率（bps，可选，0 表示未提供）
}

// HasEndTime 到期时间是否解析成功
func (c *Candidate) HasEndTime() bool {
	return c != nil && c.EndTime != nil
}

// TimeToExpiry 距到期的剩余时间；到期时间缺失返回 false
func (c *Candidate) TimeToExpiry(now time.Time) (time.Duration, bool) {
	if !c.HasEndTime() {
		return 0, false
	}
	return c.EndTime.Sub(now), true
}

// DefaultYesPrice 结果价格缺失/损坏时的中性回退价
const DefaultYesPrice = 0.5

// ParseYesPrice 从原始 outcomePrices 解析 YES 方价格
// Gamma 的 outcomePrices 字段既可能是数组 ["0.62","0.38"]，也可能是
// 序列化过一层的字符串 "[\"0.62\",\"0.38\"]"。任何解析失败都回退 0.5，
// 绝不让脏数据中断周期。
func ParseYesPrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return DefaultYesPrice
	}

	var prices []string
	if err := json.Unmarshal(raw, &prices); err != nil {
		// 可能是 "[...]" 字符串，剥一层再试
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return DefaultYesPrice
		}
		if err := json.Unmarshal([]byte(inner), &prices); err != nil {
			return DefaultYesPrice
		}
	}
	if len(prices) == 0 {
		return DefaultYesPrice
	}

	d, err := decimal.NewFromString(prices[0])
	if err != nil {
		return DefaultYesPrice
	}
	f, _ := d.Float64()
	if f < 0 || f > 1 {
		return DefaultYesPrice
	}
	return f
}
