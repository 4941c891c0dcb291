package gamma

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/betbot/fastloop/internal/domain"
	"github.com/betbot/fastloop/pkg/httpclient"
)

var log = logrus.WithField("component", "gamma")

// Market Gamma API 市场数据结构
type Market struct {
	ID            string          `json:"id"`
	Question      string          `json:"question"`
	Slug          string          `json:"slug"`
	OutcomePrices json.RawMessage `json:"outcomePrices"`
	FeeRateBps    json.Number     `json:"feeRateBps"`
}

// Client 市场发现客户端
type Client struct {
	http      *httpclient.Client
	baseURL   string
	limit     int
	category  string
	keyword   string // 标题关键词（小写匹配）
	windowTag string // slug 中的周期标签
}

// Options 发现过滤参数
type Options struct {
	BaseURL   string
	Limit     int
	Category  string
	Keyword   string
	WindowTag string
}

// NewClient 创建发现客户端
func NewClient(http *httpclient.Client, opt Options) *Client {
	return &Client{
		http:      http,
		baseURL:   strings.TrimRight(opt.BaseURL, "/"),
		limit:     opt.Limit,
		category:  opt.Category,
		keyword:   strings.ToLower(opt.Keyword),
		windowTag: opt.WindowTag,
	}
}

// DiscoverMarkets 拉取最新开放市场并按关键词 + 周期标签过滤
// feed 不可达或响应畸形时返回空 slice（只打日志），发现失败降级为
// "本周期无候选"，不会让周期失败。
func (c *Client) DiscoverMarkets(ctx context.Context, now time.Time) []domain.Candidate {
	var raw []Market
	ok := c.http.GetJSON(ctx, c.baseURL+"/markets", &httpclient.RequestOptions{
		Params: map[string]string{
			"limit":     strconv.Itoa(c.limit),
			"closed":    "false",
			"tag":       c.category,
			"order":     "createdAt",
			"ascending": "false",
		},
	}, &raw)
	if !ok {
		return nil
	}

	candidates := make([]domain.Candidate, 0, len(raw))
	for _, m := range raw {
		if !strings.Contains(strings.ToLower(m.Question), c.keyword) {
			continue
		}
		if c.windowTag != "" && !strings.Contains(m.Slug, c.windowTag) {
			continue
		}

		cand := domain.Candidate{
			Slug:          m.Slug,
			Question:      m.Question,
			OutcomePrices: m.OutcomePrices,
		}
		if fee, err := m.FeeRateBps.Int64(); err == nil {
			cand.FeeRateBps = int(fee)
		}
		if endTime, ok := ParseEndTime(m.Question, now); ok {
			cand.EndTime = &endTime
		}
		candidates = append(candidates, cand)
	}

	log.Debugf("发现 %d 个市场，过滤后剩余 %d 个候选", len(raw), len(candidates))
	return candidates
}
