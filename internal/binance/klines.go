package binance

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/betbot/fastloop/pkg/httpclient"
)

var log = logrus.WithField("component", "binance")

// Kline 是一个标准 K 线（OHLCV）
type Kline struct {
	Interval string
	Symbol   string

	StartTimeMs int64
	EndTimeMs   int64
	IsClosed    bool

	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Client Binance 现货 REST 客户端（只用到 klines 端点）
type Client struct {
	http    *httpclient.Client
	baseURL string
}

// NewClient 创建 REST 客户端
func NewClient(http *httpclient.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &Client{http: http, baseURL: strings.TrimRight(baseURL, "/")}
}

// GetRecentKlines 拉取最近 limit 根 K 线
// Binance 返回数组的数组，下标 1 是开盘价、4 是收盘价（字符串数字）。
// 拉取或解码失败返回 ok=false，本 tick 无信号。
func (c *Client) GetRecentKlines(ctx context.Context, symbol, interval string, limit int) ([]Kline, bool) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	var raw [][]interface{}
	ok := c.http.GetJSON(ctx, c.baseURL+"/api/v3/klines", &httpclient.RequestOptions{
		Params: map[string]string{
			"symbol":   symbol,
			"interval": interval,
			"limit":    strconv.Itoa(limit),
		},
	}, &raw)
	if !ok {
		return nil, false
	}

	klines := make([]Kline, 0, len(raw))
	for _, r := range raw {
		if len(r) < 7 {
			continue
		}
		kl := Kline{
			Interval: interval,
			Symbol:   strings.ToLower(symbol),
			IsClosed: true,
		}
		if ms, ok := r[0].(float64); ok {
			kl.StartTimeMs = int64(ms)
		}
		if ms, ok := r[6].(float64); ok {
			kl.EndTimeMs = int64(ms)
		}
		if s, ok := r[1].(string); ok {
			kl.Open, _ = strconv.ParseFloat(s, 64)
		}
		if s, ok := r[2].(string); ok {
			kl.High, _ = strconv.ParseFloat(s, 64)
		}
		if s, ok := r[3].(string); ok {
			kl.Low, _ = strconv.ParseFloat(s, 64)
		}
		if s, ok := r[4].(string); ok {
			kl.Close, _ = strconv.ParseFloat(s, 64)
		}
		if s, ok := r[5].(string); ok {
			kl.Volume, _ = strconv.ParseFloat(s, 64)
		}
		klines = append(klines, kl)
	}

	if len(klines) == 0 {
		log.Warnf("⚠️ klines 响应为空: symbol=%s interval=%s", symbol, interval)
		return nil, false
	}
	return klines, true
}
