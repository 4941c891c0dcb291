package simmer

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/betbot/fastloop/internal/domain"
	"github.com/betbot/fastloop/pkg/httpclient"
)

var log = logrus.WithField("component", "simmer")

// Client 交易平台 API 客户端
// 本范围内只承担凭证检查和 live 模式的下单占位：真实的订单端点接入
// 是外部协作方的事，这里绝不下真单。
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
}

// NewClient 创建平台客户端
func NewClient(http *httpclient.Client, baseURL, apiKey string) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
	}
}

// Authenticated 凭证是否就绪
// 凭证缺失按软暂停处理：周期直接观望，等编排系统把变量注入后自然恢复，
// 不让进程退出。
func (c *Client) Authenticated() bool {
	return c != nil && c.apiKey != ""
}

// GetJSON 带 Bearer 认证的平台 GET 请求；失败返回 false
func (c *Client) GetJSON(ctx context.Context, path string, out any) bool {
	return c.http.GetJSON(ctx, c.baseURL+path, &httpclient.RequestOptions{
		Headers: map[string]string{"Authorization": "Bearer " + c.apiKey},
	}, out)
}

// SubmitDecision live 模式的下单占位
// TODO: 接入 /api/orders 端点后在这里提交真实订单（需要先定好幂等键）。
func (c *Client) SubmitDecision(ctx context.Context, d *domain.Decision) {
	_ = ctx
	if d == nil || d.Market == nil {
		return
	}
	log.Infof("📦 live 模式占位：side=%s market=%s（订单端点未接入，未提交）", d.Side, d.Market.Slug)
}
