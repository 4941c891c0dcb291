package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "httpclient")

// Client 带超时的 JSON HTTP 客户端
// 软失败设计：任何失败（网络、超时、非 2xx、响应不是 JSON）只打一行 warn
// 并返回 ok=false，调用方把"没有结果"当作本 tick 无数据处理，绝不中断进程。
// 不做重试——下一个调度 tick 就是重试。
type Client struct {
	client *resty.Client
}

// RequestOptions 单次请求的可选项
type RequestOptions struct {
	Headers map[string]string
	Params  map[string]string
	Body    any
}

// New 创建客户端；resty 会自动从环境变量读取代理配置（HTTP_PROXY 等）
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0). // 重试靠下一个 tick，不在请求层做
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "fastloop-bot/1.0")
	return &Client{client: client}
}

func (c *Client) newRequest(ctx context.Context, opt *RequestOptions) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	if opt != nil {
		if opt.Headers != nil {
			r.SetHeaders(opt.Headers)
		}
		if opt.Params != nil {
			r.SetQueryParams(opt.Params)
		}
		if opt.Body != nil {
			r.SetHeader("Content-Type", "application/json")
			r.SetBody(opt.Body)
		}
	}
	return r
}

// GetJSON 发起 GET 请求并把 JSON 响应解码到 out；失败返回 false
func (c *Client) GetJSON(ctx context.Context, url string, opt *RequestOptions, out any) bool {
	return c.doJSON(ctx, http.MethodGet, url, opt, out)
}

// PostJSON 发起 POST 请求并把 JSON 响应解码到 out；失败返回 false
func (c *Client) PostJSON(ctx context.Context, url string, opt *RequestOptions, out any) bool {
	return c.doJSON(ctx, http.MethodPost, url, opt, out)
}

func (c *Client) doJSON(ctx context.Context, method, url string, opt *RequestOptions, out any) bool {
	resp, err := c.do(ctx, method, url, opt)
	if err != nil {
		log.Warnf("⚠️ 请求失败: %s %s: %v", method, url, err)
		return false
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			log.Warnf("⚠️ 响应不是合法 JSON: %s %s: %v", method, url, err)
			return false
		}
	}
	return true
}

func (c *Client) do(ctx context.Context, method, url string, opt *RequestOptions) (*resty.Response, error) {
	rc := c.newRequest(ctx, opt)

	var resp *resty.Response
	var err error
	switch strings.ToUpper(method) {
	case http.MethodGet:
		resp, err = rc.Get(url)
	case http.MethodPost:
		resp, err = rc.Post(url)
	case http.MethodDelete:
		resp, err = rc.Delete(url)
	default:
		return nil, errors.Errorf("unsupported method: %s", method)
	}
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("http %d: %s", resp.StatusCode(), truncate(string(resp.Body()), 200))
	}
	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
