package simmer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/betbot/fastloop/internal/domain"
	"github.com/betbot/fastloop/pkg/httpclient"
)

// TestAuthenticated 凭证检查
func TestAuthenticated(t *testing.T) {
	hc := httpclient.New(time.Second)

	if NewClient(hc, "https://api.simmer.example", "").Authenticated() {
		t.Error("空 key 不应该通过凭证检查")
	}
	if NewClient(hc, "https://api.simmer.example", "   ").Authenticated() {
		t.Error("空白 key 不应该通过凭证检查")
	}
	if !NewClient(hc, "https://api.simmer.example", "sk-123").Authenticated() {
		t.Error("非空 key 应该通过凭证检查")
	}
}

// TestGetJSONBearerHeader 平台请求携带 Bearer 认证头
func TestGetJSONBearerHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-123" {
			t.Errorf("Authorization 头应该为 'Bearer sk-123'，实际为 %q", got)
		}
		_, _ = w.Write([]byte(`{"authenticated": true}`))
	}))
	defer server.Close()

	client := NewClient(httpclient.New(2*time.Second), server.URL, "sk-123")

	var out struct {
		Authenticated bool `json:"authenticated"`
	}
	if !client.GetJSON(context.Background(), "/api/me", &out) {
		t.Fatal("请求应该成功")
	}
	if !out.Authenticated {
		t.Error("响应解码不正确")
	}
}

// TestSubmitDecisionIsPlaceholder live 占位不触达网络、不 panic
func TestSubmitDecisionIsPlaceholder(t *testing.T) {
	client := NewClient(httpclient.New(time.Second), "https://api.simmer.example", "sk-123")

	client.SubmitDecision(context.Background(), nil)
	client.SubmitDecision(context.Background(), &domain.Decision{})
	client.SubmitDecision(context.Background(), &domain.Decision{
		Market: &domain.Candidate{Slug: "bitcoin-up-or-down-5m-123"},
		Side:   domain.SideNo,
	})
}
