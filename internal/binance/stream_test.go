package binance

import (
	"encoding/json"
	"fmt"
	"testing"
)

// TestKlineStreamRecent Recent 返回最近 n 根（旧 -> 新）
func TestKlineStreamRecent(t *testing.T) {
	s := NewKlineStream("BTCUSDT")
	defer s.Stop()

	if s.Symbol() != "btcusdt" {
		t.Errorf("symbol 应该归一化为小写，实际为 %s", s.Symbol())
	}

	for i := 0; i < 10; i++ {
		s.append(Kline{StartTimeMs: int64(i) * 60000, Close: float64(100 + i)})
	}

	recent := s.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("应该返回 3 根，实际为 %d", len(recent))
	}
	if recent[0].Close != 107 || recent[2].Close != 109 {
		t.Errorf("顺序应该为旧到新: %v", recent)
	}

	// 超过缓存量时返回全部
	if got := s.Recent(100); len(got) != 10 {
		t.Errorf("应该返回全部 10 根，实际为 %d", len(got))
	}
	if got := s.Recent(0); got != nil {
		t.Errorf("n<=0 应该返回 nil，实际为 %v", got)
	}
}

// TestKlineStreamDedup 同一根 K 线的重复收盘事件按开盘时间去重（保留后者）
func TestKlineStreamDedup(t *testing.T) {
	s := NewKlineStream("btcusdt")
	defer s.Stop()

	s.append(Kline{StartTimeMs: 60000, Close: 100})
	s.append(Kline{StartTimeMs: 60000, Close: 101})
	s.append(Kline{StartTimeMs: 120000, Close: 102})

	recent := s.Recent(10)
	if len(recent) != 2 {
		t.Fatalf("去重后应该剩 2 根，实际为 %d", len(recent))
	}
	if recent[0].Close != 101 {
		t.Errorf("重复事件应该覆盖前值，实际为 %.0f", recent[0].Close)
	}
}

// TestKlineStreamEviction 缓存超过上限后淘汰最旧的
func TestKlineStreamEviction(t *testing.T) {
	s := NewKlineStream("btcusdt")
	defer s.Stop()

	for i := 0; i < maxHistory+20; i++ {
		s.append(Kline{StartTimeMs: int64(i) * 60000, Close: float64(i)})
	}

	all := s.Recent(maxHistory * 2)
	if len(all) != maxHistory {
		t.Fatalf("缓存应该维持在 %d 根，实际为 %d", maxHistory, len(all))
	}
	if all[0].Close != 20 {
		t.Errorf("最旧的应该被淘汰，首根应该为 20，实际为 %.0f", all[0].Close)
	}
}

func klineEvent(startMs int64, open, close string, isClosed bool) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"e": "kline", "E": %d, "s": "BTCUSDT",
		"k": {"t": %d, "T": %d, "s": "BTCUSDT", "i": "1m",
		      "o": %q, "c": %q, "h": %q, "l": %q, "v": "10.0", "x": %v}
	}`, startMs, startMs, startMs+59999, open, close, open, close, isClosed))
}

// TestHandleKlineEventOnlyClosed 只缓存已收盘 K 线
func TestHandleKlineEventOnlyClosed(t *testing.T) {
	s := NewKlineStream("btcusdt")
	defer s.Stop()

	s.handleKlineEvent(klineEvent(60000, "60000", "60010", false))
	if got := s.Recent(10); len(got) != 0 {
		t.Errorf("未收盘 K 线不应该入缓存，实际有 %d 根", len(got))
	}

	s.handleKlineEvent(klineEvent(60000, "60000", "60010", true))
	got := s.Recent(10)
	if len(got) != 1 {
		t.Fatalf("已收盘 K 线应该入缓存，实际有 %d 根", len(got))
	}
	if got[0].Open != 60000 || got[0].Close != 60010 {
		t.Errorf("OHLC 解析不正确: %+v", got[0])
	}
	if !got[0].IsClosed {
		t.Error("缓存的 K 线应该标记为已收盘")
	}

	// 脏数字丢弃
	s.handleKlineEvent(klineEvent(120000, "not-a-number", "60010", true))
	if got := s.Recent(10); len(got) != 1 {
		t.Errorf("脏数字事件不应该入缓存，实际有 %d 根", len(got))
	}
}
