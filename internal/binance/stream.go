package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var streamLog = logrus.WithField("component", "binance_stream")

const spotStreamBase = "wss://stream.binance.com:9443"

// maxHistory 缓存的已收盘 1m K 线根数（约 4 小时）
const maxHistory = 240

// KlineStream 维护 Binance 现货 1m K 线的滚动缓存
// 作为 REST 轮询的替代信号源：tick 到来时直接从内存取回看窗口，
// 不再走一次 REST 往返。断线自动重连，重连前的数据保留。
type KlineStream struct {
	symbol string // 小写，如 "btcusdt"

	mu     sync.RWMutex
	closed []Kline // 已收盘 K 线，旧 -> 新

	ctx    context.Context
	cancel context.CancelFunc

	connMu sync.Mutex
	conn   *websocket.Conn
}

// NewKlineStream 创建 K 线流缓存
func NewKlineStream(symbol string) *KlineStream {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if s == "" {
		s = "btcusdt"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &KlineStream{
		symbol: s,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动后台读取协程
func (s *KlineStream) Start() {
	go s.run()
}

// Stop 停止并关闭连接
func (s *KlineStream) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.connMu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()
}

// Symbol 返回订阅的交易对（小写）
func (s *KlineStream) Symbol() string { return s.symbol }

// Recent 返回最近 n 根已收盘 K 线（旧 -> 新）；不足 n 根时返回现有的全部
func (s *KlineStream) Recent(n int) []Kline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || len(s.closed) == 0 {
		return nil
	}
	if n > len(s.closed) {
		n = len(s.closed)
	}
	out := make([]Kline, n)
	copy(out, s.closed[len(s.closed)-n:])
	return out
}

func (s *KlineStream) append(kl Kline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// 同一根 K 线的收盘事件可能重复推送，按 StartTimeMs 去重
	if n := len(s.closed); n > 0 && s.closed[n-1].StartTimeMs == kl.StartTimeMs {
		s.closed[n-1] = kl
		return
	}
	s.closed = append(s.closed, kl)
	if len(s.closed) > maxHistory {
		s.closed = s.closed[len(s.closed)-maxHistory:]
	}
}

func (s *KlineStream) run() {
	wsURL := fmt.Sprintf("%s/stream?streams=%s@kline_1m", spotStreamBase, s.symbol)

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		conn, err := s.dial(wsURL)
		if err != nil {
			streamLog.Warnf("连接 Binance K 线流失败: %v", err)
			select {
			case <-time.After(2 * time.Second):
				continue
			case <-s.ctx.Done():
				return
			}
		}

		s.connMu.Lock()
		s.conn = conn
		s.connMu.Unlock()

		streamLog.Infof("✅ Binance K 线流已连接: symbol=%s", s.symbol)

		if err := s.readLoop(conn); err != nil {
			streamLog.Warnf("K 线流 readLoop 退出: %v", err)
		}

		s.connMu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		_ = conn.Close()
		s.connMu.Unlock()

		select {
		case <-time.After(1 * time.Second):
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *KlineStream) dial(wsURL string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 15 * time.Second,
	}
	conn, _, err := dialer.Dial(wsURL, nil)
	return conn, err
}

func (s *KlineStream) readLoop(conn *websocket.Conn) error {
	type payload struct {
		Stream string          `json:"stream"`
		Data   json.RawMessage `json:"data"`
	}

	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var p payload
		if err := json.Unmarshal(msg, &p); err != nil {
			continue
		}
		if len(p.Data) == 0 {
			continue
		}
		s.handleKlineEvent(p.Data)
	}
}

func (s *KlineStream) handleKlineEvent(data json.RawMessage) {
	// https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-streams
	type klinePayload struct {
		EventType string `json:"e"`
		EventTime int64  `json:"E"`
		K         struct {
			StartTime int64  `json:"t"`
			EndTime   int64  `json:"T"`
			Symbol    string `json:"s"`
			Interval  string `json:"i"`
			Open      string `json:"o"`
			Close     string `json:"c"`
			High      string `json:"h"`
			Low       string `json:"l"`
			Volume    string `json:"v"`
			IsClosed  bool   `json:"x"`
		} `json:"k"`
	}

	var ev klinePayload
	if err := json.Unmarshal(data, &ev); err != nil {
		return
	}
	if ev.EventType != "kline" || !ev.K.IsClosed {
		// 只缓存已收盘 K 线：动量回看用的是定稿数据
		return
	}

	open, err1 := strconv.ParseFloat(ev.K.Open, 64)
	high, err2 := strconv.ParseFloat(ev.K.High, 64)
	low, err3 := strconv.ParseFloat(ev.K.Low, 64)
	closep, err4 := strconv.ParseFloat(ev.K.Close, 64)
	vol, err5 := strconv.ParseFloat(ev.K.Volume, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return
	}

	s.append(Kline{
		Interval:    strings.ToLower(strings.TrimSpace(ev.K.Interval)),
		Symbol:      strings.ToLower(strings.TrimSpace(ev.K.Symbol)),
		StartTimeMs: ev.K.StartTime,
		EndTimeMs:   ev.K.EndTime,
		IsClosed:    true,
		Open:        open,
		High:        high,
		Low:         low,
		Close:       closep,
		Volume:      vol,
	})
}
