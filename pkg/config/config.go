package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// 默认值（与线上跑的参数保持一致）
const (
	DefaultSimmerBase        = "https://api.simmer.markets"
	DefaultEntryThreshold    = 0.52
	DefaultMinMomentumPct    = 0.5
	DefaultMaxPositionSize   = 10.0
	DefaultSignalSource      = "rest"
	DefaultLookback          = 5
	DefaultMinTimeToExpiry   = 60
	DefaultMaxTimeToExpiry   = 120
	DefaultAssetSymbol       = "BTCUSDT"
	DefaultKeywordPhrase     = "bitcoin up or down"
	DefaultWindowTag         = "5m"
	DefaultTickOffsetSecs    = 2
	DefaultHTTPTimeoutSecs   = 10
	DefaultDiscoveryLimit    = 20
	DefaultDiscoveryCategory = "crypto"
)

// Config fastloop 进程配置
// 启动时构建一次，之后只读：各组件显式接收 Config，不在运行中读环境变量。
// 字段使用 camelCase 的 yaml/json tag（bbgo main 风格）。
type Config struct {
	// ===== 信号参数 =====
	EntryThreshold  float64 `yaml:"entryThreshold" json:"entryThreshold"`   // 入场价格阈值（YES 价，小数）
	MinMomentumPct  float64 `yaml:"minMomentumPct" json:"minMomentumPct"`   // 最小动量百分比（绝对值，低于则观望）
	MaxPositionSize float64 `yaml:"maxPositionSize" json:"maxPositionSize"` // 最大仓位（USDC，live 模式占位）
	SignalSource    string  `yaml:"signalSource" json:"signalSource"`       // 信号源: "rest"（REST 轮询）或 "ws"（K 线流缓存）
	Lookback        int     `yaml:"lookback" json:"lookback"`               // 动量回看 K 线根数（1m）

	// ===== 市场筛选参数 =====
	MinTimeToExpirySecs int    `yaml:"minTimeToExpirySecs" json:"minTimeToExpirySecs"` // 距到期最小秒数（严格大于）
	MaxTimeToExpirySecs int    `yaml:"maxTimeToExpirySecs" json:"maxTimeToExpirySecs"` // 距到期最大秒数（小于等于）
	AssetSymbol         string `yaml:"assetSymbol" json:"assetSymbol"`                 // Binance 交易对，例如 BTCUSDT
	KeywordPhrase       string `yaml:"keywordPhrase" json:"keywordPhrase"`             // 标题关键词，例如 "bitcoin up or down"
	WindowTag           string `yaml:"windowTag" json:"windowTag"`                     // slug 中的周期标签，例如 "5m"
	UseVolumeConfidence bool   `yaml:"useVolumeConfidence" json:"useVolumeConfidence"` // 是否启用成交量置信过滤（预留）

	// ===== 发现源参数 =====
	GammaBase         string `yaml:"gammaBase" json:"gammaBase"`                 // Gamma API base URL
	DiscoveryLimit    int    `yaml:"discoveryLimit" json:"discoveryLimit"`       // 每次拉取的市场数量上限
	DiscoveryCategory string `yaml:"discoveryCategory" json:"discoveryCategory"` // 市场分类 tag

	// ===== 平台凭证 =====
	SimmerBase   string `yaml:"simmerBase" json:"simmerBase"`   // Simmer API base URL
	SimmerAPIKey string `yaml:"-" json:"-"`                     // 只从环境变量读取，不落配置文件
	BinanceBase  string `yaml:"binanceBase" json:"binanceBase"` // Binance REST base URL

	// ===== 调度与网络 =====
	TickOffsetSecs  int `yaml:"tickOffsetSecs" json:"tickOffsetSecs"`   // 过整分后多少秒触发（等上游 1m K 线收盘）
	HTTPTimeoutSecs int `yaml:"httpTimeoutSecs" json:"httpTimeoutSecs"` // 单次 HTTP 请求超时（秒）

	// ===== 运行模式与日志 =====
	DryRun   bool   `yaml:"dryRun" json:"dryRun"`     // 纸交易模式：只打印决策，不提交订单
	LogLevel string `yaml:"logLevel" json:"logLevel"` // 日志级别
	LogFile  string `yaml:"logFile" json:"logFile"`   // 日志文件路径（可选）
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() {
	if c.EntryThreshold == 0 {
		c.EntryThreshold = DefaultEntryThreshold
	}
	if c.MinMomentumPct == 0 {
		c.MinMomentumPct = DefaultMinMomentumPct
	}
	if c.MaxPositionSize == 0 {
		c.MaxPositionSize = DefaultMaxPositionSize
	}
	if c.SignalSource == "" {
		c.SignalSource = DefaultSignalSource
	}
	if c.Lookback == 0 {
		c.Lookback = DefaultLookback
	}
	if c.MinTimeToExpirySecs == 0 {
		c.MinTimeToExpirySecs = DefaultMinTimeToExpiry
	}
	if c.MaxTimeToExpirySecs == 0 {
		c.MaxTimeToExpirySecs = DefaultMaxTimeToExpiry
	}
	if c.AssetSymbol == "" {
		c.AssetSymbol = DefaultAssetSymbol
	}
	if c.KeywordPhrase == "" {
		c.KeywordPhrase = DefaultKeywordPhrase
	}
	if c.WindowTag == "" {
		c.WindowTag = DefaultWindowTag
	}
	if c.GammaBase == "" {
		c.GammaBase = "https://gamma-api.polymarket.com"
	}
	if c.DiscoveryLimit == 0 {
		c.DiscoveryLimit = DefaultDiscoveryLimit
	}
	if c.DiscoveryCategory == "" {
		c.DiscoveryCategory = DefaultDiscoveryCategory
	}
	if c.SimmerBase == "" {
		c.SimmerBase = DefaultSimmerBase
	}
	if c.BinanceBase == "" {
		c.BinanceBase = "https://api.binance.com"
	}
	if c.TickOffsetSecs == 0 {
		c.TickOffsetSecs = DefaultTickOffsetSecs
	}
	if c.HTTPTimeoutSecs == 0 {
		c.HTTPTimeoutSecs = DefaultHTTPTimeoutSecs
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config 不能为空")
	}
	if c.MinMomentumPct < 0 {
		return errors.Errorf("minMomentumPct 不能为负数，当前值: %.4f", c.MinMomentumPct)
	}
	if c.EntryThreshold <= 0 || c.EntryThreshold >= 1 {
		return errors.Errorf("entryThreshold 必须在 (0,1) 范围内，当前值: %.4f", c.EntryThreshold)
	}
	if c.Lookback < 2 {
		return errors.Errorf("lookback 必须 >= 2（动量至少需要两根 K 线），当前值: %d", c.Lookback)
	}
	if c.MinTimeToExpirySecs < 0 {
		return errors.Errorf("minTimeToExpirySecs 不能为负数，当前值: %d", c.MinTimeToExpirySecs)
	}
	if c.MaxTimeToExpirySecs <= c.MinTimeToExpirySecs {
		return errors.Errorf("maxTimeToExpirySecs 必须大于 minTimeToExpirySecs，当前值: max=%d, min=%d",
			c.MaxTimeToExpirySecs, c.MinTimeToExpirySecs)
	}
	if c.SignalSource != "rest" && c.SignalSource != "ws" {
		return errors.Errorf("signalSource 必须是 'rest' 或 'ws'，当前值: %s", c.SignalSource)
	}
	if c.TickOffsetSecs < 0 || c.TickOffsetSecs >= 60 {
		return errors.Errorf("tickOffsetSecs 必须在 [0,60) 范围内，当前值: %d", c.TickOffsetSecs)
	}
	if c.HTTPTimeoutSecs <= 0 {
		return errors.Errorf("httpTimeoutSecs 必须大于 0，当前值: %d", c.HTTPTimeoutSecs)
	}
	if c.DiscoveryLimit <= 0 {
		return errors.Errorf("discoveryLimit 必须大于 0，当前值: %d", c.DiscoveryLimit)
	}
	return nil
}

// Load 加载配置：yaml 文件（可选）-> 默认值 -> 环境变量覆盖 -> 验证
func Load(configPath string) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		if err := loadFromFile(configPath, config); err != nil {
			return nil, errors.Wrap(err, "加载配置文件失败")
		}
	}

	config.ApplyDefaults()
	applyEnvironmentOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "配置验证失败")
	}

	return config, nil
}

// loadFromFile 从文件加载配置；文件不存在时静默使用默认配置
func loadFromFile(configPath string, config *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "读取配置文件失败")
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.Wrap(err, "解析YAML配置失败")
	}
	return nil
}

// applyEnvironmentOverrides 应用环境变量覆盖
// 环境变量格式: FASTLOOP_FIELD_NAME；凭证沿用平台自身的变量名。
func applyEnvironmentOverrides(config *Config) {
	prefix := "FASTLOOP_"

	if val := os.Getenv(prefix + "ENTRY_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			config.EntryThreshold = f
		}
	}
	if val := os.Getenv(prefix + "MIN_MOMENTUM_PCT"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			config.MinMomentumPct = f
		}
	}
	if val := os.Getenv(prefix + "MAX_POSITION_SIZE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			config.MaxPositionSize = f
		}
	}
	if val := os.Getenv(prefix + "SIGNAL_SOURCE"); val != "" {
		config.SignalSource = strings.ToLower(strings.TrimSpace(val))
	}
	if val := os.Getenv(prefix + "LOOKBACK"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			config.Lookback = i
		}
	}
	if val := os.Getenv(prefix + "MIN_TIME_TO_EXPIRY_SECS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			config.MinTimeToExpirySecs = i
		}
	}
	if val := os.Getenv(prefix + "MAX_TIME_TO_EXPIRY_SECS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			config.MaxTimeToExpirySecs = i
		}
	}
	if val := os.Getenv(prefix + "ASSET_SYMBOL"); val != "" {
		config.AssetSymbol = strings.ToUpper(strings.TrimSpace(val))
	}
	if val := os.Getenv(prefix + "KEYWORD_PHRASE"); val != "" {
		config.KeywordPhrase = strings.ToLower(strings.TrimSpace(val))
	}
	if val := os.Getenv(prefix + "WINDOW_TAG"); val != "" {
		config.WindowTag = strings.TrimSpace(val)
	}
	if val := os.Getenv(prefix + "USE_VOLUME_CONFIDENCE"); val != "" {
		config.UseVolumeConfidence = strings.ToLower(val) == "true"
	}
	if val := os.Getenv(prefix + "TICK_OFFSET_SECS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			config.TickOffsetSecs = i
		}
	}
	if val := os.Getenv(prefix + "HTTP_TIMEOUT_SECS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			config.HTTPTimeoutSecs = i
		}
	}
	if val := os.Getenv(prefix + "LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}
	if val := os.Getenv(prefix + "LOG_FILE"); val != "" {
		config.LogFile = val
	}

	// 平台凭证：保留平台原生变量名（Railway 部署会注入带前缀的版本）
	if val := os.Getenv("SIMMER_API_BASE"); val != "" {
		config.SimmerBase = strings.TrimRight(val, "/")
	}
	if val := os.Getenv("SIMMER_API_KEY"); val != "" {
		config.SimmerAPIKey = val
	} else if val := os.Getenv("RAILWAY_SIMMER_API_KEY"); val != "" {
		config.SimmerAPIKey = val
	}
}
