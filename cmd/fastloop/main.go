package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/betbot/fastloop/internal/binance"
	"github.com/betbot/fastloop/internal/gamma"
	"github.com/betbot/fastloop/internal/scheduler"
	botsignal "github.com/betbot/fastloop/internal/signal"
	"github.com/betbot/fastloop/internal/simmer"
	"github.com/betbot/fastloop/internal/strategy"
	"github.com/betbot/fastloop/pkg/config"
	"github.com/betbot/fastloop/pkg/httpclient"
	"github.com/betbot/fastloop/pkg/logger"
)

func main() {
	// 加载 .env（尽力而为，缺失就用真实环境变量）
	_ = godotenv.Load()

	configPath := flag.String("config", "", "配置文件路径（yaml）")
	live := flag.Bool("live", false, "live 模式：提交决策到平台（默认 dry-run，只打印）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *live {
		cfg.DryRun = false
	} else {
		cfg.DryRun = true
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputFile: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	httpClient := httpclient.New(time.Duration(cfg.HTTPTimeoutSecs) * time.Second)

	gammaClient := gamma.NewClient(httpClient, gamma.Options{
		BaseURL:   cfg.GammaBase,
		Limit:     cfg.DiscoveryLimit,
		Category:  cfg.DiscoveryCategory,
		Keyword:   cfg.KeywordPhrase,
		WindowTag: cfg.WindowTag,
	})

	var provider botsignal.Provider
	switch cfg.SignalSource {
	case "ws":
		stream := binance.NewKlineStream(cfg.AssetSymbol)
		stream.Start()
		defer stream.Stop()
		provider = botsignal.NewStreamProvider(stream, cfg.Lookback)
	default:
		provider = botsignal.NewRESTProvider(binance.NewClient(httpClient, cfg.BinanceBase), cfg.AssetSymbol, cfg.Lookback)
	}

	simmerClient := simmer.NewClient(httpClient, cfg.SimmerBase, cfg.SimmerAPIKey)

	cycle := strategy.NewCycle(cfg, gammaClient, provider, simmerClient, !cfg.DryRun)

	mode := "dry-run"
	if !cfg.DryRun {
		mode = "live"
	}
	logrus.Infof("🚀 fastloop 启动: mode=%s symbol=%s window=%d–%ds signal=%s",
		mode, cfg.AssetSymbol, cfg.MinTimeToExpirySecs, cfg.MaxTimeToExpirySecs, cfg.SignalSource)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stopCh := make(chan os.Signal, 1)
		signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
		<-stopCh
		logrus.Info("收到停止信号，循环将在当前 tick 后退出")
		cancel()
	}()

	loop := scheduler.NewLoop(time.Duration(cfg.TickOffsetSecs)*time.Second, func(ctx context.Context) {
		_, _ = cycle.Run(ctx)
	})
	loop.Run(ctx)

	fmt.Println("fastloop stopped")
}
