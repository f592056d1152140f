package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/mutual-circle/config"
	"github.com/d60-Lab/mutual-circle/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "circle",
	Short: "Mutual Circle - 互关可见的社交后端",
	Long: `Mutual Circle 是一个只对互关好友开放内容的社交后端。

Commands:
  serve    启动 HTTP 服务
  migrate  同步数据库表结构`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件目录（默认 . 与 ./config）")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig 读取配置并初始化全局日志
func loadConfig() (*config.Config, error) {
	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}
