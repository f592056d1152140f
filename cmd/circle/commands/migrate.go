package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/mutual-circle/pkg/database"
	"github.com/d60-Lab/mutual-circle/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "同步数据库表结构",
	Long: `按模型创建或更新 users、follows、posts 表及其索引和约束。

Examples:
  circle migrate
  CIRCLE_DATABASE_DRIVER=postgres CIRCLE_DATABASE_DSN=... circle migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.InitDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		logger.Info("migration finished", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}
