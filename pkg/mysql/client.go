package mysql

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Client 封裝 GORM DB 實例
type Client struct {
	db *gorm.DB
}

// NewClient 建立並回傳一個新的 MySQL 客戶端實例 (GORM)
//
// 參數:
//
//	ctx: 上下文，取消時停止重試
//	cfg: Config - MySQL 連線配置
//	log: zap logger，記錄重試過程
//
// 回傳值:
//
//	*Client: 封裝後的 MySQL 客戶端
//	error: 若連線失敗則回傳錯誤
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	gormConfig := &gorm.Config{
		// 整本帳的覆寫會自己開 Transaction，其餘單筆操作不需要預設事務
		SkipDefaultTransaction: true,
		Logger:                 newLogger(cfg.LogLevel),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < cfg.ConnectRetries; i++ {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
		if err == nil {
			err = ping(ctx, db)
			if err == nil {
				break
			}
		}

		if i < cfg.ConnectRetries-1 {
			log.Warn("failed to connect to mysql, retrying",
				zap.Int("attempt", i+1),
				zap.Int("max_attempts", cfg.ConnectRetries),
				zap.Duration("retry_in", cfg.RetryInterval),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("connect to mysql: %w", ctx.Err())
			case <-time.After(cfg.RetryInterval):
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql after %d attempts: %w", cfg.ConnectRetries, err)
	}

	// 取得底層 sql.DB 物件以設定連線池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Info("connected to mysql", zap.String("host", cfg.Host), zap.Int("port", cfg.Port), zap.String("db", cfg.DBName))
	return &Client{db: db}, nil
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DB 回傳底層的 *gorm.DB 實例，供 adapter 使用
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Close 關閉資料庫連線
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newLogger 根據配置建立 GORM Logger
func newLogger(level string) logger.Interface {
	var logLevel logger.LogLevel
	switch level {
	case "info":
		logLevel = logger.Info
	case "warn":
		logLevel = logger.Warn
	case "error":
		logLevel = logger.Error
	case "silent":
		logLevel = logger.Silent
	default:
		logLevel = logger.Error // 預設只記錄錯誤
	}

	return logger.Default.LogMode(logLevel)
}
