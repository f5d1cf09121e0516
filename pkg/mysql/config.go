package mysql

import (
	"fmt"
	"time"
)

// Config 定義 MySQL 連線與連線池的配置
type Config struct {
	Host     string `yaml:"host"`     // 資料庫主機地址
	Port     int    `yaml:"port"`     // 資料庫埠號 (預設 3306)
	User     string `yaml:"user"`     // 使用者名稱
	Password string `yaml:"password"` // 密碼
	DBName   string `yaml:"db_name"`  // 資料庫名稱

	// 連線池設定 (Connection Pool)
	// 參考: https://github.com/go-sql-driver/mysql#important-settings
	MaxOpenConns    int           `yaml:"max_open_conns"`    // 最大開啟連線數
	MaxIdleConns    int           `yaml:"max_idle_conns"`    // 最大閒置連線數
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"` // 連線最大存活時間

	// 連線重試
	ConnectRetries int           `yaml:"connect_retries"`
	RetryInterval  time.Duration `yaml:"retry_interval"`

	// GORM 設定
	LogLevel string `yaml:"log_level"` // Log 等級: "silent", "error", "warn", "info"
}

// ApplyDefaults 補全 yaml 沒寫的設定
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 3306
	}
	// 帳本只有單一寫入者，連線池不需要很大
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 4
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 2
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	if c.ConnectRetries == 0 {
		c.ConnectRetries = 10
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = 2 * time.Second
	}
}

// DSN (Data Source Name) 產生連線字串
// 格式: user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}
