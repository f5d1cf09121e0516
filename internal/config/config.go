package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-file-ledger/pkg/mysql"
)

// 儲存後端
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
)

type Config struct {
	GRPC    GRPCConfig    `yaml:"grpc"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	MySQL   mysql.Config  `yaml:"mysql"`
}

type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"`   // "file" 或 "mysql"
	DataFile string `yaml:"data_file"` // backend 為 file 時的帳本檔案
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load 讀取 yaml 設定檔，再以 LEDGER_* 環境變數覆寫，最後補上預設值
// 設定檔不存在時只使用環境變數與預設值
func Load(path string) (*Config, error) {
	var cfg Config

	cfgData, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	switch cfg.Storage.Backend {
	case BackendFile, BackendMySQL:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.GRPC.Addr, "LEDGER_GRPC_ADDR")
	setString(&cfg.Storage.Backend, "LEDGER_STORAGE_BACKEND")
	setString(&cfg.Storage.DataFile, "LEDGER_DATA_FILE")
	setString(&cfg.Log.Level, "LEDGER_LOG_LEVEL")
	setString(&cfg.MySQL.Host, "LEDGER_MYSQL_HOST")
	setString(&cfg.MySQL.User, "LEDGER_MYSQL_USER")
	setString(&cfg.MySQL.Password, "LEDGER_MYSQL_PASSWORD")
	setString(&cfg.MySQL.DBName, "LEDGER_MYSQL_DB")
	if v := os.Getenv("LEDGER_MYSQL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEDGER_MYSQL_PORT: %w", err)
		}
		cfg.MySQL.Port = port
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.GRPC.Addr == "" {
		cfg.GRPC.Addr = ":50051"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Storage.DataFile == "" {
		cfg.Storage.DataFile = "cuentas.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.MySQL.ApplyDefaults()
}
