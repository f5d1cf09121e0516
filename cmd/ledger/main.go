package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	grpc_adapter "github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/in/grpc"
	file_adapter "github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/out/file"
	memory_adapter "github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-file-ledger/internal/config"
	"github.com/JoeShih716/go-file-ledger/pkg/logger"
	"github.com/JoeShih716/go-file-ledger/pkg/mysql"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the yaml config file")
	flag.Parse()

	// 1. 載入設定 (.env 可選)
	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 選擇持久化後端
	var repo usecase.AccountRepository
	switch cfg.Storage.Backend {
	case config.BackendMySQL:
		dbClient, err := mysql.NewClient(ctx, cfg.MySQL, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to connect to mysql", zap.Error(err))
		}
		defer dbClient.Close()
		repo = mysql_adapter.NewRepository(dbClient)
	default:
		repo = file_adapter.NewRepository(cfg.Storage.DataFile, zapLogger)
	}

	// 3. 載入帳本，資料損毀時直接中止，不覆蓋原檔
	store := memory_adapter.NewLedgerStore(repo, zapLogger)
	if err := store.Load(ctx); err != nil {
		var corrupt *domain.CorruptDataError
		if errors.As(err, &corrupt) {
			zapLogger.Fatal("persisted ledger is corrupt, refusing to start",
				zap.String("source", corrupt.Source),
				zap.Int("record", corrupt.Index),
				zap.String("field", corrupt.Field),
				zap.Error(err),
			)
		}
		zapLogger.Fatal("failed to load ledger", zap.Error(err))
	}

	// 4. 初始化 UseCase
	coreUseCase := usecase.NewCoreUseCase(store, zapLogger)

	// 5. 初始化 gRPC Adapter (Driving Adapter)
	grpcServer := grpc_adapter.NewGrpcServer(coreUseCase)

	// 6. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		zapLogger.Fatal("failed to listen", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor(zapLogger)))
	grpc_adapter.RegisterLedgerServiceServer(s, grpcServer)

	go func() {
		zapLogger.Info("starting grpc server", zap.String("addr", cfg.GRPC.Addr))
		if err := s.Serve(lis); err != nil {
			zapLogger.Error("grpc server stopped", zap.Error(err))
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	zapLogger.Info("shutting down server")
	s.GracefulStop()
	zapLogger.Info("server exited")
}
