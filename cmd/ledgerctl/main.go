package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	grpc_adapter "github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/in/grpc"
	grpcpool "github.com/JoeShih716/go-file-ledger/pkg/grpc"
	"github.com/JoeShih716/go-file-ledger/pkg/logger"
)

const usage = `usage: ledgerctl [-addr host:port] [-timeout 5s] [-log-level warn] <command>

commands:
  list                     列出所有帳戶
  get <numero>             查詢單一帳戶
  deposit <numero> <monto> 存款
  withdraw <numero> <monto> 提款
`

func main() {
	addr := flag.String("addr", "localhost:50051", "ledger server address")
	timeout := flag.Duration("timeout", 5*time.Second, "per-call timeout")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	zapLogger, err := logger.New(*logLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	pool := grpcpool.NewPool(grpcpool.WithInterceptor(grpcpool.RequestIDInterceptor()))
	defer pool.Close()

	conn, err := pool.GetConnection(*addr)
	if err != nil {
		zapLogger.Fatal("did not connect", zap.String("addr", *addr), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, grpc_adapter.NewLedgerClient(conn), flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}
