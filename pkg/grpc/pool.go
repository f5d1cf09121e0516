package grpc

import (
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// Pool 管理通往多個目標的 gRPC 客戶端連線。
// 它是執行緒安全的 (Thread-safe)，並確保每個目標地址只會維護一個連線實例。
type Pool struct {
	conns        sync.Map // map[string]*grpc.ClientConn
	mu           sync.Mutex
	interceptors []grpc.UnaryClientInterceptor
	keepalive    keepalive.ClientParameters
}

// PoolOption 定義了 Pool 的配置選項函數
type PoolOption func(*Pool)

// WithInterceptor 加入全局的 UnaryClientInterceptor，可多次呼叫，依加入順序串接
// 用於統一處理 Logging, Request ID 注入。
func WithInterceptor(interceptor grpc.UnaryClientInterceptor) PoolOption {
	return func(p *Pool) {
		p.interceptors = append(p.interceptors, interceptor)
	}
}

// WithKeepalive 覆寫預設的 keepalive 參數
func WithKeepalive(interval, timeout time.Duration) PoolOption {
	return func(p *Pool) {
		p.keepalive.Time = interval
		p.keepalive.Timeout = timeout
	}
}

// NewPool 建立並回傳一個新的 gRPC 連線池。
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		keepalive: keepalive.ClientParameters{
			Time:                10 * time.Second, // 若無活動，每 10 秒發送一次 Ping
			Timeout:             time.Second,      // 等待 Ping 回應的超時時間為 1 秒
			PermitWithoutStream: true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetConnection 獲取現有的連線，或為指定目標建立新連線。
//
// 參數:
//
//	target: string - 目標伺服器地址 (e.g., "localhost:50051")
//	opts: ...grpc.DialOption - 可選的額外 gRPC 連線選項
//
// 回傳值:
//
//	*grpc.ClientConn: gRPC 客戶端連線物件
//	error: 若建立連線失敗則回傳錯誤
func (p *Pool) GetConnection(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if conn, ok := p.load(target); ok {
		return conn, nil
	}

	// Double-check locking
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.load(target); ok {
		return conn, nil
	}

	// 帳本服務只在本機或內網使用，不加 TLS
	finalOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(p.keepalive),
	}
	if len(p.interceptors) > 0 {
		finalOpts = append(finalOpts, grpc.WithChainUnaryInterceptor(p.interceptors...))
	}
	finalOpts = append(finalOpts, opts...)

	// grpc.NewClient 為 Lazy connection，第一次呼叫時才真正連線
	conn, err := grpc.NewClient(target, finalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for target %s: %w", target, err)
	}

	p.conns.Store(target, conn)
	return conn, nil
}

// load 取出仍可用的連線，已 Shutdown 的連線會被移除
func (p *Pool) load(target string) (*grpc.ClientConn, bool) {
	v, ok := p.conns.Load(target)
	if !ok {
		return nil, false
	}
	conn := v.(*grpc.ClientConn)
	if conn.GetState() == connectivity.Shutdown {
		p.conns.Delete(target)
		return nil, false
	}
	return conn, true
}

// Close 關閉連線池中的所有連線，回傳第一個錯誤。
func (p *Pool) Close() error {
	var firstErr error
	p.conns.Range(func(key, value any) bool {
		conn := value.(*grpc.ClientConn)
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conns.Delete(key)
		return true
	})
	return firstErr
}
