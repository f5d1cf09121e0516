package grpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDKey 追蹤單次呼叫用的 metadata key
const RequestIDKey = "x-request-id"

// RequestIDInterceptor 為每次呼叫注入 x-request-id (已存在則沿用)
// 搭配 WithInterceptor 使用
func RequestIDInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if md, ok := metadata.FromOutgoingContext(ctx); !ok || len(md.Get(RequestIDKey)) == 0 {
			ctx = metadata.AppendToOutgoingContext(ctx, RequestIDKey, uuid.NewString())
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// RequestIDFromIncoming 從 server 端 context 取出 x-request-id
// 沒有時產生一個新的
func RequestIDFromIncoming(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}
