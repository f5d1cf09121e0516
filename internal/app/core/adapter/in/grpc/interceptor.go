package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcpool "github.com/JoeShih716/go-file-ledger/pkg/grpc"
)

// LoggingInterceptor 記錄每次呼叫的 method、request id、耗時與結果
// request id 同時放進回應 header，方便 client 對照 log
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := grpcpool.RequestIDFromIncoming(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(grpcpool.RequestIDKey, requestID))

		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("request_id", requestID),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.String("code", status.Code(err).String()), zap.Error(err))
			logger.Warn("grpc call failed", fields...)
			return resp, err
		}
		logger.Info("grpc call", fields...)
		return resp, nil
	}
}
