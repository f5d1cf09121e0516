package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/usecase"
)

type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

// ListAccounts 依帳本順序列出所有帳戶
func (s *GrpcServer) ListAccounts(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return accountsToStruct(s.core.ListAccounts(ctx)), nil
}

// GetAccount 查詢單一帳戶
func (s *GrpcServer) GetAccount(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	account, err := s.core.GetAccount(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, status.Error(codes.NotFound, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return accountToStruct(account), nil
}

// Deposit 存款
func (s *GrpcServer) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.post(ctx, req, s.core.Deposit)
}

// Withdraw 提款
func (s *GrpcServer) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.post(ctx, req, s.core.Withdraw)
}

func (s *GrpcServer) post(
	ctx context.Context,
	req *structpb.Struct,
	apply func(ctx context.Context, number int64, amount int64) (domain.Account, error),
) (*structpb.Struct, error) {
	// 1. 解析請求，格式錯誤屬於呼叫端錯誤
	number, err := integerField(req, fieldNumero)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	amount, err := integerField(req, fieldMonto)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// 2. 執行交易
	account, err := apply(ctx, number, amount)
	if err != nil {
		// 業務邏輯錯誤，回傳 success=false (Soft Failure)
		return transactionFailure(err), nil
	}
	return transactionSuccess(account), nil
}

var _ LedgerServiceServer = (*GrpcServer)(nil)
