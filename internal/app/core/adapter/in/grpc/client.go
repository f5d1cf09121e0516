package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
)

// LedgerClient 帳本服務的 gRPC client
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

// ListAccounts 列出所有帳戶
func (c *LedgerClient) ListAccounts(ctx context.Context, opts ...grpc.CallOption) ([]domain.Account, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodListAccounts, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return accountsFromStruct(out)
}

// GetAccount 查詢單一帳戶，找不到時回傳 codes.NotFound
func (c *LedgerClient) GetAccount(ctx context.Context, number int64, opts ...grpc.CallOption) (domain.Account, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetAccount, wrapperspb.Int64(number), out, opts...); err != nil {
		return domain.Account{}, err
	}
	return accountFromStruct(out)
}

// Deposit 存款
func (c *LedgerClient) Deposit(ctx context.Context, number, amount int64, opts ...grpc.CallOption) (*TransactionResult, error) {
	return c.post(ctx, MethodDeposit, number, amount, opts...)
}

// Withdraw 提款
func (c *LedgerClient) Withdraw(ctx context.Context, number, amount int64, opts ...grpc.CallOption) (*TransactionResult, error) {
	return c.post(ctx, MethodWithdraw, number, amount, opts...)
}

func (c *LedgerClient) post(ctx context.Context, method string, number, amount int64, opts ...grpc.CallOption) (*TransactionResult, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, transactionRequest(number, amount), out, opts...); err != nil {
		return nil, err
	}
	return transactionResultFromStruct(out)
}
