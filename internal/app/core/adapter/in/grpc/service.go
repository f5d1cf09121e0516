package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// 服務以 protobuf well-known types 作為訊息格式，不需要額外產生程式碼
//
//	ListAccounts(Empty)      -> Struct{accounts: [Struct{numero, nombre, saldo}]}
//	GetAccount(Int64Value)   -> Struct{numero, nombre, saldo}
//	Deposit(Struct{numero, monto})  -> Struct{success, message, saldo}
//	Withdraw(Struct{numero, monto}) -> Struct{success, message, saldo}
const (
	ServiceName = "ledger.v1.LedgerService"

	MethodListAccounts = "/" + ServiceName + "/ListAccounts"
	MethodGetAccount   = "/" + ServiceName + "/GetAccount"
	MethodDeposit      = "/" + ServiceName + "/Deposit"
	MethodWithdraw     = "/" + ServiceName + "/Withdraw"
)

// LedgerServiceServer 帳本 gRPC 服務介面
type LedgerServiceServer interface {
	ListAccounts(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetAccount(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
	Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterLedgerServiceServer 註冊服務
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// LedgerServiceDesc 手動定義的 ServiceDesc
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListAccounts", Handler: listAccountsHandler},
		{MethodName: "GetAccount", Handler: getAccountHandler},
		{MethodName: "Deposit", Handler: depositHandler},
		{MethodName: "Withdraw", Handler: withdrawHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/v1/ledger.proto",
}

func listAccountsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).ListAccounts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodListAccounts}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).ListAccounts(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getAccountHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).GetAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetAccount}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).GetAccount(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func depositHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).Deposit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodDeposit}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).Deposit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func withdrawHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).Withdraw(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodWithdraw}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).Withdraw(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
