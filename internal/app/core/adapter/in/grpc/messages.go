package grpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
)

// 訊息欄位名稱，與帳本檔案一致
const (
	fieldNumero   = "numero"
	fieldNombre   = "nombre"
	fieldSaldo    = "saldo"
	fieldMonto    = "monto"
	fieldAccounts = "accounts"
	fieldSuccess  = "success"
	fieldMessage  = "message"
)

// structpb 的數字是 float64，超過 2^53 會失去精度
const maxExactInteger = 1 << 53

// TransactionResult 存提款的結果
// Success 為 false 時 Message 說明原因，Balance 無意義
type TransactionResult struct {
	Success bool
	Message string
	Balance int64
}

func accountToStruct(a domain.Account) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldNumero: structpb.NewNumberValue(float64(a.Number)),
		fieldNombre: structpb.NewStringValue(a.Name),
		fieldSaldo:  structpb.NewNumberValue(float64(a.Balance)),
	}}
}

func accountFromStruct(s *structpb.Struct) (domain.Account, error) {
	number, err := integerField(s, fieldNumero)
	if err != nil {
		return domain.Account{}, err
	}
	balance, err := integerField(s, fieldSaldo)
	if err != nil {
		return domain.Account{}, err
	}
	name, ok := s.GetFields()[fieldNombre].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return domain.Account{}, fmt.Errorf("field %q must be a string", fieldNombre)
	}
	return domain.Account{Number: number, Name: name.StringValue, Balance: balance}, nil
}

func accountsToStruct(accounts []domain.Account) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(accounts))
	for _, a := range accounts {
		values = append(values, structpb.NewStructValue(accountToStruct(a)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldAccounts: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

func accountsFromStruct(s *structpb.Struct) ([]domain.Account, error) {
	list, ok := s.GetFields()[fieldAccounts].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("field %q must be a list", fieldAccounts)
	}
	accounts := make([]domain.Account, 0, len(list.ListValue.GetValues()))
	for i, v := range list.ListValue.GetValues() {
		account, err := accountFromStruct(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func transactionRequest(number, amount int64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldNumero: structpb.NewNumberValue(float64(number)),
		fieldMonto:  structpb.NewNumberValue(float64(amount)),
	}}
}

func transactionSuccess(a domain.Account) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldSuccess: structpb.NewBoolValue(true),
		fieldMessage: structpb.NewStringValue(""),
		fieldSaldo:   structpb.NewNumberValue(float64(a.Balance)),
	}}
}

func transactionFailure(err error) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldSuccess: structpb.NewBoolValue(false),
		fieldMessage: structpb.NewStringValue(err.Error()),
	}}
}

func transactionResultFromStruct(s *structpb.Struct) (*TransactionResult, error) {
	fields := s.GetFields()
	success, ok := fields[fieldSuccess].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return nil, fmt.Errorf("field %q must be a bool", fieldSuccess)
	}
	result := &TransactionResult{
		Success: success.BoolValue,
		Message: fields[fieldMessage].GetStringValue(),
	}
	if result.Success {
		balance, err := integerField(s, fieldSaldo)
		if err != nil {
			return nil, err
		}
		result.Balance = balance
	}
	return result, nil
}

// integerField 讀取整數欄位，拒絕小數與超出精度的數字
func integerField(s *structpb.Struct, key string) (int64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > maxExactInteger {
		return 0, fmt.Errorf("field %q must be an integer, got %v", key, f)
	}
	return int64(f), nil
}
