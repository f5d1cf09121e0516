package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBalanceOverflow 存款後餘額超出上限
	ErrBalanceOverflow = errors.New("balance overflow")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrUnknownTransactionType 未知的交易類型
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// CorruptDataError 持久化資料存在，但無法解析成預期的帳戶格式
type CorruptDataError struct {
	Source string // 資料來源 (檔案路徑或資料表)
	Index  int    // 出錯的紀錄索引，-1 代表整體格式錯誤
	Field  string // 出錯的欄位，可為空
	Err    error
}

func (e *CorruptDataError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("corrupt ledger data in %s: %v", e.Source, e.Err)
	case e.Field == "":
		return fmt.Sprintf("corrupt ledger data in %s: record %d: %v", e.Source, e.Index, e.Err)
	default:
		return fmt.Sprintf("corrupt ledger data in %s: record %d field %q: %v", e.Source, e.Index, e.Field, e.Err)
	}
}

func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// PersistenceError 寫入持久化儲存失敗，不重試
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist ledger (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
