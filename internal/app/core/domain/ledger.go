package domain

import (
	"errors"
	"fmt"
)

// CheckLedger 檢查從持久化資料還原的帳戶清單
// 帳戶編號必須唯一，餘額不可為負
func CheckLedger(source string, accounts []*Account) error {
	seen := make(map[int64]struct{}, len(accounts))
	for i, account := range accounts {
		if account == nil {
			return &CorruptDataError{Source: source, Index: i, Err: errors.New("empty record")}
		}
		if _, ok := seen[account.Number]; ok {
			return &CorruptDataError{
				Source: source,
				Index:  i,
				Field:  "numero",
				Err:    fmt.Errorf("%w: %d", ErrAccountAlreadyExists, account.Number),
			}
		}
		seen[account.Number] = struct{}{}
		if account.Balance < 0 {
			return &CorruptDataError{
				Source: source,
				Index:  i,
				Field:  "saldo",
				Err:    fmt.Errorf("negative balance %d", account.Balance),
			}
		}
	}
	return nil
}
