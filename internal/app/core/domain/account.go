package domain

import "math"

// Account 帳戶
//
// Number 由外部指定 (不自動產生)，在帳本內唯一。
// Balance 以最小貨幣單位儲存，任何成功操作後皆不得為負。
type Account struct {
	Number  int64
	Name    string
	Balance int64
}

func NewAccount(number int64, name string, balance int64) *Account {
	return &Account{
		Number:  number,
		Name:    name,
		Balance: balance,
	}
}

// Deposit 存款，餘額超出 int64 上限時不做任何變更
func (a *Account) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}

	if amount > math.MaxInt64-a.Balance {
		return ErrBalanceOverflow
	}

	a.Balance = a.Balance + amount
	return nil
}

// Withdraw 提款，餘額不足時不做任何變更
func (a *Account) Withdraw(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}

	if a.Balance < amount {
		return ErrInsufficientBalance
	}

	a.Balance = a.Balance - amount
	return nil
}

// SeedAccounts 回傳沒有任何持久化資料時的初始帳戶
func SeedAccounts() []*Account {
	return []*Account{
		NewAccount(1, "Cuenta A", 1000),
		NewAccount(2, "Cuenta B", 2000),
		NewAccount(3, "Cuenta C", 1500),
	}
}
