package domain

// TransactionType 交易類型
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdraw TransactionType = 2
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdraw:
		return "withdraw"
	default:
		return "unknown"
	}
}

// Transaction 單筆帳戶異動請求
// 僅存在於記憶體中，帳本不保存交易紀錄
type Transaction struct {
	// Number: 帳戶編號
	Number int64
	// Amount: 金額
	Amount int64
	// Type: 存款或提款
	Type TransactionType
}

// Apply 將交易套用到帳戶上，失敗時帳戶不變
func (t *Transaction) Apply(account *Account) error {
	switch t.Type {
	case TransactionTypeDeposit:
		return account.Deposit(t.Amount)
	case TransactionTypeWithdraw:
		return account.Withdraw(t.Amount)
	default:
		return ErrUnknownTransactionType
	}
}
