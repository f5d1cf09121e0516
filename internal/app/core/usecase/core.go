package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層
//
// 每個操作不是完整成功 (異動 + 持久化)，就是完整失敗 (無異動、未寫入)。
// mu 讓所有操作依序執行完畢，gRPC 的並行請求不會交錯。
type CoreUseCase struct {
	store  LedgerStore
	logger *zap.Logger
	mu     sync.Mutex
}

func NewCoreUseCase(store LedgerStore, logger *zap.Logger) *CoreUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoreUseCase{
		store:  store,
		logger: logger,
	}
}

// Deposit 存款
func (c *CoreUseCase) Deposit(ctx context.Context, number int64, amount int64) (domain.Account, error) {
	return c.PostTransaction(ctx, &domain.Transaction{
		Number: number,
		Amount: amount,
		Type:   domain.TransactionTypeDeposit,
	})
}

// Withdraw 提款，金額超過餘額時回傳 ErrInsufficientBalance 且不做任何變更
func (c *CoreUseCase) Withdraw(ctx context.Context, number int64, amount int64) (domain.Account, error) {
	return c.PostTransaction(ctx, &domain.Transaction{
		Number: number,
		Amount: amount,
		Type:   domain.TransactionTypeWithdraw,
	})
}

// PostTransaction 處理交易
//
// 參數:
//
//	ctx: 上下文
//	tran: 交易請求物件
//
// 回傳:
//
//	domain.Account: 交易後的帳戶狀態
//	error: 處理錯誤 (金額不合法、帳戶不存在、餘額不足、持久化失敗)
func (c *CoreUseCase) PostTransaction(ctx context.Context, tran *domain.Transaction) (domain.Account, error) {
	// 1. 金額檢查，呼叫端不可信任
	if tran.Amount <= 0 {
		return domain.Account{}, domain.ErrAmountMustBePositive
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 2. 找帳戶
	account, err := c.store.Find(tran.Number)
	if err != nil {
		return domain.Account{}, err
	}

	// 3. 套用交易
	before := account.Balance
	if err := tran.Apply(account); err != nil {
		return domain.Account{}, err
	}

	// 4. 寫回儲存，失敗則還原記憶體狀態，避免與檔案不一致
	if err := c.store.Save(ctx); err != nil {
		account.Balance = before
		c.logger.Error("save ledger failed, transaction rolled back",
			zap.Stringer("type", tran.Type),
			zap.Int64("numero", tran.Number),
			zap.Int64("amount", tran.Amount),
			zap.Error(err),
		)
		return domain.Account{}, err
	}

	c.logger.Info("transaction posted",
		zap.Stringer("type", tran.Type),
		zap.Int64("numero", tran.Number),
		zap.Int64("amount", tran.Amount),
		zap.Int64("saldo", account.Balance),
	)
	return *account, nil
}

// ListAccounts 列出所有帳戶
func (c *CoreUseCase) ListAccounts(ctx context.Context) []domain.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.List()
}

// GetAccount 取得單一帳戶
func (c *CoreUseCase) GetAccount(ctx context.Context, number int64) (domain.Account, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	account, err := c.store.Find(number)
	if err != nil {
		return domain.Account{}, err
	}
	return *account, nil
}
