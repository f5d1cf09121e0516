package memory

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/usecase"
)

// LedgerStore 持有記憶體中的帳本，並透過 AccountRepository 與持久化資料同步
//
// 結構:
//
//	accounts: 依插入順序排列的帳戶清單
//	repo: 持久化後端 (檔案 / MySQL)
//
// 本身不加鎖，由 usecase 層負責序列化呼叫
type LedgerStore struct {
	accounts []*domain.Account
	repo     usecase.AccountRepository
	logger   *zap.Logger
}

// NewLedgerStore 建立一個空的 LedgerStore，呼叫 Load 後才有資料
//
// 參數:
//
//	repo: 持久化後端
//	logger: zap logger，可為 nil
//
// 回傳:
//
//	*LedgerStore: LedgerStore 實例
func NewLedgerStore(repo usecase.AccountRepository, logger *zap.Logger) *LedgerStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerStore{
		accounts: make([]*domain.Account, 0),
		repo:     repo,
		logger:   logger,
	}
}

// Load 從持久化資料載入帳本
//
// 沒有持久化資料時，建立三個初始帳戶並立即保存。
// 資料格式不符時回傳 *domain.CorruptDataError。
func (s *LedgerStore) Load(ctx context.Context) error {
	accounts, found, err := s.repo.LoadAccounts(ctx)
	if err != nil {
		return err
	}

	if !found {
		s.accounts = domain.SeedAccounts()
		s.logger.Info("no persisted ledger, seeding default accounts",
			zap.String("source", s.repo.Source()),
			zap.Int("count", len(s.accounts)),
		)
		return s.Save(ctx)
	}

	if err := domain.CheckLedger(s.repo.Source(), accounts); err != nil {
		return err
	}
	s.accounts = accounts
	s.logger.Info("ledger loaded", zap.String("source", s.repo.Source()), zap.Int("count", len(s.accounts)))
	return nil
}

// Save 將完整帳本覆寫至持久化儲存，失敗不重試
func (s *LedgerStore) Save(ctx context.Context) error {
	if err := s.repo.SaveAccounts(ctx, s.accounts); err != nil {
		var persistErr *domain.PersistenceError
		if errors.As(err, &persistErr) {
			return err
		}
		return &domain.PersistenceError{Op: "save " + s.repo.Source(), Err: err}
	}
	return nil
}

// Find 線性搜尋帳戶編號
//
// 參數:
//
//	number: 帳戶編號
//
// 回傳:
//
//	*domain.Account: 帳本內的帳戶
//	error: 找不到時回傳 domain.ErrAccountNotFound
func (s *LedgerStore) Find(number int64) (*domain.Account, error) {
	for _, account := range s.accounts {
		if account.Number == number {
			return account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// List 依插入順序回傳所有帳戶的複本
func (s *LedgerStore) List() []domain.Account {
	out := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, *account)
	}
	return out
}

var _ usecase.LedgerStore = (*LedgerStore)(nil)
