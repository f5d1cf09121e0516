package usecase

import (
	"context"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
)

// AccountRepository 帳本的持久化後端 (檔案 / MySQL)
type AccountRepository interface {
	// LoadAccounts 讀取所有帳戶，依原本順序回傳
	// 尚無任何持久化資料時 found 為 false
	LoadAccounts(ctx context.Context) (accounts []*domain.Account, found bool, err error)
	// SaveAccounts 以完整帳戶清單覆寫持久化資料
	SaveAccounts(ctx context.Context, accounts []*domain.Account) error
	// Source 持久化位置描述 (檔案路徑或資料表)，用於錯誤訊息與 log
	Source() string
}

// LedgerStore 帳本：記憶體中的帳戶清單以及與持久化資料的同步
type LedgerStore interface {
	// Load 從持久化資料載入帳本，沒有資料時建立初始帳戶並立即保存
	Load(ctx context.Context) error
	// Save 將完整帳本寫回持久化儲存
	Save(ctx context.Context) error
	// Find 依帳戶編號取得帳戶，回傳的指標即為帳本內的帳戶
	Find(number int64) (*domain.Account, error)
	// List 依插入順序回傳所有帳戶的複本
	List() []domain.Account
}
