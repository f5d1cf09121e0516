package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-file-ledger/pkg/mysql"
)

// sqlAccount 對應資料庫的 ledger_accounts 表
// Position 保存帳戶在帳本中的順序
type sqlAccount struct {
	Numero   int64  `gorm:"column:numero;primaryKey;autoIncrement:false"`
	Position int    `gorm:"column:position;not null;index"`
	Nombre   string `gorm:"column:nombre;type:varchar(255);not null"`
	Saldo    int64  `gorm:"column:saldo;not null"`
}

func (*sqlAccount) TableName() string {
	return "ledger_accounts"
}

// Repository 將整本帳保存在一張 MySQL 資料表
// 資料表不存在 == 尚無持久化資料
type Repository struct {
	client *mysql.Client
}

func NewRepository(client *mysql.Client) *Repository {
	return &Repository{
		client: client,
	}
}

// Source implements usecase.AccountRepository.
func (r *Repository) Source() string {
	return "mysql:" + (&sqlAccount{}).TableName()
}

// LoadAccounts 依 position 順序讀取所有帳戶
func (r *Repository) LoadAccounts(ctx context.Context) ([]*domain.Account, bool, error) {
	db := r.client.DB().WithContext(ctx)
	if !db.Migrator().HasTable(&sqlAccount{}) {
		return nil, false, nil
	}

	var rows []sqlAccount
	if err := db.Order("position").Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("load ledger accounts: %w", err)
	}
	return toAccounts(rows), true, nil
}

// SaveAccounts 在同一個 Transaction 內清空資料表並寫入完整帳本
func (r *Repository) SaveAccounts(ctx context.Context, accounts []*domain.Account) error {
	rows := toRows(accounts)
	err := r.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !tx.Migrator().HasTable(&sqlAccount{}) {
			if err := tx.Migrator().CreateTable(&sqlAccount{}); err != nil {
				return err
			}
		}
		// 整表覆寫，不做部分更新
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&sqlAccount{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return &domain.PersistenceError{Op: "write " + r.Source(), Err: err}
	}
	return nil
}

func toRows(accounts []*domain.Account) []sqlAccount {
	rows := make([]sqlAccount, 0, len(accounts))
	for i, account := range accounts {
		rows = append(rows, sqlAccount{
			Numero:   account.Number,
			Position: i,
			Nombre:   account.Name,
			Saldo:    account.Balance,
		})
	}
	return rows
}

func toAccounts(rows []sqlAccount) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, domain.NewAccount(row.Numero, row.Nombre, row.Saldo))
	}
	return accounts
}

var _ usecase.AccountRepository = (*Repository)(nil)
