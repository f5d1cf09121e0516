package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-file-ledger/pkg/snapshot"
)

// 檔案中每筆帳戶紀錄的欄位名稱
const (
	fieldNumero = "numero"
	fieldNombre = "nombre"
	fieldSaldo  = "saldo"
)

// jsonAccount 對應檔案中的一筆帳戶紀錄
type jsonAccount struct {
	Numero int64  `json:"numero"`
	Nombre string `json:"nombre"`
	Saldo  int64  `json:"saldo"`
}

// Repository 以單一 JSON 檔案保存整個帳本
// 檔案內容為帳戶陣列，每次保存都整檔覆寫
type Repository struct {
	path   string
	logger *zap.Logger
}

func NewRepository(path string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		path:   path,
		logger: logger,
	}
}

// Source implements usecase.AccountRepository.
func (r *Repository) Source() string {
	return r.path
}

// LoadAccounts 讀取並驗證帳本檔案
//
// 回傳:
//
//	[]*domain.Account: 依檔案順序排列的帳戶
//	bool: 檔案是否存在
//	error: 讀取錯誤，格式不符時為 *domain.CorruptDataError
func (r *Repository) LoadAccounts(ctx context.Context) ([]*domain.Account, bool, error) {
	data, found, err := snapshot.Read(r.path)
	if err != nil {
		return nil, false, fmt.Errorf("read ledger file %s: %w", r.path, err)
	}
	if !found {
		r.logger.Debug("ledger file not found", zap.String("path", r.path))
		return nil, false, nil
	}

	accounts, err := decodeAccounts(r.path, data)
	if err != nil {
		return nil, true, err
	}
	return accounts, true, nil
}

// SaveAccounts 將完整帳本寫入檔案
func (r *Repository) SaveAccounts(ctx context.Context, accounts []*domain.Account) error {
	records := make([]jsonAccount, 0, len(accounts))
	for _, account := range accounts {
		records = append(records, jsonAccount{
			Numero: account.Number,
			Nombre: account.Name,
			Saldo:  account.Balance,
		})
	}
	if err := snapshot.WriteJSON(r.path, records); err != nil {
		return &domain.PersistenceError{Op: "write " + r.path, Err: err}
	}
	r.logger.Debug("ledger file written", zap.String("path", r.path), zap.Int("count", len(records)))
	return nil
}

// decodeAccounts 明確驗證每一筆紀錄的欄位與型別，不信任輸入
// 編號重複、餘額為負等帳本層級的檢查由 LedgerStore.Load 負責
func decodeAccounts(source string, data []byte) ([]*domain.Account, error) {
	var raws []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &domain.CorruptDataError{Source: source, Index: -1, Err: err}
	}
	if raws == nil {
		return nil, &domain.CorruptDataError{Source: source, Index: -1, Err: errors.New("want an array of accounts")}
	}

	accounts := make([]*domain.Account, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			return nil, &domain.CorruptDataError{Source: source, Index: i, Err: errors.New("record is not an object")}
		}
		if extra := unknownFields(raw); len(extra) > 0 {
			return nil, &domain.CorruptDataError{
				Source: source,
				Index:  i,
				Err:    fmt.Errorf("unknown fields %s", strings.Join(extra, ", ")),
			}
		}

		numero, err := intField(raw, fieldNumero)
		if err != nil {
			return nil, &domain.CorruptDataError{Source: source, Index: i, Field: fieldNumero, Err: err}
		}
		nombre, err := stringField(raw, fieldNombre)
		if err != nil {
			return nil, &domain.CorruptDataError{Source: source, Index: i, Field: fieldNombre, Err: err}
		}
		saldo, err := intField(raw, fieldSaldo)
		if err != nil {
			return nil, &domain.CorruptDataError{Source: source, Index: i, Field: fieldSaldo, Err: err}
		}
		accounts = append(accounts, domain.NewAccount(numero, nombre, saldo))
	}
	return accounts, nil
}

func unknownFields(raw map[string]json.RawMessage) []string {
	var extra []string
	for key := range raw {
		switch key {
		case fieldNumero, fieldNombre, fieldSaldo:
		default:
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return extra
}

// intField 讀取整數欄位，允許 1500.0 這種沒有小數部分的數字
func intField(raw map[string]json.RawMessage, key string) (int64, error) {
	value, err := field(raw, key)
	if err != nil {
		return 0, err
	}
	n, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("want integer, got %s", raw[key])
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("want integer, got %s", n)
	}
	return int64(f), nil
}

func stringField(raw map[string]json.RawMessage, key string) (string, error) {
	value, err := field(raw, key)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("want string, got %s", raw[key])
	}
	return s, nil
}

func field(raw map[string]json.RawMessage, key string) (any, error) {
	msg, ok := raw[key]
	if !ok {
		return nil, errors.New("missing")
	}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

var _ usecase.AccountRepository = (*Repository)(nil)
