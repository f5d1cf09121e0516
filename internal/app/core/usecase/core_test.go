package usecase_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/usecase"
)

// flakyRepo 包裝真正的檔案儲存，failSave 為 true 時寫入失敗
type flakyRepo struct {
	*file.Repository
	failSave bool
}

func (r *flakyRepo) SaveAccounts(ctx context.Context, accounts []*domain.Account) error {
	if r.failSave {
		return &domain.PersistenceError{Op: "write", Err: errors.New("no space left on device")}
	}
	return r.Repository.SaveAccounts(ctx, accounts)
}

func newCore(t *testing.T) (*usecase.CoreUseCase, *flakyRepo, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cuentas.json")
	repo := &flakyRepo{Repository: file.NewRepository(path, nil)}
	store := memory.NewLedgerStore(repo, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return usecase.NewCoreUseCase(store, nil), repo, path
}

func balance(t *testing.T, c *usecase.CoreUseCase, number int64) int64 {
	t.Helper()
	a, err := c.GetAccount(context.Background(), number)
	if err != nil {
		t.Fatalf("GetAccount(%d): %v", number, err)
	}
	return a.Balance
}

func persistedBalance(t *testing.T, path string, number int64) int64 {
	t.Helper()
	accounts, found, err := file.NewRepository(path, nil).LoadAccounts(context.Background())
	if err != nil || !found {
		t.Fatalf("reload: found=%v err=%v", found, err)
	}
	for _, a := range accounts {
		if a.Number == number {
			return a.Balance
		}
	}
	t.Fatalf("account %d not persisted", number)
	return 0
}

func TestDepositWithdraw(t *testing.T) {
	c, _, path := newCore(t)
	ctx := context.Background()

	a, err := c.Deposit(ctx, 1, 250)
	if err != nil {
		t.Fatal(err)
	}
	if a.Balance != 1250 {
		t.Fatalf("balance=%d want 1250", a.Balance)
	}
	if got := persistedBalance(t, path, 1); got != 1250 {
		t.Fatalf("persisted=%d want 1250", got)
	}

	a, err = c.Withdraw(ctx, 2, 2000)
	if err != nil {
		t.Fatal(err)
	}
	if a.Balance != 0 {
		t.Fatalf("balance=%d want 0", a.Balance)
	}
	if got := persistedBalance(t, path, 2); got != 0 {
		t.Fatalf("persisted=%d want 0", got)
	}
}

func TestDepositThenWithdrawRestoresBalance(t *testing.T) {
	c, _, _ := newCore(t)
	ctx := context.Background()

	for _, amt := range []int64{1, 77, 1500, 1 << 40} {
		before := balance(t, c, 3)
		if _, err := c.Deposit(ctx, 3, amt); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Withdraw(ctx, 3, amt); err != nil {
			t.Fatal(err)
		}
		if after := balance(t, c, 3); after != before {
			t.Fatalf("amount %d: balance=%d want %d", amt, after, before)
		}
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	c, _, path := newCore(t)

	_, err := c.Withdraw(context.Background(), 1, 1001)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("want ErrInsufficientBalance, got %v", err)
	}
	if got := balance(t, c, 1); got != 1000 {
		t.Fatalf("balance=%d want 1000", got)
	}
	if got := persistedBalance(t, path, 1); got != 1000 {
		t.Fatalf("persisted=%d want 1000", got)
	}
}

func TestInvalidAmount(t *testing.T) {
	c, _, _ := newCore(t)
	ctx := context.Background()

	for _, amt := range []int64{0, -1, -1000} {
		if _, err := c.Deposit(ctx, 1, amt); !errors.Is(err, domain.ErrAmountMustBePositive) {
			t.Fatalf("Deposit(%d) want ErrAmountMustBePositive, got %v", amt, err)
		}
		if _, err := c.Withdraw(ctx, 1, amt); !errors.Is(err, domain.ErrAmountMustBePositive) {
			t.Fatalf("Withdraw(%d) want ErrAmountMustBePositive, got %v", amt, err)
		}
		// 帳戶不存在時仍先回報金額錯誤
		if _, err := c.Deposit(ctx, 99, amt); !errors.Is(err, domain.ErrAmountMustBePositive) {
			t.Fatalf("Deposit(99, %d) want ErrAmountMustBePositive, got %v", amt, err)
		}
	}
	if got := balance(t, c, 1); got != 1000 {
		t.Fatalf("balance=%d want 1000", got)
	}
}

func TestUnknownAccount(t *testing.T) {
	c, _, _ := newCore(t)
	ctx := context.Background()

	if _, err := c.Deposit(ctx, 99, 10); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
	if _, err := c.Withdraw(ctx, 99, 10); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
	if _, err := c.GetAccount(ctx, 99); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	c, repo, path := newCore(t)
	ctx := context.Background()

	repo.failSave = true
	_, err := c.Deposit(ctx, 1, 500)
	var persistErr *domain.PersistenceError
	if !errors.As(err, &persistErr) {
		t.Fatalf("want PersistenceError, got %v", err)
	}
	_, err = c.Withdraw(ctx, 2, 500)
	if !errors.As(err, &persistErr) {
		t.Fatalf("want PersistenceError, got %v", err)
	}

	// 記憶體與檔案都維持原狀
	if got := balance(t, c, 1); got != 1000 {
		t.Fatalf("in-memory balance=%d want 1000", got)
	}
	if got := balance(t, c, 2); got != 2000 {
		t.Fatalf("in-memory balance=%d want 2000", got)
	}
	if got := persistedBalance(t, path, 1); got != 1000 {
		t.Fatalf("persisted=%d want 1000", got)
	}

	// 恢復後可正常交易
	repo.failSave = false
	if _, err := c.Deposit(ctx, 1, 500); err != nil {
		t.Fatal(err)
	}
	if got := persistedBalance(t, path, 1); got != 1500 {
		t.Fatalf("persisted=%d want 1500", got)
	}
}

func TestListAccountsOrder(t *testing.T) {
	c, _, _ := newCore(t)
	accounts := c.ListAccounts(context.Background())
	if len(accounts) != 3 {
		t.Fatalf("len=%d want 3", len(accounts))
	}
	for i, a := range accounts {
		if a.Number != int64(i+1) {
			t.Fatalf("accounts[%d].Number=%d", i, a.Number)
		}
	}
}

func TestBalancesNeverNegative(t *testing.T) {
	c, _, _ := newCore(t)
	ctx := context.Background()

	// 固定序列的混合操作，含許多失敗的提款
	ops := []struct {
		deposit bool
		number  int64
		amount  int64
	}{
		{false, 1, 600}, {false, 1, 600}, {true, 1, 50}, {false, 1, 450},
		{false, 2, 1}, {false, 2, 2500}, {true, 3, 1}, {false, 3, 1501},
		{false, 3, 1502}, {true, 2, 10}, {false, 2, 2009}, {false, 2, 2},
		{true, 1, math.MaxInt64}, {true, 3, math.MaxInt64}, {true, 3, 1},
		{true, 3, math.MaxInt64 - 1}, {true, 3, 1},
	}
	for _, op := range ops {
		if op.deposit {
			_, _ = c.Deposit(ctx, op.number, op.amount)
		} else {
			_, _ = c.Withdraw(ctx, op.number, op.amount)
		}
		for _, a := range c.ListAccounts(ctx) {
			if a.Balance < 0 {
				t.Fatalf("account %d negative balance %d", a.Number, a.Balance)
			}
		}
	}
}

func TestDepositOverflowRejected(t *testing.T) {
	c, _, path := newCore(t)
	ctx := context.Background()

	for _, amt := range []int64{math.MaxInt64, math.MaxInt64 - 1000 + 1} {
		if _, err := c.Deposit(ctx, 1, amt); !errors.Is(err, domain.ErrBalanceOverflow) {
			t.Fatalf("Deposit(%d) want ErrBalanceOverflow, got %v", amt, err)
		}
		if got := balance(t, c, 1); got != 1000 {
			t.Fatalf("balance=%d want 1000", got)
		}
		if got := persistedBalance(t, path, 1); got != 1000 {
			t.Fatalf("persisted=%d want 1000", got)
		}
	}

	// 到達上限的帳本仍可重新載入
	a, err := c.Deposit(ctx, 1, math.MaxInt64-1000)
	if err != nil {
		t.Fatal(err)
	}
	if a.Balance != math.MaxInt64 {
		t.Fatalf("balance=%d want %d", a.Balance, int64(math.MaxInt64))
	}
	store := memory.NewLedgerStore(file.NewRepository(path, nil), nil)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	reloaded, err := store.Find(1)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Balance != math.MaxInt64 {
		t.Fatalf("reloaded balance=%d want %d", reloaded.Balance, int64(math.MaxInt64))
	}
}

func TestConcurrentCallsSerialized(t *testing.T) {
	c, _, path := newCore(t)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := c.Deposit(ctx, 1, 2); err != nil {
				t.Errorf("deposit: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := balance(t, c, 1); got != 1000+2*workers {
		t.Fatalf("balance=%d want %d", got, 1000+2*workers)
	}
	if got := persistedBalance(t, path, 1); got != 1000+2*workers {
		t.Fatalf("persisted=%d want %d", got, 1000+2*workers)
	}
}
