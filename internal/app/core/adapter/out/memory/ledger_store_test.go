package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
)

// fakeRepo 記錄 SaveAccounts 呼叫，可設定回傳錯誤
type fakeRepo struct {
	accounts []*domain.Account
	found    bool
	loadErr  error
	saveErr  error
	saves    int
	saved    []domain.Account
}

func (f *fakeRepo) LoadAccounts(ctx context.Context) ([]*domain.Account, bool, error) {
	return f.accounts, f.found, f.loadErr
}

func (f *fakeRepo) SaveAccounts(ctx context.Context, accounts []*domain.Account) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = f.saved[:0]
	for _, a := range accounts {
		f.saved = append(f.saved, *a)
	}
	return nil
}

func (f *fakeRepo) Source() string {
	return "fake"
}

func TestLoadSeedsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuentas.json")
	repo := file.NewRepository(path, nil)
	ctx := context.Background()

	s := NewLedgerStore(repo, nil)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []domain.Account{
		{Number: 1, Name: "Cuenta A", Balance: 1000},
		{Number: 2, Name: "Cuenta B", Balance: 2000},
		{Number: 3, Name: "Cuenta C", Balance: 1500},
	}
	got := s.List()
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("account %d = %+v want %+v", i, got[i], want[i])
		}
	}

	// 檔案已寫入
	persisted, found, err := repo.LoadAccounts(ctx)
	if err != nil || !found {
		t.Fatalf("seed not persisted: found=%v err=%v", found, err)
	}
	if len(persisted) != 3 {
		t.Fatalf("persisted=%d want 3", len(persisted))
	}
}

func TestLoadExisting(t *testing.T) {
	repo := &fakeRepo{
		found:    true,
		accounts: []*domain.Account{domain.NewAccount(9, "x", 5), domain.NewAccount(4, "y", 6)},
	}
	s := NewLedgerStore(repo, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.saves != 0 {
		t.Fatalf("existing ledger must not be rewritten on load, saves=%d", repo.saves)
	}
	got := s.List()
	if len(got) != 2 || got[0].Number != 9 || got[1].Number != 4 {
		t.Fatalf("order not preserved: %+v", got)
	}
}

func TestLoadRejectsCorruptLedger(t *testing.T) {
	repo := &fakeRepo{
		found:    true,
		accounts: []*domain.Account{domain.NewAccount(1, "x", 5), domain.NewAccount(1, "y", 6)},
	}
	err := NewLedgerStore(repo, nil).Load(context.Background())
	var corrupt *domain.CorruptDataError
	if !errors.As(err, &corrupt) {
		t.Fatalf("want CorruptDataError, got %v", err)
	}
	if corrupt.Source != "fake" {
		t.Fatalf("source=%q want fake", corrupt.Source)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantIndex int
		wantField string
	}{
		{
			name:      "negative saldo",
			content:   `[{"numero": 1, "nombre": "a", "saldo": -1}]`,
			wantIndex: 0,
			wantField: "saldo",
		},
		{
			name:      "duplicate numero",
			content:   `[{"numero": 1, "nombre": "a", "saldo": 1}, {"numero": 1, "nombre": "b", "saldo": 2}]`,
			wantIndex: 1,
			wantField: "numero",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cuentas.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			err := NewLedgerStore(file.NewRepository(path, nil), nil).Load(context.Background())
			var corrupt *domain.CorruptDataError
			if !errors.As(err, &corrupt) {
				t.Fatalf("want CorruptDataError, got %v", err)
			}
			if corrupt.Source != path || corrupt.Index != tt.wantIndex || corrupt.Field != tt.wantField {
				t.Fatalf("source=%q index=%d field=%q (%v)", corrupt.Source, corrupt.Index, corrupt.Field, err)
			}

			// 損毀的檔案不可被覆寫
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.content {
				t.Fatalf("file rewritten: %q", data)
			}
		})
	}
}

func TestLoadPropagatesRepositoryError(t *testing.T) {
	loadErr := errors.New("permission denied")
	err := NewLedgerStore(&fakeRepo{loadErr: loadErr}, nil).Load(context.Background())
	if !errors.Is(err, loadErr) {
		t.Fatalf("want %v, got %v", loadErr, err)
	}
}

func TestSeedSaveFailure(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("read-only file system")}
	err := NewLedgerStore(repo, nil).Load(context.Background())
	var persistErr *domain.PersistenceError
	if !errors.As(err, &persistErr) {
		t.Fatalf("want PersistenceError, got %v", err)
	}
}

func TestFind(t *testing.T) {
	s := NewLedgerStore(&fakeRepo{}, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	a, err := s.Find(2)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "Cuenta B" {
		t.Fatalf("got %+v", a)
	}

	for _, n := range []int64{0, 4, -1} {
		if _, err := s.Find(n); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("Find(%d) want ErrAccountNotFound, got %v", n, err)
		}
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := NewLedgerStore(&fakeRepo{}, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	list := s.List()
	list[0].Balance = -999

	a, _ := s.Find(1)
	if a.Balance != 1000 {
		t.Fatalf("List must not expose internal state, balance=%d", a.Balance)
	}
}

func TestSaveWritesFullLedger(t *testing.T) {
	repo := &fakeRepo{}
	s := NewLedgerStore(repo, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	a, _ := s.Find(3)
	a.Balance = 1
	if err := s.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(repo.saved) != 3 || repo.saved[2].Balance != 1 {
		t.Fatalf("saved=%+v", repo.saved)
	}
}
