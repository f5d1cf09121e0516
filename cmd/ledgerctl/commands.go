package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	grpc_adapter "github.com/JoeShih716/go-file-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-file-ledger/internal/app/core/domain"
)

var errUsage = errors.New("invalid arguments")

// ledgerAPI *grpc_adapter.LedgerClient 的子集，測試時可替換
type ledgerAPI interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, number int64) (domain.Account, error)
	Deposit(ctx context.Context, number, amount int64) (*grpc_adapter.TransactionResult, error)
	Withdraw(ctx context.Context, number, amount int64) (*grpc_adapter.TransactionResult, error)
}

type clientAdapter struct {
	c *grpc_adapter.LedgerClient
}

func (a clientAdapter) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return a.c.ListAccounts(ctx)
}

func (a clientAdapter) GetAccount(ctx context.Context, number int64) (domain.Account, error) {
	return a.c.GetAccount(ctx, number)
}

func (a clientAdapter) Deposit(ctx context.Context, number, amount int64) (*grpc_adapter.TransactionResult, error) {
	return a.c.Deposit(ctx, number, amount)
}

func (a clientAdapter) Withdraw(ctx context.Context, number, amount int64) (*grpc_adapter.TransactionResult, error) {
	return a.c.Withdraw(ctx, number, amount)
}

func run(ctx context.Context, client *grpc_adapter.LedgerClient, args []string, out io.Writer) error {
	return runWith(ctx, clientAdapter{c: client}, args, out)
}

func runWith(ctx context.Context, api ledgerAPI, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "list":
		if len(args) != 1 {
			return errUsage
		}
		accounts, err := api.ListAccounts(ctx)
		if err != nil {
			return err
		}
		printAccounts(out, accounts)
		return nil

	case "get":
		if len(args) != 2 {
			return errUsage
		}
		number, err := parseNumber(args[1])
		if err != nil {
			return err
		}
		account, err := api.GetAccount(ctx, number)
		if err != nil {
			return err
		}
		printAccounts(out, []domain.Account{account})
		return nil

	case "deposit", "withdraw":
		if len(args) != 3 {
			return errUsage
		}
		number, err := parseNumber(args[1])
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		var result *grpc_adapter.TransactionResult
		if args[0] == "deposit" {
			result, err = api.Deposit(ctx, number, amount)
		} else {
			result, err = api.Withdraw(ctx, number, amount)
		}
		if err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("%s failed: %s", args[0], result.Message)
		}
		fmt.Fprintf(out, "ok, saldo %d\n", result.Balance)
		return nil

	default:
		return errUsage
	}
}

func printAccounts(out io.Writer, accounts []domain.Account) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMERO\tNOMBRE\tSALDO")
	for _, a := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%d\n", a.Number, a.Name, a.Balance)
	}
	w.Flush()
}

func parseNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid account number %q", s)
	}
	return n, nil
}

// parseAmount 只接受非負整數，與原本畫面上的輸入過濾一致
// 0 交給 server 判斷
func parseAmount(s string) (int64, error) {
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: must be a non-negative integer", s)
	}
	return int64(n), nil
}
