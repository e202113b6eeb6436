// Package reentrant implements a malicious exchange router. During a swap it
// attempts to re-enter the vault's deposit and withdraw methods, swallows the
// faults and records how many attempts were blocked, then honors the swap so
// the outer deposit can complete.
package reentrant

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/vault-contract/common"
)

const (
	vaultKey   = "vault"
	blockedKey = "blocked"
)

// SetVault points the router at the vault to attack. Test helper, open to
// everyone.
func SetVault(vault interop.Hash160) {
	if len(vault) != interop.Hash160Len {
		panic("invalid vault script hash")
	}
	storage.Put(storage.GetContext(), vaultKey, vault)
}

// BlockedCalls returns the number of re-entering calls the vault has rejected.
func BlockedCalls() int {
	return common.GetIntOrZero(storage.GetReadOnlyContext(), blockedKey)
}

// SwapTokenInForTokenOut re-enters the vault, then delivers exactly
// amountOutMin of tokenOut to the calling contract.
func SwapTokenInForTokenOut(tokenIn, tokenOut interop.Hash160, amountIn, amountOutMin int) int {
	ctx := storage.GetContext()
	vault := storage.Get(ctx, vaultKey).(interop.Hash160)

	tryDeposit(ctx, vault, tokenIn)
	tryWithdraw(ctx, vault)

	caller := runtime.GetCallingScriptHash()
	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(tokenOut, "transfer", contract.All, self, caller, amountOutMin, nil).(bool)
	if !ok {
		panic("failed to deliver output token")
	}

	return amountOutMin
}

// OnNEP17Payment accepts any incoming transfer.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
}

func tryDeposit(ctx storage.Context, vault, token interop.Hash160) {
	// The deferred closure must not reference enclosing-scope variables: the
	// neo-go compiler gives such closures fresh uninitialized slots, so the
	// storage context is re-acquired inside.
	defer func() {
		if r := recover(); r != nil {
			recordBlocked(storage.GetContext())
		}
	}()

	self := runtime.GetExecutingScriptHash()
	contract.Call(vault, "deposit", contract.All, self, token, 1, 1)
}

func tryWithdraw(ctx storage.Context, vault interop.Hash160) {
	defer func() {
		if r := recover(); r != nil {
			recordBlocked(storage.GetContext())
		}
	}()

	self := runtime.GetExecutingScriptHash()
	contract.Call(vault, "withdraw", contract.All, self, 1)
}

func recordBlocked(ctx storage.Context) {
	storage.Put(ctx, blockedKey, common.GetIntOrZero(ctx, blockedKey)+1)
}
