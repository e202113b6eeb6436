// Package token implements a minimal NEP-17 token with an open mint method.
// It stands in for the unit-of-account token and for depositable assets in
// vault tests.
package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/vault-contract/common"
)

const (
	symbolKey   = "symbol"
	decimalsKey = "decimals"
	supplyKey   = "supply"

	balancePrefix = 'b'
)

// nolint:deadcode,unused
func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		symbol   string
		decimals int
	})

	ctx := storage.GetContext()
	storage.Put(ctx, symbolKey, args.symbol)
	storage.Put(ctx, decimalsKey, args.decimals)
	storage.Put(ctx, supplyKey, 0)
}

// Symbol is a NEP-17 standard method.
func Symbol() string {
	return storage.Get(storage.GetReadOnlyContext(), symbolKey).(string)
}

// Decimals is a NEP-17 standard method.
func Decimals() int {
	return storage.Get(storage.GetReadOnlyContext(), decimalsKey).(int)
}

// TotalSupply is a NEP-17 standard method.
func TotalSupply() int {
	return common.GetIntOrZero(storage.GetReadOnlyContext(), supplyKey)
}

// BalanceOf is a NEP-17 standard method.
func BalanceOf(account interop.Hash160) int {
	return common.GetIntOrZero(storage.GetReadOnlyContext(), balanceKey(account))
}

// Transfer is a NEP-17 standard method. The sender must either witness the
// transaction or be the calling contract.
func Transfer(from, to interop.Hash160, amount int, data interface{}) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid account")
	}
	if amount < 0 {
		panic("negative amount")
	}

	if !runtime.CheckWitness(from) && !common.BytesEqual(runtime.GetCallingScriptHash(), from) {
		return false
	}

	ctx := storage.GetContext()
	fromKey := balanceKey(from)
	balance := common.GetIntOrZero(ctx, fromKey)
	if balance < amount {
		return false
	}

	if balance == amount {
		storage.Delete(ctx, fromKey)
	} else {
		storage.Put(ctx, fromKey, balance-amount)
	}

	toKey := balanceKey(to)
	storage.Put(ctx, toKey, common.GetIntOrZero(ctx, toKey)+amount)

	runtime.Notify("Transfer", from, to, amount)
	postPayment(from, to, amount, data)

	return true
}

// Mint creates amount of tokens on the account out of thin air. Test helper,
// open to everyone.
func Mint(to interop.Hash160, amount int) {
	if len(to) != interop.Hash160Len {
		panic("invalid account")
	}
	if amount <= 0 {
		panic("non-positive amount")
	}

	ctx := storage.GetContext()
	toKey := balanceKey(to)
	storage.Put(ctx, toKey, common.GetIntOrZero(ctx, toKey)+amount)
	storage.Put(ctx, supplyKey, common.GetIntOrZero(ctx, supplyKey)+amount)

	runtime.Notify("Transfer", interop.Hash160(nil), to, amount)
	postPayment(nil, to, amount, nil)
}

func postPayment(from, to interop.Hash160, amount int, data interface{}) {
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}
