package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
	"github.com/nspcc-dev/vault-contract/common"
)

const (
	// ErrInvalidAmount is thrown when a quantity or a slippage floor is zero,
	// negative or otherwise malformed.
	ErrInvalidAmount = "invalid amount"
	// ErrInvalidToken is thrown when a token script hash has wrong length.
	ErrInvalidToken = "invalid token script hash"
	// ErrReservedToken is thrown on an attempt to whitelist an asset that
	// already has a dedicated deposit path.
	ErrReservedToken = "token has a dedicated deposit path"
	// ErrTokenNotSupported is thrown when the asset is not whitelisted.
	ErrTokenNotSupported = "token is not supported"
	// ErrWithdrawalLimitExceeded is thrown when a single withdrawal exceeds
	// the per-operation ceiling.
	ErrWithdrawalLimitExceeded = "withdrawal limit exceeded"
	// ErrInsufficientBalance is thrown when a debit exceeds the credited
	// balance of the account.
	ErrInsufficientBalance = "insufficient balance"
	// ErrCapacityExceeded is thrown when a credit would push total deposits
	// over the bank capacity cap.
	ErrCapacityExceeded = "bank capacity exceeded"
	// ErrDirectTransfer is thrown on incoming token transfers that are not
	// part of a deposit operation.
	ErrDirectTransfer = "direct transfers are not allowed"
	// ErrSwapShortfall is thrown when the exchange router delivered less of
	// the unit-of-account token than the caller's slippage floor.
	ErrSwapShortfall = "swap output below required minimum"
)

const (
	managerKey       = "manager"
	usdTokenKey      = "usdToken"
	swapRouterKey    = "swapRouter"
	withdrawLimitKey = "withdrawLimit"
	bankCapKey       = "bankCap"
	totalDepositsKey = "totalDeposits"
	tokenListKey     = "supportedTokenList"
)

const (
	balancePrefix         = 'b'
	depositCountPrefix    = 'd'
	withdrawalCountPrefix = 'w'
	supportedTokenPrefix  = 's'
)

// nolint:deadcode,unused
func _deploy(data interface{}, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		manager       interop.Hash160
		usdToken      interop.Hash160
		swapRouter    interop.Hash160
		withdrawLimit int
		bankCap       int
	})

	if len(args.manager) != interop.Hash160Len {
		panic("incorrect length of manager script hash")
	}
	if len(args.usdToken) != interop.Hash160Len || len(args.swapRouter) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}
	if common.BytesEqual(args.usdToken, args.swapRouter) {
		panic("usd token and swap router must differ")
	}
	if args.withdrawLimit <= 0 || args.bankCap <= 0 {
		panic("withdraw limit and bank cap must be positive")
	}
	if args.withdrawLimit > args.bankCap {
		panic("withdraw limit above bank cap")
	}

	storage.Put(ctx, managerKey, args.manager)
	storage.Put(ctx, usdTokenKey, args.usdToken)
	storage.Put(ctx, swapRouterKey, args.swapRouter)
	storage.Put(ctx, withdrawLimitKey, args.withdrawLimit)
	storage.Put(ctx, bankCapKey, args.bankCap)
	storage.Put(ctx, totalDepositsKey, 0)
	common.SetSerialized(ctx, tokenListKey, [][]byte{})

	runtime.Log("vault contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("vault contract updated")
}

// Deposit accepts amount of the given token from the depositor, converts it
// into the unit-of-account token through the exchange router and credits the
// realized value to the depositor's vault balance. GAS and the unit-of-account
// token itself are always accepted, any other token must be whitelisted first.
// A deposit of the unit-of-account token is credited as is, without a swap.
//
// amountOutMin is the minimum conversion output the depositor tolerates; it
// must be positive even for swapless deposits. The realized swap output is
// measured as the vault's own unit-of-account balance delta across the router
// call, the router's return value is never trusted.
//
// Produces DepositMade notification.
func Deposit(from interop.Hash160, token interop.Hash160, amount, amountOutMin int) {
	ctx := storage.GetContext()
	common.LockExecution(ctx)

	if len(token) != interop.Hash160Len {
		panic(ErrInvalidToken)
	}
	if amountOutMin <= 0 {
		panic(ErrInvalidAmount)
	}
	if amount <= 0 {
		panic(ErrInvalidAmount)
	}

	common.CheckOwnerWitness(from)

	usd := storage.Get(ctx, usdTokenKey).(interop.Hash160)
	self := runtime.GetExecutingScriptHash()

	var usdValue int
	if common.BytesEqual(token, usd) {
		pull(usd, from, self, amount)
		usdValue = amount
	} else {
		if !common.BytesEqual(token, interop.Hash160(gas.Hash)) && !isSupported(ctx, token) {
			panic(ErrTokenNotSupported)
		}
		pull(token, from, self, amount)
		usdValue = swapToUSD(ctx, token, amount, amountOutMin)
	}

	credit(ctx, from, usdValue)

	runtime.Notify("DepositMade", from, token, amount, usdValue)
	common.UnlockExecution(ctx)
}

// Withdraw debits amount from the caller's vault balance and transfers the
// same amount of the unit-of-account token to the caller. Amount must be
// positive, within the per-operation withdrawal limit and within the credited
// balance. A failed payout faults the transaction, so the debit never outlives
// a transfer that did not happen.
//
// Produces WithdrawalMade notification.
func Withdraw(from interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.LockExecution(ctx)

	common.CheckOwnerWitness(from)

	if amount <= 0 {
		panic(ErrInvalidAmount)
	}
	if amount > storage.Get(ctx, withdrawLimitKey).(int) {
		panic(ErrWithdrawalLimitExceeded)
	}

	debit(ctx, from, amount)

	usd := storage.Get(ctx, usdTokenKey).(interop.Hash160)
	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(usd, "transfer", contract.All, self, from, amount, nil).(bool)
	if !ok {
		panic("withdraw: failed to transfer funds, aborting")
	}

	runtime.Notify("WithdrawalMade", from, amount)
	common.UnlockExecution(ctx)
}

// AddSupportedToken adds the token to the set of assets accepted for deposit.
// Can be invoked only by the vault manager. Adding an already supported token
// is a no-op. GAS and the unit-of-account token cannot be whitelisted, they
// have dedicated deposit paths.
//
// Produces TokenSupported notification on first addition.
func AddSupportedToken(token interop.Hash160) {
	ctx := storage.GetContext()
	common.LockExecution(ctx)

	checkManagerWitness(ctx)

	if len(token) != interop.Hash160Len {
		panic(ErrInvalidToken)
	}
	usd := storage.Get(ctx, usdTokenKey).(interop.Hash160)
	if common.BytesEqual(token, usd) || common.BytesEqual(token, interop.Hash160(gas.Hash)) {
		panic(ErrReservedToken)
	}

	if !isSupported(ctx, token) {
		storage.Put(ctx, supportedTokenKey(token), []byte{1})

		tokens := common.GetList(ctx, tokenListKey)
		tokens = append(tokens, token)
		common.SetSerialized(ctx, tokenListKey, tokens)

		runtime.Notify("TokenSupported", token)
	}

	common.UnlockExecution(ctx)
}

// RemoveSupportedToken removes the token from the set of assets accepted for
// deposit. Can be invoked only by the vault manager. Removing an unsupported
// token is an error.
//
// Produces TokenUnsupported notification.
func RemoveSupportedToken(token interop.Hash160) {
	ctx := storage.GetContext()
	common.LockExecution(ctx)

	checkManagerWitness(ctx)

	if len(token) != interop.Hash160Len {
		panic(ErrInvalidToken)
	}
	if !isSupported(ctx, token) {
		panic(ErrTokenNotSupported)
	}

	storage.Delete(ctx, supportedTokenKey(token))

	// Enumeration order is not guaranteed, so the gap left by the removed
	// entry is filled with the last one.
	tokens := common.GetList(ctx, tokenListKey)
	for i := 0; i < len(tokens); i++ {
		if common.BytesEqual(tokens[i], token) {
			tokens[i] = tokens[len(tokens)-1]
			util.Remove(tokens, len(tokens)-1)
			break
		}
	}
	common.SetSerialized(ctx, tokenListKey, tokens)

	runtime.Notify("TokenUnsupported", token)
	common.UnlockExecution(ctx)
}

// OnNEP17Payment is a callback accepting incoming token transfers. The vault
// takes value only through its own pulls and swap deliveries, both of which
// happen while the execution lock is held. Any other transfer is rejected.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	if !common.ExecutionLocked(ctx) {
		panic(ErrDirectTransfer)
	}
}

// BalanceOf returns the vault balance of the account in the smallest units of
// the unit-of-account token.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, balanceKey(account))
}

// TotalDeposits returns the sum of all vault balances.
func TotalDeposits() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, totalDepositsKey)
}

// DepositCountOf returns the number of successful deposits made by the account.
func DepositCountOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, depositCountKey(account))
}

// WithdrawalCountOf returns the number of successful withdrawals made by the
// account.
func WithdrawalCountOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, withdrawalCountKey(account))
}

// IsTokenSupported returns true if the token is whitelisted for deposits.
func IsTokenSupported(token interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return isSupported(ctx, token)
}

// SupportedTokens returns script hashes of all whitelisted tokens. The order
// of the result is not defined.
func SupportedTokens() [][]byte {
	ctx := storage.GetReadOnlyContext()
	return common.GetList(ctx, tokenListKey)
}

// BankCap returns the global capacity cap of the vault.
func BankCap() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, bankCapKey).(int)
}

// WithdrawLimit returns the per-operation withdrawal ceiling.
func WithdrawLimit() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, withdrawLimitKey).(int)
}

// UsdToken returns the script hash of the unit-of-account token.
func UsdToken() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, usdTokenKey).(interop.Hash160)
}

// SwapRouter returns the script hash of the exchange router contract.
func SwapRouter() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, swapRouterKey).(interop.Hash160)
}

// Manager returns the script hash of the account holding the manager
// capability.
func Manager() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, managerKey).(interop.Hash160)
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

// credit adds amount to the account balance and to the total in one step, so
// the sum of balances always equals the total.
func credit(ctx storage.Context, account interop.Hash160, amount int) {
	total := common.GetIntOrZero(ctx, totalDepositsKey)
	if total+amount > storage.Get(ctx, bankCapKey).(int) {
		panic(ErrCapacityExceeded)
	}

	key := balanceKey(account)
	storage.Put(ctx, key, common.GetIntOrZero(ctx, key)+amount)
	storage.Put(ctx, totalDepositsKey, total+amount)

	cntKey := depositCountKey(account)
	storage.Put(ctx, cntKey, common.GetIntOrZero(ctx, cntKey)+1)
}

// debit removes amount from the account balance and from the total in one
// step, the counterpart of credit.
func debit(ctx storage.Context, account interop.Hash160, amount int) {
	key := balanceKey(account)
	balance := common.GetIntOrZero(ctx, key)
	if balance < amount {
		panic(ErrInsufficientBalance)
	}

	if balance == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance-amount)
	}
	storage.Put(ctx, totalDepositsKey, common.GetIntOrZero(ctx, totalDepositsKey)-amount)

	cntKey := withdrawalCountKey(account)
	storage.Put(ctx, cntKey, common.GetIntOrZero(ctx, cntKey)+1)
}

// swapToUSD converts amountIn of the token held by the vault into the
// unit-of-account token through the exchange router. The input is transferred
// to the router first, then the router is asked to deliver at least
// amountOutMin of the output token back. The realized output is the vault's
// observed balance delta.
func swapToUSD(ctx storage.Context, token interop.Hash160, amountIn, amountOutMin int) int {
	usd := storage.Get(ctx, usdTokenKey).(interop.Hash160)
	router := storage.Get(ctx, swapRouterKey).(interop.Hash160)
	self := runtime.GetExecutingScriptHash()

	before := contract.Call(usd, "balanceOf", contract.ReadOnly, self).(int)

	pull(token, self, router, amountIn)
	contract.Call(router, "swapTokenInForTokenOut", contract.All, token, usd, amountIn, amountOutMin)

	after := contract.Call(usd, "balanceOf", contract.ReadOnly, self).(int)
	received := after - before
	if received < amountOutMin {
		panic(ErrSwapShortfall)
	}

	return received
}

// pull transfers amount of the token between the given accounts, aborting the
// whole operation if the token reports failure.
func pull(token, from, to interop.Hash160, amount int) {
	ok := contract.Call(token, "transfer", contract.All, from, to, amount, nil).(bool)
	if !ok {
		panic("deposit: failed to transfer funds, aborting")
	}
}

func checkManagerWitness(ctx storage.Context) {
	manager := storage.Get(ctx, managerKey).(interop.Hash160)
	common.CheckManagerWitness(manager)
}

func isSupported(ctx storage.Context, token interop.Hash160) bool {
	return storage.Get(ctx, supportedTokenKey(token)) != nil
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func depositCountKey(account interop.Hash160) []byte {
	return append([]byte{depositCountPrefix}, account...)
}

func withdrawalCountKey(account interop.Hash160) []byte {
	return append([]byte{withdrawalCountPrefix}, account...)
}

func supportedTokenKey(token interop.Hash160) []byte {
	return append([]byte{supportedTokenPrefix}, token...)
}
