package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/vault-contract/common"
	"github.com/nspcc-dev/vault-contract/vault"
	"github.com/stretchr/testify/require"
)

const (
	vaultPath     = "../vault"
	tokenPath     = "../internal/testcontracts/token"
	assetPath     = "../internal/testcontracts/asset"
	routerPath    = "../internal/testcontracts/router"
	reentrantPath = "../internal/testcontracts/reentrant"
)

const (
	usdUnit = 1_000_000     // unit-of-account token has 6 decimals
	gasUnit = 1_0000_0000   // native GAS has 8 decimals
	tknUnit = 1_0000_0000   // test asset has 8 decimals

	defaultWithdrawLimit = 1_000 * usdUnit
	defaultBankCap       = 100_000 * usdUnit
)

type vaultEnv struct {
	e *neotest.Executor

	// vault is invoked with the committee signer holding the manager capability.
	vault  *neotest.ContractInvoker
	usd    *neotest.ContractInvoker
	asset  *neotest.ContractInvoker
	router *neotest.ContractInvoker

	vaultHash  util.Uint160
	usdHash    util.Uint160
	assetHash  util.Uint160
	routerHash util.Uint160
	gasHash    util.Uint160
}

func deployContract(t *testing.T, e *neotest.Executor, ctrPath string, args interface{}) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, ctrPath, path.Join(ctrPath, "config.yml"))
	e.DeployContract(t, c, args)
	return c.Hash
}

func newVaultEnv(t *testing.T, routerDir string) *vaultEnv {
	e := newExecutor(t)

	usdHash := deployContract(t, e, tokenPath, []interface{}{"TUSD", int64(6)})
	assetHash := deployContract(t, e, assetPath, nil)
	routerHash := deployContract(t, e, routerDir, nil)
	vaultHash := deployContract(t, e, vaultPath, []interface{}{
		e.CommitteeHash, usdHash, routerHash, int64(defaultWithdrawLimit), int64(defaultBankCap),
	})

	gasHash, err := e.Chain.GetNativeContractScriptHash(nativenames.Gas)
	require.NoError(t, err)

	return &vaultEnv{
		e:          e,
		vault:      e.CommitteeInvoker(vaultHash),
		usd:        e.CommitteeInvoker(usdHash),
		asset:      e.CommitteeInvoker(assetHash),
		router:     e.CommitteeInvoker(routerHash),
		vaultHash:  vaultHash,
		usdHash:    usdHash,
		assetHash:  assetHash,
		routerHash: routerHash,
		gasHash:    gasHash,
	}
}

// fundRouter gives the router a stash of the unit-of-account token to deliver
// swap outputs from.
func (env *vaultEnv) fundRouter(t *testing.T, amount int64) {
	env.usd.Invoke(t, stackitem.Null{}, "mint", env.routerHash, amount)
}

func (env *vaultEnv) mintUSD(t *testing.T, to util.Uint160, amount int64) {
	env.usd.Invoke(t, stackitem.Null{}, "mint", to, amount)
}

func (env *vaultEnv) mintAsset(t *testing.T, to util.Uint160, amount int64) {
	env.asset.Invoke(t, stackitem.Null{}, "mint", to, amount)
}

func (env *vaultEnv) setRate(t *testing.T, token util.Uint160, num, den int64) {
	env.router.Invoke(t, stackitem.Null{}, "setRate", token, num, den)
}

func (env *vaultEnv) whitelistAsset(t *testing.T) {
	env.vault.Invoke(t, stackitem.Null{}, "addSupportedToken", env.assetHash)
}

func (env *vaultEnv) readInt(t *testing.T, c *neotest.ContractInvoker, method string, args ...interface{}) int64 {
	res, err := c.TestInvoke(t, method, args...)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

// checkConservation verifies that the sum of the given account balances equals
// both the total-deposits counter and the vault's actual unit-of-account
// holdings.
func (env *vaultEnv) checkConservation(t *testing.T, accounts ...util.Uint160) {
	total := env.readInt(t, env.vault, "totalDeposits")

	var sum int64
	for _, acc := range accounts {
		sum += env.readInt(t, env.vault, "balanceOf", acc)
	}

	require.Equal(t, total, sum)
	require.Equal(t, total, env.readInt(t, env.usd, "balanceOf", env.vaultHash))
}

func notificationsNamed(aer *state.AppExecResult, contract util.Uint160, name string) []state.NotificationEvent {
	var res []state.NotificationEvent
	for _, ev := range aer.Events {
		if ev.ScriptHash.Equals(contract) && ev.Name == name {
			res = append(res, ev)
		}
	}
	return res
}

func eventBytes(t *testing.T, ev state.NotificationEvent, index int) []byte {
	items := ev.Item.Value().([]stackitem.Item)
	b, err := items[index].TryBytes()
	require.NoError(t, err)
	return b
}

func eventInt(t *testing.T, ev state.NotificationEvent, index int) int64 {
	items := ev.Item.Value().([]stackitem.Item)
	i, err := items[index].TryInteger()
	require.NoError(t, err)
	return i.Int64()
}

func TestVault_Version(t *testing.T) {
	env := newVaultEnv(t, routerPath)
	env.vault.Invoke(t, common.Version, "version")
}

func TestVault_Deploy(t *testing.T) {
	e := newExecutor(t)

	usdHash := deployContract(t, e, tokenPath, []interface{}{"TUSD", int64(6)})
	routerHash := deployContract(t, e, routerPath, nil)
	c := neotest.CompileFile(t, e.CommitteeHash, vaultPath, path.Join(vaultPath, "config.yml"))

	e.DeployContractCheckFAULT(t, c, []interface{}{
		e.CommitteeHash, usdHash, routerHash, int64(0), int64(defaultBankCap),
	}, "withdraw limit and bank cap must be positive")
	e.DeployContractCheckFAULT(t, c, []interface{}{
		e.CommitteeHash, usdHash, routerHash, int64(defaultBankCap) + 1, int64(defaultBankCap),
	}, "withdraw limit above bank cap")
	e.DeployContractCheckFAULT(t, c, []interface{}{
		e.CommitteeHash, usdHash, usdHash, int64(defaultWithdrawLimit), int64(defaultBankCap),
	}, "usd token and swap router must differ")

	e.DeployContract(t, c, []interface{}{
		e.CommitteeHash, usdHash, routerHash, int64(defaultWithdrawLimit), int64(defaultBankCap),
	})

	inv := e.CommitteeInvoker(c.Hash)
	inv.Invoke(t, int64(defaultBankCap), "bankCap")
	inv.Invoke(t, int64(defaultWithdrawLimit), "withdrawLimit")
	inv.Invoke(t, stackitem.NewByteArray(usdHash.BytesBE()), "usdToken")
	inv.Invoke(t, stackitem.NewByteArray(routerHash.BytesBE()), "swapRouter")
	inv.Invoke(t, stackitem.NewByteArray(e.CommitteeHash.BytesBE()), "manager")
	inv.Invoke(t, int64(0), "totalDeposits")
}

func TestVault_DepositUSD(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	user := env.e.NewAccount(t)
	env.mintUSD(t, user.ScriptHash(), 600*usdUnit)

	cUser := env.vault.WithSigners(user)
	h := cUser.Invoke(t, stackitem.Null{}, "deposit", user.ScriptHash(), env.usdHash, int64(500*usdUnit), int64(1))

	env.vault.Invoke(t, int64(500*usdUnit), "balanceOf", user.ScriptHash())
	env.vault.Invoke(t, int64(500*usdUnit), "totalDeposits")
	env.vault.Invoke(t, int64(1), "depositCountOf", user.ScriptHash())
	env.usd.Invoke(t, int64(100*usdUnit), "balanceOf", user.ScriptHash())
	env.checkConservation(t, user.ScriptHash())

	evs := notificationsNamed(env.e.CheckHalt(t, h), env.vaultHash, "DepositMade")
	require.Len(t, evs, 1)
	require.Equal(t, user.ScriptHash().BytesBE(), eventBytes(t, evs[0], 0))
	require.Equal(t, env.usdHash.BytesBE(), eventBytes(t, evs[0], 1))
	require.Equal(t, int64(500*usdUnit), eventInt(t, evs[0], 2))
	require.Equal(t, int64(500*usdUnit), eventInt(t, evs[0], 3))
}

func TestVault_DepositCapExceeded(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	user := env.e.NewAccount(t)
	env.mintUSD(t, user.ScriptHash(), 100_001*usdUnit)

	cUser := env.vault.WithSigners(user)
	cUser.InvokeFail(t, vault.ErrCapacityExceeded, "deposit", user.ScriptHash(), env.usdHash, int64(100_001*usdUnit), int64(1))

	env.vault.Invoke(t, int64(0), "totalDeposits")
	env.vault.Invoke(t, int64(0), "balanceOf", user.ScriptHash())
	env.vault.Invoke(t, int64(0), "depositCountOf", user.ScriptHash())
	env.usd.Invoke(t, int64(100_001*usdUnit), "balanceOf", user.ScriptHash())

	// Filling the vault right up to the cap is still fine.
	cUser.Invoke(t, stackitem.Null{}, "deposit", user.ScriptHash(), env.usdHash, int64(100_000*usdUnit), int64(1))
	env.vault.Invoke(t, int64(defaultBankCap), "totalDeposits")
	cUser.InvokeFail(t, vault.ErrCapacityExceeded, "deposit", user.ScriptHash(), env.usdHash, int64(1*usdUnit), int64(1))
}

func TestVault_DepositNative(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	// 1 whole GAS buys 2000 whole unit-of-account tokens.
	env.setRate(t, env.gasHash, 2000*usdUnit, gasUnit)
	env.fundRouter(t, 10_000*usdUnit)

	user := env.e.NewAccount(t)
	cUser := env.vault.WithSigners(user)
	cUser.Invoke(t, stackitem.Null{}, "deposit", user.ScriptHash(), env.gasHash, int64(gasUnit), int64(1))

	env.vault.Invoke(t, int64(2000*usdUnit), "balanceOf", user.ScriptHash())
	env.vault.Invoke(t, int64(2000*usdUnit), "totalDeposits")
	env.checkConservation(t, user.ScriptHash())
}

func TestVault_DepositWhitelistedToken(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	// 1 whole test asset buys 50 whole unit-of-account tokens.
	env.setRate(t, env.assetHash, 50*usdUnit, tknUnit)
	env.fundRouter(t, 10_000*usdUnit)
	env.whitelistAsset(t)

	user := env.e.NewAccount(t)
	env.mintAsset(t, user.ScriptHash(), 5*tknUnit)

	cUser := env.vault.WithSigners(user)
	cUser.Invoke(t, stackitem.Null{}, "deposit", user.ScriptHash(), env.assetHash, int64(2*tknUnit), int64(1))

	env.vault.Invoke(t, int64(100*usdUnit), "balanceOf", user.ScriptHash())
	env.asset.Invoke(t, int64(3*tknUnit), "balanceOf", user.ScriptHash())
	env.asset.Invoke(t, int64(2*tknUnit), "balanceOf", env.routerHash)
	env.checkConservation(t, user.ScriptHash())

	// Once the token is removed from the whitelist, deposits of it fail.
	env.vault.Invoke(t, stackitem.Null{}, "removeSupportedToken", env.assetHash)
	cUser.InvokeFail(t, vault.ErrTokenNotSupported, "deposit", user.ScriptHash(), env.assetHash, int64(1*tknUnit), int64(1))
	env.vault.Invoke(t, int64(100*usdUnit), "totalDeposits")
}

func TestVault_DepositUnsupportedToken(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	user := env.e.NewAccount(t)
	env.mintAsset(t, user.ScriptHash(), tknUnit)

	cUser := env.vault.WithSigners(user)
	cUser.InvokeFail(t, vault.ErrTokenNotSupported, "deposit", user.ScriptHash(), env.assetHash, int64(tknUnit), int64(1))
}

func TestVault_DepositZeroSlippageFloor(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	env.setRate(t, env.gasHash, 2000*usdUnit, gasUnit)
	env.fundRouter(t, 10_000*usdUnit)
	env.whitelistAsset(t)

	user := env.e.NewAccount(t)
	env.mintUSD(t, user.ScriptHash(), 10*usdUnit)
	env.mintAsset(t, user.ScriptHash(), tknUnit)

	cUser := env.vault.WithSigners(user)
	for _, token := range []util.Uint160{env.usdHash, env.gasHash, env.assetHash} {
		cUser.InvokeFail(t, vault.ErrInvalidAmount, "deposit", user.ScriptHash(), token, int64(1), int64(0))
	}

	// Zero amounts are rejected the same way.
	cUser.InvokeFail(t, vault.ErrInvalidAmount, "deposit", user.ScriptHash(), env.usdHash, int64(0), int64(1))
	env.vault.Invoke(t, int64(0), "totalDeposits")
}

func TestVault_DepositForeignOwner(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	owner := env.e.NewAccount(t)
	env.mintUSD(t, owner.ScriptHash(), 10*usdUnit)

	thief := env.e.NewAccount(t)
	cThief := env.vault.WithSigners(thief)
	cThief.InvokeFail(t, common.ErrOwnerWitnessFailed, "deposit", owner.ScriptHash(), env.usdHash, int64(usdUnit), int64(1))
}

func TestVault_SwapShortfall(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	env.setRate(t, env.assetHash, 50*usdUnit, tknUnit)
	env.fundRouter(t, 10_000*usdUnit)
	env.whitelistAsset(t)

	user := env.e.NewAccount(t)
	env.mintAsset(t, user.ScriptHash(), tknUnit)

	// The honest router refuses to deliver below the floor, so the deposit
	// fails atomically and the pulled funds return to the user.
	cUser := env.vault.WithSigners(user)
	cUser.InvokeFail(t, "insufficient output amount", "deposit", user.ScriptHash(), env.assetHash, int64(tknUnit), int64(1_000_000*usdUnit))

	env.asset.Invoke(t, int64(tknUnit), "balanceOf", user.ScriptHash())
	env.vault.Invoke(t, int64(0), "totalDeposits")
}

func TestVault_Withdraw(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	user := env.e.NewAccount(t)
	env.mintUSD(t, user.ScriptHash(), 500*usdUnit)

	cUser := env.vault.WithSigners(user)
	cUser.Invoke(t, stackitem.Null{}, "deposit", user.ScriptHash(), env.usdHash, int64(500*usdUnit), int64(1))

	h := cUser.Invoke(t, stackitem.Null{}, "withdraw", user.ScriptHash(), int64(200*usdUnit))

	env.vault.Invoke(t, int64(300*usdUnit), "balanceOf", user.ScriptHash())
	env.vault.Invoke(t, int64(1), "withdrawalCountOf", user.ScriptHash())
	env.usd.Invoke(t, int64(200*usdUnit), "balanceOf", user.ScriptHash())
	env.checkConservation(t, user.ScriptHash())

	evs := notificationsNamed(env.e.CheckHalt(t, h), env.vaultHash, "WithdrawalMade")
	require.Len(t, evs, 1)
	require.Equal(t, user.ScriptHash().BytesBE(), eventBytes(t, evs[0], 0))
	require.Equal(t, int64(200*usdUnit), eventInt(t, evs[0], 1))

	// The per-operation ceiling applies regardless of the balance.
	cUser.InvokeFail(t, vault.ErrWithdrawalLimitExceeded, "withdraw", user.ScriptHash(), int64(1_500*usdUnit))
	// Overdrafts under the ceiling are rejected as well.
	cUser.InvokeFail(t, vault.ErrInsufficientBalance, "withdraw", user.ScriptHash(), int64(400*usdUnit))
	cUser.InvokeFail(t, vault.ErrInvalidAmount, "withdraw", user.ScriptHash(), int64(0))

	env.vault.Invoke(t, int64(300*usdUnit), "balanceOf", user.ScriptHash())
	env.vault.Invoke(t, int64(1), "withdrawalCountOf", user.ScriptHash())

	// Draining the account removes its balance entry but keeps the counters.
	cUser.Invoke(t, stackitem.Null{}, "withdraw", user.ScriptHash(), int64(300*usdUnit))
	env.vault.Invoke(t, int64(0), "balanceOf", user.ScriptHash())
	env.vault.Invoke(t, int64(0), "totalDeposits")
	env.vault.Invoke(t, int64(2), "withdrawalCountOf", user.ScriptHash())
	env.vault.Invoke(t, int64(1), "depositCountOf", user.ScriptHash())
}

func TestVault_SupportedTokens(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	env.vault.Invoke(t, stackitem.NewBool(false), "isTokenSupported", env.assetHash)
	env.vault.Invoke(t, stackitem.NewArray([]stackitem.Item{}), "supportedTokens")

	h := env.vault.Invoke(t, stackitem.Null{}, "addSupportedToken", env.assetHash)
	evs := notificationsNamed(env.e.CheckHalt(t, h), env.vaultHash, "TokenSupported")
	require.Len(t, evs, 1)
	require.Equal(t, env.assetHash.BytesBE(), eventBytes(t, evs[0], 0))

	env.vault.Invoke(t, stackitem.NewBool(true), "isTokenSupported", env.assetHash)
	env.vault.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(env.assetHash.BytesBE()),
	}), "supportedTokens")

	// Re-adding is a no-op and produces no notification.
	h = env.vault.Invoke(t, stackitem.Null{}, "addSupportedToken", env.assetHash)
	require.Empty(t, notificationsNamed(env.e.CheckHalt(t, h), env.vaultHash, "TokenSupported"))
	env.vault.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(env.assetHash.BytesBE()),
	}), "supportedTokens")

	h = env.vault.Invoke(t, stackitem.Null{}, "removeSupportedToken", env.assetHash)
	evs = notificationsNamed(env.e.CheckHalt(t, h), env.vaultHash, "TokenUnsupported")
	require.Len(t, evs, 1)

	env.vault.Invoke(t, stackitem.NewBool(false), "isTokenSupported", env.assetHash)
	env.vault.Invoke(t, stackitem.NewArray([]stackitem.Item{}), "supportedTokens")
	env.vault.InvokeFail(t, vault.ErrTokenNotSupported, "removeSupportedToken", env.assetHash)

	// Assets with dedicated deposit paths cannot be whitelisted.
	env.vault.InvokeFail(t, vault.ErrReservedToken, "addSupportedToken", env.usdHash)
	env.vault.InvokeFail(t, vault.ErrReservedToken, "addSupportedToken", env.gasHash)
}

func TestVault_SupportedTokensRemovalKeepsOthers(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	// Whitelist bookkeeping does not care whether the entries are NEP-17
	// contracts, any distinct script hashes do.
	t1 := env.assetHash
	t2 := env.routerHash

	env.vault.Invoke(t, stackitem.Null{}, "addSupportedToken", t1)
	env.vault.Invoke(t, stackitem.Null{}, "addSupportedToken", t2)

	res, err := env.vault.TestInvoke(t, "supportedTokens")
	require.NoError(t, err)
	require.Len(t, res.Top().Array(), 2)

	env.vault.Invoke(t, stackitem.Null{}, "removeSupportedToken", t1)

	env.vault.Invoke(t, stackitem.NewBool(false), "isTokenSupported", t1)
	env.vault.Invoke(t, stackitem.NewBool(true), "isTokenSupported", t2)
	env.vault.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(t2.BytesBE()),
	}), "supportedTokens")
}

func TestVault_WhitelistRequiresManager(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	user := env.e.NewAccount(t)
	cUser := env.vault.WithSigners(user)

	cUser.InvokeFail(t, common.ErrManagerWitnessFailed, "addSupportedToken", env.assetHash)
	env.whitelistAsset(t)
	cUser.InvokeFail(t, common.ErrManagerWitnessFailed, "removeSupportedToken", env.assetHash)
	env.vault.Invoke(t, stackitem.NewBool(true), "isTokenSupported", env.assetHash)
}

func TestVault_DirectTransferRejected(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	user := env.e.NewAccount(t)
	env.mintUSD(t, user.ScriptHash(), 10*usdUnit)

	cUserUSD := env.usd.WithSigners(user)
	cUserUSD.InvokeFail(t, vault.ErrDirectTransfer, "transfer", user.ScriptHash(), env.vaultHash, int64(usdUnit), nil)

	cUserGAS := env.e.CommitteeInvoker(env.gasHash).WithSigners(user)
	cUserGAS.InvokeFail(t, vault.ErrDirectTransfer, "transfer", user.ScriptHash(), env.vaultHash, int64(1000), nil)

	env.vault.Invoke(t, int64(0), "totalDeposits")
}

func TestVault_UnknownMethodRejected(t *testing.T) {
	env := newVaultEnv(t, routerPath)
	env.vault.InvokeFail(t, "method not found", "drainBank")
}

func TestVault_ReentrancyDefeat(t *testing.T) {
	env := newVaultEnv(t, reentrantPath)

	env.router.Invoke(t, stackitem.Null{}, "setVault", env.vaultHash)
	env.fundRouter(t, 10_000*usdUnit)
	env.whitelistAsset(t)

	user := env.e.NewAccount(t)
	env.mintAsset(t, user.ScriptHash(), tknUnit)

	// The malicious router re-enters deposit and withdraw during the swap;
	// both nested calls must be rejected while the outer deposit completes
	// with the delivered output credited.
	cUser := env.vault.WithSigners(user)
	cUser.Invoke(t, stackitem.Null{}, "deposit", user.ScriptHash(), env.assetHash, int64(tknUnit), int64(77*usdUnit))

	env.router.Invoke(t, int64(2), "blockedCalls")
	env.vault.Invoke(t, int64(77*usdUnit), "balanceOf", user.ScriptHash())
	env.vault.Invoke(t, int64(77*usdUnit), "totalDeposits")
	env.vault.Invoke(t, int64(1), "depositCountOf", user.ScriptHash())
	env.checkConservation(t, user.ScriptHash())

	// The lock is released once the outer call is done.
	env.mintUSD(t, user.ScriptHash(), 5*usdUnit)
	cUser.Invoke(t, stackitem.Null{}, "deposit", user.ScriptHash(), env.usdHash, int64(5*usdUnit), int64(1))
	env.vault.Invoke(t, int64(82*usdUnit), "balanceOf", user.ScriptHash())
}

func TestVault_Conservation(t *testing.T) {
	env := newVaultEnv(t, routerPath)

	env.setRate(t, env.gasHash, 2000*usdUnit, gasUnit)
	env.fundRouter(t, 50_000*usdUnit)

	alice := env.e.NewAccount(t)
	bob := env.e.NewAccount(t)
	env.mintUSD(t, alice.ScriptHash(), 1_000*usdUnit)

	cAlice := env.vault.WithSigners(alice)
	cBob := env.vault.WithSigners(bob)
	accs := []util.Uint160{alice.ScriptHash(), bob.ScriptHash()}

	cAlice.Invoke(t, stackitem.Null{}, "deposit", alice.ScriptHash(), env.usdHash, int64(700*usdUnit), int64(1))
	env.checkConservation(t, accs...)

	cBob.Invoke(t, stackitem.Null{}, "deposit", bob.ScriptHash(), env.gasHash, int64(gasUnit), int64(1))
	env.checkConservation(t, accs...)

	cAlice.Invoke(t, stackitem.Null{}, "withdraw", alice.ScriptHash(), int64(250*usdUnit))
	env.checkConservation(t, accs...)

	cBob.Invoke(t, stackitem.Null{}, "withdraw", bob.ScriptHash(), int64(1_000*usdUnit))
	env.checkConservation(t, accs...)

	cAlice.Invoke(t, stackitem.Null{}, "deposit", alice.ScriptHash(), env.usdHash, int64(300*usdUnit), int64(1))
	env.checkConservation(t, accs...)

	env.vault.Invoke(t, int64(2), "depositCountOf", alice.ScriptHash())
	env.vault.Invoke(t, int64(1), "withdrawalCountOf", alice.ScriptHash())
	env.vault.Invoke(t, int64(1), "depositCountOf", bob.ScriptHash())
	env.vault.Invoke(t, int64(1), "withdrawalCountOf", bob.ScriptHash())
}
