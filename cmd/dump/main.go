package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/vault-contract/rpc/vault"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractHash := flag.String("contract", "", "Script hash of the Vault contract (LE hex)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractHash == "":
		log.Fatal("missing Vault contract hash")
	}

	vaultHash, err := util.Uint160DecodeStringLE(strings.TrimPrefix(*contractHash, "0x"))
	if err != nil {
		log.Fatal(fmt.Errorf("decode Vault contract hash: %w", err))
	}

	err = _dump(*neoRPCEndpoint, vaultHash, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
}

// _dump prints the Vault contract configuration and state as seen through the
// given Neo RPC server. Remaining command line arguments are treated as
// accounts (Neo addresses or LE script hashes) whose balances are printed too.
func _dump(neoBlockchainRPCEndpoint string, vaultHash util.Uint160, accounts []string) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	reader := vault.NewReader(b.actor, vaultHash)

	version, err := reader.Version()
	if err != nil {
		return fmt.Errorf("get contract version: %w", err)
	}

	manager, err := reader.Manager()
	if err != nil {
		return fmt.Errorf("get manager: %w", err)
	}

	usdToken, err := reader.UsdToken()
	if err != nil {
		return fmt.Errorf("get unit-of-account token: %w", err)
	}

	swapRouter, err := reader.SwapRouter()
	if err != nil {
		return fmt.Errorf("get swap router: %w", err)
	}

	withdrawLimit, err := reader.WithdrawLimit()
	if err != nil {
		return fmt.Errorf("get withdraw limit: %w", err)
	}

	bankCap, err := reader.BankCap()
	if err != nil {
		return fmt.Errorf("get bank cap: %w", err)
	}

	totalDeposits, err := reader.TotalDeposits()
	if err != nil {
		return fmt.Errorf("get total deposits: %w", err)
	}

	usdReader := nep17.NewReader(b.actor, usdToken)
	usdSymbol, err := usdReader.Symbol()
	if err != nil {
		return fmt.Errorf("get unit-of-account token symbol: %w", err)
	}

	fmt.Printf("Vault %s (version %s) at block #%d\n", vaultHash.StringLE(), version, b.currentBlock)
	fmt.Printf("  manager:        %s\n", address.Uint160ToString(manager))
	fmt.Printf("  USD token:      %s (%s)\n", usdToken.StringLE(), usdSymbol)
	fmt.Printf("  swap router:    %s\n", swapRouter.StringLE())
	fmt.Printf("  withdraw limit: %s\n", withdrawLimit)
	fmt.Printf("  bank cap:       %s\n", bankCap)
	fmt.Printf("  total deposits: %s\n", totalDeposits)

	tokens, err := reader.SupportedTokens()
	if err != nil {
		return fmt.Errorf("get supported tokens: %w", err)
	}

	fmt.Printf("  supported tokens (%d):\n", len(tokens))
	for _, h := range tokens {
		fmt.Printf("    %s\n", h.StringLE())
	}

	for _, s := range accounts {
		acc, err := parseAccount(s)
		if err != nil {
			return fmt.Errorf("parse account '%s': %w", s, err)
		}

		balance, err := reader.BalanceOf(acc)
		if err != nil {
			return fmt.Errorf("get balance of '%s': %w", s, err)
		}

		deposits, err := reader.DepositCountOf(acc)
		if err != nil {
			return fmt.Errorf("get deposit count of '%s': %w", s, err)
		}

		withdrawals, err := reader.WithdrawalCountOf(acc)
		if err != nil {
			return fmt.Errorf("get withdrawal count of '%s': %w", s, err)
		}

		fmt.Printf("account %s: balance %s, deposits %s, withdrawals %s\n",
			address.Uint160ToString(acc), balance, deposits, withdrawals)
	}

	return nil
}

// parseAccount accepts either a Neo address or a LE script hash, optionally
// prefixed with 0x.
func parseAccount(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
}
