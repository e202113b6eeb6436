/*
Vault contract is a custodial value vault deployed as a standalone contract.

Vault accepts deposits in GAS or in whitelisted NEP-17 tokens, converts every
deposit into a single unit-of-account token through an external exchange
router contract and keeps the realized value on an internal per-account
ledger. Depositors can later withdraw the unit-of-account token, bounded per
operation by an immutable withdrawal limit; the whole ledger is bounded by an
immutable capacity cap. The whitelist is managed by the vault manager, an
account fixed at deployment time.

Every state-mutating method runs under a contract-wide execution lock, so an
exchange router attempting to re-enter the vault during a swap fails
immediately. Incoming token transfers are accepted only while the lock is
held, i.e. only the vault's own pulls and swap deliveries; bare transfers to
the contract address fault.

Contract notifications

DepositMade notification. This notification is produced when a deposit has
been credited. It carries the depositor, the asset supplied, the raw amount
supplied and the credited unit-of-account value.

  DepositMade:
    - name: from
      type: Hash160
    - name: token
      type: Hash160
    - name: amount
      type: Integer
    - name: usdValue
      type: Integer

WithdrawalMade notification. This notification is produced when a withdrawal
has been paid out.

  WithdrawalMade:
    - name: from
      type: Hash160
    - name: amount
      type: Integer

TokenSupported notification. This notification is produced when a token has
been added to the deposit whitelist for the first time.

  TokenSupported:
    - name: token
      type: Hash160

TokenUnsupported notification. This notification is produced when a token has
been removed from the deposit whitelist.

  TokenUnsupported:
    - name: token
      type: Hash160
*/
package vault
