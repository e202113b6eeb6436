package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// ErrReentrantCall is thrown by LockExecution when a state-mutating method is
// entered while another one is still in progress within the same transaction.
const ErrReentrantCall = "reentrant call"

const executionLockKey = "executionLock"

// LockExecution takes the contract-wide execution lock. Every state-mutating
// method must take the lock as its first action, so an external contract
// invoked mid-operation cannot re-enter any of them. It panics with
// ErrReentrantCall if the lock is already held.
//
// The lock is a storage flag, therefore a faulted transaction releases it
// together with the rest of its writes. The success path must release it
// explicitly with UnlockExecution.
func LockExecution(ctx storage.Context) {
	if storage.Get(ctx, executionLockKey) != nil {
		panic(ErrReentrantCall)
	}
	storage.Put(ctx, executionLockKey, []byte{1})
}

// UnlockExecution releases the lock taken by LockExecution.
func UnlockExecution(ctx storage.Context) {
	storage.Delete(ctx, executionLockKey)
}

// ExecutionLocked returns true if the execution lock is held, i.e. some
// state-mutating method of the contract is currently on the call stack.
func ExecutionLocked(ctx storage.Context) bool {
	return storage.Get(ctx, executionLockKey) != nil
}
