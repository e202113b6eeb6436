// Package router implements a fixed-rate exchange router. The vault transfers
// the input token to the router and asks it to deliver the output token back;
// the router honors the request at the configured rate or throws.
package router

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type rate struct {
	Num int
	Den int
}

const ratePrefix = 'r'

// SetRate configures the conversion rate for the given input token: amountIn
// of it buys amountIn * num / den of whatever output token is requested.
// Test helper, open to everyone.
func SetRate(tokenIn interop.Hash160, num, den int) {
	if num <= 0 || den <= 0 {
		panic("non-positive rate")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, rateKey(tokenIn), std.Serialize(rate{Num: num, Den: den}))
}

// SwapTokenInForTokenOut converts amountIn of tokenIn already held by the
// router into tokenOut at the configured rate and transfers the output to the
// calling contract. Throws if no rate is configured or the output would be
// below amountOutMin.
func SwapTokenInForTokenOut(tokenIn, tokenOut interop.Hash160, amountIn, amountOutMin int) int {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, rateKey(tokenIn))
	if data == nil {
		panic("no liquidity for token")
	}

	r := std.Deserialize(data.([]byte)).(rate)
	out := amountIn * r.Num / r.Den
	if out < amountOutMin {
		panic("insufficient output amount")
	}

	caller := runtime.GetCallingScriptHash()
	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(tokenOut, "transfer", contract.All, self, caller, out, nil).(bool)
	if !ok {
		panic("failed to deliver output token")
	}

	return out
}

// OnNEP17Payment accepts any incoming transfer.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
}

func rateKey(token interop.Hash160) []byte {
	return append([]byte{ratePrefix}, token...)
}
