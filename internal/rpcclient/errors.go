package rpcclient

import "errors"

// Error taxonomy for the RPC facade. RpcFailure is the umbrella category;
// InsufficientFunds and AccountNotFound are distinguishable subcategories
// surfaced when the RPC node's own error reason code identifies them.
var (
	ErrRpcFailure        = errors.New("rpcclient: rpc request failed")
	ErrInsufficientFunds = errors.New("rpcclient: insufficient funds")
	ErrAccountNotFound   = errors.New("rpcclient: account not found")
)
