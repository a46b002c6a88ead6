package types

// AccountContext supplies the tenant every repository call is scoped to.
// Implementations must be safe for concurrent use; the storage layer only
// reads from them.
type AccountContext interface {
	CurrentAccountID() int64
}

// StaticAccount is an AccountContext that always reports the same account.
type StaticAccount int64

// CurrentAccountID returns the fixed account ID.
func (a StaticAccount) CurrentAccountID() int64 {
	return int64(a)
}
