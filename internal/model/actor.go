package model

// ActorID is an opaque, externally-verified principal identifier.
// The enclosing service authenticates callers before any ledger call;
// the core treats the value as trusted.
type ActorID string

func (a ActorID) IsZero() bool {
	return a == ""
}

func (a ActorID) String() string {
	return string(a)
}
