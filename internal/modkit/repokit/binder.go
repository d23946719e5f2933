package repokit

// Binder builds a domain repo on top of a Queryer, usually the one a transaction hands out
type Binder[T any] interface {
	Bind(Queryer) T
}
