package model

// Kind names one of the stored record collections.
type Kind string

const (
	KindItems        Kind = "items"
	KindShops        Kind = "shops"
	KindTransactions Kind = "transactions"
)

// AllKinds lists every record collection.
func AllKinds() []Kind {
	return []Kind{KindItems, KindShops, KindTransactions}
}
