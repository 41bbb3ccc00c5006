package model

// Shop is a place where purchases are made.
type Shop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ShopUpdate carries the fields to change on a stored shop.
type ShopUpdate struct {
	Name *string
}
