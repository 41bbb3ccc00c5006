package pantry

func price(v float64) *float64 { return &v }

// Fixture is a predefined set of items and shops.
type Fixture struct {
	Name  string
	Items []ItemSpec
	Shops []ShopName
}

// FixtureBasic is a small kitchen: two items with price history, one
// without, and two shops.
var FixtureBasic = Fixture{
	Name: "basic",
	Items: []ItemSpec{
		{Name: ItemRice, Unit: "kg", LastPrice: price(62)},
		{Name: ItemSugar, Unit: "kg", LastPrice: price(45)},
		{Name: ItemSalt, Unit: "pkt"},
	},
	Shops: []ShopName{ShopSiva, ShopKumar},
}

// FixtureDairy adds milk bought by the litre from the market.
var FixtureDairy = Fixture{
	Name:  "dairy",
	Items: []ItemSpec{{Name: ItemMilk, Unit: "l", LastPrice: price(30)}},
	Shops: []ShopName{ShopMarket},
}
