package importer

// Profile describes the column layout of a product catalog CSV.
// Adding a new source format is just adding a new Profile to the
// profiles slice.
type Profile struct {
	Name        string
	NameCol     string
	SKUCol      string
	PriceCol    string
	CostCol     string
	StockCol    string
	MinStockCol string
	UnitCol     string
}

// requiredCols returns the column names that must be present for this
// profile to match. Stock, minimum stock and unit are optional.
func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.SKUCol, p.PriceCol, p.CostCol}
}

// profiles is the ordered list of catalog formats to try during
// auto-detection.
var profiles = []Profile{
	{
		Name:        "standard",
		NameCol:     "Name",
		SKUCol:      "SKU",
		PriceCol:    "Price",
		CostCol:     "Cost",
		StockCol:    "Stock",
		MinStockCol: "Min Stock",
		UnitCol:     "Unit",
	},
	{
		Name:        "warung",
		NameCol:     "Nama Produk",
		SKUCol:      "SKU",
		PriceCol:    "Harga Jual",
		CostCol:     "Harga Beli",
		StockCol:    "Stok",
		MinStockCol: "Stok Minimum",
		UnitCol:     "Satuan",
	},
}
