package entity

// Category groups contracts that share a deployment filter.
type Category string

const (
	CategoryCore   Category = "core"
	CategoryStrats Category = "strats"
)

// Contract is a logical contract whose deployments are copied into the address files.
type Contract struct {
	Name     string
	Category Category
	// Document is the path of the contract's deployments document, relative to the data set root.
	Document string
}

// Contracts lists the copied contracts in query order: core contracts first, then strats.
var Contracts = []Contract{
	{Name: "Mangrove", Category: CategoryCore, Document: "core/mangrove.json"},
	{Name: "MgvOracle", Category: CategoryCore, Document: "core/mgv-oracle.json"},
	{Name: "MgvReader", Category: CategoryCore, Document: "core/mgv-reader.json"},
	{Name: "MangroveOrder", Category: CategoryStrats, Document: "strats/mangrove-order.json"},
	{Name: "MangroveOrderRouter", Category: CategoryStrats, Document: "strats/mangrove-order-router.json"},
	{Name: "KandelSeeder", Category: CategoryStrats, Document: "strats/kandel-seeder.json"},
	{Name: "AaveKandelSeeder", Category: CategoryStrats, Document: "strats/aave-kandel-seeder.json"},
	{Name: "AavePooledRouter", Category: CategoryStrats, Document: "strats/aave-pooled-router.json"},
}
