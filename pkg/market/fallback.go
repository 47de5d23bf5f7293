package market

import "time"

// fallbackSeed is the static dataset served when the upstream source is
// unreachable. Values are plausible but frozen; the point is that a consumer
// always has a renderable snapshot, never an empty one.
type fallbackSeed struct {
	id     string
	symbol string
	name   string
	price  float64
	ch24   float64
	ch7    float64
	mcap   float64
	rank   int
}

var fallbackSeeds = []fallbackSeed{
	{"bitcoin", "btc", "Bitcoin", 67500, 2.5, -1.2, 1330000000000, 1},
	{"ethereum", "eth", "Ethereum", 3200, 1.8, -2.1, 385000000000, 2},
	{"tether", "usdt", "Tether", 0.92, 0.01, 0.02, 140000000000, 3},
	{"ripple", "xrp", "XRP", 2.04, -0.78, -0.9, 119000000000, 4},
	{"binancecoin", "bnb", "BNB", 599.27, 0.82, -3.4, 87000000000, 5},
	{"solana", "sol", "Solana", 163.44, -0.23, -5.8, 80000000000, 6},
	{"usd-coin", "usdc", "USDC", 0.92, 0.00, 0.01, 54000000000, 7},
	{"dogecoin", "doge", "Dogecoin", 0.38, 3.2, -2.1, 56000000000, 8},
	{"cardano", "ada", "Cardano", 0.89, 1.5, -4.2, 31000000000, 9},
	{"avalanche-2", "avax", "Avalanche", 42.50, 2.8, -1.5, 17000000000, 10},
	{"chainlink", "link", "Chainlink", 25.80, 1.2, -3.1, 15000000000, 11},
	{"polygon", "matic", "Polygon", 0.95, 2.1, -1.8, 9500000000, 12},
	{"litecoin", "ltc", "Litecoin", 105.50, 0.8, -2.5, 7800000000, 13},
	{"polkadot", "dot", "Polkadot", 8.90, 1.9, -4.1, 12000000000, 14},
	{"uniswap", "uni", "Uniswap", 12.40, 3.5, -1.2, 7400000000, 15},
	{"stellar", "xlm", "Stellar", 0.42, 2.8, -3.5, 12500000000, 16},
	{"algorand", "algo", "Algorand", 0.35, 1.1, -2.8, 2800000000, 17},
	{"cosmos", "atom", "Cosmos", 9.80, 2.3, -1.9, 3800000000, 18},
	{"filecoin", "fil", "Filecoin", 6.20, 1.8, -4.2, 3500000000, 19},
	{"vechain", "vet", "VeChain", 0.045, 2.1, -2.1, 3200000000, 20},
	{"tron", "trx", "TRON", 0.28, 1.5, -1.8, 24000000000, 21},
	{"ethereum-classic", "etc", "Ethereum Classic", 32.50, 0.9, -3.2, 4800000000, 22},
	{"monero", "xmr", "Monero", 185.20, 1.2, -2.5, 3400000000, 23},
	{"iota", "miota", "IOTA", 0.28, 2.8, -1.5, 780000000, 24},
	{"eos", "eos", "EOS", 0.85, 1.1, -4.1, 850000000, 25},
	{"aave", "aave", "Aave", 180.50, 2.5, -1.8, 2700000000, 26},
	{"maker", "mkr", "Maker", 1850.00, 1.8, -2.2, 1800000000, 27},
	{"compound", "comp", "Compound", 85.20, 3.1, -1.5, 850000000, 28},
	{"yearn-finance", "yfi", "Yearn Finance", 8500.00, 2.8, -3.1, 310000000, 29},
	{"sushi", "sushi", "SushiSwap", 1.85, 1.5, -2.8, 240000000, 30},
	{"curve-dao-token", "crv", "Curve DAO Token", 0.95, 2.1, -1.2, 380000000, 31},
	{"pancakeswap-token", "cake", "PancakeSwap", 2.80, 1.8, -2.5, 450000000, 32},
	{"thorchain", "rune", "THORChain", 5.20, 2.5, -1.8, 1700000000, 33},
	{"terra-luna", "luna", "Terra Luna Classic", 0.00012, 5.2, -8.1, 850000000, 34},
	{"near", "near", "NEAR Protocol", 6.80, 1.9, -2.8, 7200000000, 35},
	{"fantom", "ftm", "Fantom", 0.85, 2.8, -1.5, 2400000000, 36},
	{"harmony", "one", "Harmony", 0.025, 1.2, -3.8, 320000000, 37},
	{"elrond-erd-2", "egld", "MultiversX", 45.20, 2.1, -2.1, 1200000000, 38},
	{"helium", "hnt", "Helium", 8.50, 1.8, -1.9, 1400000000, 39},
	{"flow", "flow", "Flow", 0.95, 2.5, -2.8, 1500000000, 40},
	{"internet-computer", "icp", "Internet Computer", 12.80, 1.1, -4.2, 6000000000, 41},
	{"theta-token", "theta", "Theta Network", 2.10, 2.8, -1.5, 2100000000, 42},
	{"decentraland", "mana", "Decentraland", 0.58, 1.5, -3.1, 1100000000, 43},
	{"the-sandbox", "sand", "The Sandbox", 0.42, 2.1, -2.5, 950000000, 44},
	{"axie-infinity", "axs", "Axie Infinity", 8.20, 1.8, -1.8, 620000000, 45},
	{"enjincoin", "enj", "Enjin Coin", 0.35, 2.5, -2.1, 320000000, 46},
	{"chiliz", "chz", "Chiliz", 0.085, 1.2, -3.5, 760000000, 47},
	{"basic-attention-token", "bat", "Basic Attention Token", 0.28, 1.8, -2.8, 420000000, 48},
	{"gala", "gala", "Gala", 0.045, 2.8, -1.2, 1600000000, 49},
	{"apecoin", "ape", "ApeCoin", 1.85, 1.5, -4.1, 850000000, 50},
}

// FallbackInstruments expands the static dataset into full instrument rows,
// ordered by rank. Derived fields follow fixed ratios: volume is 10% of
// market cap, 24h high/low are ±5% of price, supply is implied by cap/price.
func FallbackInstruments(now time.Time) []Instrument {
	out := make([]Instrument, 0, len(fallbackSeeds))
	for _, seed := range fallbackSeeds {
		high := seed.price * 1.05
		low := seed.price * 0.95
		circulating := seed.mcap / seed.price
		total := circulating * 1.2
		out = append(out, Instrument{
			ID:                seed.id,
			Symbol:            seed.symbol,
			Name:              seed.name,
			CurrentPrice:      seed.price,
			Change24h:         seed.ch24,
			Change7d:          seed.ch7,
			MarketCap:         seed.mcap,
			Rank:              seed.rank,
			Volume24h:         seed.mcap * 0.1,
			Image:             "https://assets.coingecko.com/coins/images/" + seed.id + "/large.png",
			LastUpdated:       now.UTC().Format(time.RFC3339),
			High24h:           &high,
			Low24h:            &low,
			CirculatingSupply: &circulating,
			TotalSupply:       &total,
		})
	}
	return out
}

// FallbackBasePrice returns the anchor price used when synthesizing history
// for an instrument, or the default base when the id is unknown.
func FallbackBasePrice(id string) float64 {
	for _, seed := range fallbackSeeds {
		if seed.id == id {
			return seed.price
		}
	}
	return defaultHistoryBase
}
