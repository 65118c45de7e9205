package book

import "github.com/dunnock/poloniexbook/internal/poloerr"

// Pair is the closed set of trading pairs this engine understands. The
// mapping to wire names is a fixed two-way table: an unknown wire name
// is a decoding failure, never a new Pair value.
type Pair int

const (
	BTCBCH Pair = iota
	BTCETH
	BTCLTC
	BTCZEC
	USDTBTC
	USDTETH
	USDTLTC
	USDTBCH
	USDTZEC
	USDTXRP
)

var pairToWire = map[Pair]string{
	BTCBCH:  "BTC_BCH",
	BTCETH:  "BTC_ETH",
	BTCLTC:  "BTC_LTC",
	BTCZEC:  "BTC_ZEC",
	USDTBTC: "USDT_BTC",
	USDTETH: "USDT_ETH",
	USDTLTC: "USDT_LTC",
	USDTBCH: "USDT_BCH",
	USDTZEC: "USDT_ZEC",
	USDTXRP: "USDT_XRP",
}

var wireToPair = func() map[string]Pair {
	m := make(map[string]Pair, len(pairToWire))
	for p, w := range pairToWire {
		m[w] = p
	}
	return m
}()

// WireName returns the fixed exchange-channel name for p.
func (p Pair) WireName() string {
	return pairToWire[p]
}

func (p Pair) String() string {
	if name, ok := pairToWire[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParsePair resolves a wire currency-pair name to a Pair, failing on
// anything outside the closed table.
func ParsePair(wireName string) (Pair, error) {
	p, ok := wireToPair[wireName]
	if !ok {
		return 0, poloerr.WrongData("unknown trade pair %q", wireName)
	}
	return p, nil
}
