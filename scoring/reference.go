package scoring

// Static reference data consulted by the detectors. All of it is fixed at
// compile time and never mutated at runtime.

// LegitimateSites lists canonical brand domains that typosquatters imitate:
// the major crypto exchanges and wallets plus commonly impersonated general
// brands. Order matters only for deterministic evidence output.
var LegitimateSites = []string{
	// Crypto exchanges
	"binance.com",
	"coinbase.com",
	"kraken.com",
	"bybit.com",
	"okx.com",
	"kucoin.com",
	"gate.io",
	"bitfinex.com",
	"bitstamp.net",
	"gemini.com",
	"crypto.com",
	"htx.com",
	"mexc.com",
	"bitget.com",
	"upbit.com",
	"bithumb.com",
	"coincheck.com",
	"bitflyer.com",
	"poloniex.com",
	"bitmart.com",

	// Wallets and crypto services
	"metamask.io",
	"trustwallet.com",
	"ledger.com",
	"trezor.io",
	"exodus.com",
	"blockchain.com",
	"opensea.io",
	"uniswap.org",
	"etherscan.io",
	"coinmarketcap.com",
	"coingecko.com",

	// Frequently impersonated general brands
	"google.com",
	"apple.com",
	"microsoft.com",
	"amazon.com",
	"paypal.com",
	"facebook.com",
	"instagram.com",
	"netflix.com",
	"telegram.org",
	"discord.com",
}

// Confusables maps a character or short substring to the characters visually
// mistaken for it. Multi-character keys cover glyph pairs that render as one
// (rn looks like m). Consulted only by the typosquatting detector.
var Confusables = map[string][]string{
	"0":  {"o"},
	"o":  {"0"},
	"1":  {"l", "i", "|"},
	"l":  {"1", "i", "|", "I"},
	"i":  {"1", "l", "!"},
	"I":  {"l", "1", "|"},
	"3":  {"e"},
	"e":  {"3"},
	"4":  {"a"},
	"a":  {"4", "@"},
	"5":  {"s"},
	"s":  {"5", "$"},
	"6":  {"b"},
	"b":  {"6"},
	"8":  {"B"},
	"9":  {"g", "q"},
	"g":  {"9", "q"},
	"q":  {"g", "9"},
	"u":  {"v"},
	"v":  {"u"},
	"rn": {"m"},
	"m":  {"rn", "nn"},
	"vv": {"w"},
	"w":  {"vv"},
	"cl": {"d"},
	"d":  {"cl"},
}

// GeneralKeywords are phishing, urgency and lure terms that rarely appear in
// honest domain names. One hit is already suspicious for general requests.
var GeneralKeywords = []string{
	"login", "signin", "verify", "verification", "secure", "security",
	"account", "update", "confirm", "unlock", "suspended", "support",
	"service", "alert", "urgent", "recovery", "banking", "wallet",
	"bonus", "free", "gift", "prize", "winner", "reward", "claim",
}

// CryptoKeywords are the crypto-specific lure terms used by the crypto
// ruleset. Legitimate exchanges use some of these in marketing, so the
// crypto ruleset requires two hits before triggering.
var CryptoKeywords = []string{
	"airdrop", "giveaway", "bonus", "free", "claim", "reward", "double",
	"promo", "presale", "mint", "whitelist", "staking", "apy", "elon",
	"pump", "moon", "lambo", "x2", "x10",
}

// SuspiciousTLDs are extensions with free or near-free registration that
// show up disproportionately in abuse feeds.
var SuspiciousTLDs = []string{
	"tk", "ml", "ga", "cf", "gq",
	"xyz", "top", "click", "loan", "work",
	"buzz", "monster", "icu", "cam", "rest",
	"stream", "download", "racing", "accountant",
}
