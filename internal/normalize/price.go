package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"productpage/internal/model"
)

// strikeEpsilon is the margin a base price must exceed the final price by
// before it is shown struck through.
const strikeEpsilon = 0.01

var (
	priceJunk  = regexp.MustCompile(`[^\d,.\-]`)
	priceToken = regexp.MustCompile(`-?\d+(?:[.,]\d+)*`)
)

// ParsePrice extracts a number from a loosely formatted price such as
// "1 234,56 €", "19.99" or 42. It reports false when the value is absent or
// holds no numeric token.
//
// When a token carries both separators, the last one is the decimal mark and
// the other groups thousands. A single separator kind is a decimal mark when
// it appears once and a thousands separator when it repeats.
func ParsePrice(v model.Loose) (float64, bool) {
	if v.IsNull() {
		return 0, false
	}
	str, err := cast.ToStringE(v.Value())
	if err != nil {
		return 0, false
	}

	token := priceToken.FindString(priceJunk.ReplaceAllString(str, ""))
	if token == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(normalizeSeparators(token), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func normalizeSeparators(token string) string {
	lastDot := strings.LastIndex(token, ".")
	lastComma := strings.LastIndex(token, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal, grouping := ",", "."
		if lastDot > lastComma {
			decimal, grouping = ".", ","
		}
		token = strings.ReplaceAll(token, grouping, "")
		return singleDecimal(token, decimal)
	case lastComma >= 0:
		return singleDecimal(token, ",")
	case lastDot >= 0:
		return singleDecimal(token, ".")
	}
	return token
}

// singleDecimal treats sep as the decimal mark when it occurs once and as a
// grouping separator otherwise.
func singleDecimal(token, sep string) string {
	if strings.Count(token, sep) > 1 {
		return strings.ReplaceAll(token, sep, "")
	}
	return strings.Replace(token, sep, ".", 1)
}

// FinalPrice is the price actually charged: the first parseable value among
// the discounted, best, collapsed best, buy box sale and list prices.
func FinalPrice(p *model.Product) (float64, bool) {
	candidates := []model.Loose{
		p.DiscountedPrice,
		p.NewBestPrice,
		p.CollapseBestPrice,
		model.Loose{},
		p.Price,
	}
	if p.Buybox != nil {
		candidates[3] = p.Buybox.SalePrice
	}
	return firstPrice(candidates...)
}

// StrikePrice returns the reference price to show crossed out next to final.
// It is suppressed unless it exceeds final by more than strikeEpsilon.
func StrikePrice(p *model.Product, final float64) (float64, bool) {
	base, ok := firstPrice(p.PriceList, p.Price)
	if !ok {
		return 0, false
	}
	if base > final+strikeEpsilon {
		return base, true
	}
	return 0, false
}

func firstPrice(values ...model.Loose) (float64, bool) {
	for _, v := range values {
		if n, ok := ParsePrice(v); ok {
			return n, true
		}
	}
	return 0, false
}

// FormatEUR formats an amount the way French storefronts do ("1 234,56 €").
func FormatEUR(n float64) string {
	return message.NewPrinter(language.French).Sprintf("%.2f", n) + "\u00a0€"
}
