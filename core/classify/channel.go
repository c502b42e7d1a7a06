package classify

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tariffcheck/core/types"
)

// DefaultPostalThreshold is the price below which a non-electronic purchase is assumed to ship by post
var DefaultPostalThreshold = decimal.NewFromInt(100)

// InferChannel guesses the shipment channel. The page never exposes it, so this is a heuristic:
// postal iff price < threshold and the category is not electronics or appliances.
func InferChannel(price decimal.Decimal, code types.CategoryCode, threshold decimal.Decimal) types.Channel {
	if price.LessThan(threshold) && !code.IsElectronic() {
		return types.ChannelPostal
	}
	return types.ChannelCommercial
}

// AttributeSignature renders attributes and channel as a stable cache key component
func AttributeSignature(attrs types.ProductAttributes, channel types.Channel) string {
	var sb strings.Builder
	sb.WriteString("ch=")
	sb.WriteString(string(channel))
	sb.WriteString(";e=")
	sb.WriteString(strconv.FormatBool(attrs.IsElectronic))
	sb.WriteString(";a=")
	sb.WriteString(strconv.FormatBool(attrs.IsApparel))
	sb.WriteString(";f=")
	sb.WriteString(strconv.FormatBool(attrs.IsFood))
	sb.WriteString(";g=")
	sb.WriteString(string(attrs.Gender))
	sb.WriteString(";m=")
	sb.WriteString(strings.Join(attrs.Materials, ","))
	return sb.String()
}
