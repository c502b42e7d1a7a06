// Package types defines core domain types shared across all layers.
// This package contains NO business logic beyond small accessors.
package types

import (
	"strings"
	"unicode"
)

// NormalizedCountry is the canonical lowercase country name of an origin
type NormalizedCountry string

// CountryUnknown is used when the page does not declare an origin
const CountryUnknown NormalizedCountry = "unknown"

// String returns the string representation
func (c NormalizedCountry) String() string {
	return string(c)
}

// IsUnknown checks if the origin could not be determined
func (c NormalizedCountry) IsUnknown() bool {
	return c == CountryUnknown || c == ""
}

// Title returns a display form ("united states" -> "United States")
func (c NormalizedCountry) Title() string {
	if c.IsUnknown() {
		return "Unknown"
	}
	words := strings.Fields(string(c))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Channel is the inferred shipment channel of a purchase
type Channel string

const (
	// ChannelPostal is a low-value parcel shipped through the postal network
	ChannelPostal Channel = "postal"

	// ChannelCommercial is any other (formal or express) entry
	ChannelCommercial Channel = "commercial"
)

// String returns the string representation
func (c Channel) String() string {
	return string(c)
}

// IsValid checks if the channel is a known channel
func (c Channel) IsValid() bool {
	switch c {
	case ChannelPostal, ChannelCommercial:
		return true
	default:
		return false
	}
}
