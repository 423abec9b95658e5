package entity

import "strings"

// Airline is the pricing group a fare belongs to
type Airline string

const (
	AirlineVJ    Airline = "VJ"
	AirlineVNA   Airline = "VNA"
	AirlineOther Airline = "OTHER"
)

// ClassifyAirline maps a carrier code to its pricing group
func ClassifyAirline(code string) Airline {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "VJ":
		return AirlineVJ
	case "VNA", "VN":
		return AirlineVNA
	default:
		return AirlineOther
	}
}

// IsPrimary reports whether the airline gets its own flat markup
func (a Airline) IsPrimary() bool {
	return a == AirlineVJ || a == AirlineVNA
}

// Baggage describes the free baggage allowance of an other carrier
type Baggage struct {
	CarryOn string `json:"carry_on"`
	Checked string `json:"checked,omitempty"`
}

// OtherCarrierNames maps other carrier codes to display names
var OtherCarrierNames = map[string]string{
	"OZ": "Asiana",
	"TW": "Tway",
	"LJ": "Jin Air",
	"BX": "Air Busan",
	"KE": "Korean Air",
	"7C": "Jeju",
	"YP": "Premia",
	"RS": "Air Seoul",
}

// OtherCarrierBaggage holds the baggage allowance per other carrier
var OtherCarrierBaggage = map[string]Baggage{
	"7C": {CarryOn: "10kg", Checked: "15kg"},
	"YP": {CarryOn: "10kg", Checked: "23kg"},
	"LJ": {CarryOn: "10kg", Checked: "15kg"},
	"TW": {CarryOn: "10kg"},
	"KE": {CarryOn: "10kg", Checked: "23kg"},
	"OZ": {CarryOn: "10kg", Checked: "23kg"},
	"RS": {CarryOn: "10kg", Checked: "15kg"},
	"BX": {CarryOn: "10kg", Checked: "15kg"},
}

// BaggageFor returns the allowance for a carrier, defaulting to 10kg carry-on
func BaggageFor(carrier string) Baggage {
	if b, ok := OtherCarrierBaggage[strings.ToUpper(carrier)]; ok {
		return b
	}
	return Baggage{CarryOn: "10kg"}
}
