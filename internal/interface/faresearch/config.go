package faresearch

import (
	"strconv"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
)

// FieldMap locates offer attributes in an endpoint response item.
// Leg fields are relative to OutboundLeg / ReturnLeg, the rest are
// dotted paths from the item root.
type FieldMap struct {
	OutboundLeg string
	ReturnLeg   string

	DepartureAirport string
	ArrivalAirport   string
	DepartureDate    string
	DepartureTime    string
	ArrivalTime      string
	Stops            string
	TicketClass      string

	ID         string
	Price      string
	Currency   string
	Carrier    string
	BaggageTag string
}

// AirlineConfig describes one airline fare endpoint
type AirlineConfig struct {
	Airline      entity.Airline
	Endpoint     string
	BuildRequest func(q entity.FareQuery) map[string]string
	Fields       FieldMap
	// ClassifyCarriers splits results of a multi-carrier endpoint into
	// the endpoint airline and OTHER offers by carrier code
	ClassifyCarriers bool
}

// DefaultFields is the response layout shared by both fare endpoints
var DefaultFields = FieldMap{
	OutboundLeg: "chiều_đi",
	ReturnLeg:   "chiều_về",

	DepartureAirport: "nơi_đi",
	ArrivalAirport:   "nơi_đến",
	DepartureDate:    "ngày_cất_cánh",
	DepartureTime:    "giờ_cất_cánh",
	ArrivalTime:      "giờ_hạ_cánh",
	Stops:            "số_điểm_dừng",
	TicketClass:      "loại_vé",

	ID:         "thông_tin_chung.mã_chuyến",
	Price:      "thông_tin_chung.giá_vé",
	Currency:   "thông_tin_chung.tiền_tệ",
	Carrier:    "thông_tin_chung.hãng",
	BaggageTag: "thông_tin_chung.hành_lý_vna",
}

// VietJetConfig returns the VJ endpoint configuration
func VietJetConfig() AirlineConfig {
	return AirlineConfig{
		Airline:  entity.AirlineVJ,
		Endpoint: "/vj/check-ve-v2",
		BuildRequest: func(q entity.FareQuery) map[string]string {
			tripType := "OW"
			if q.IsRoundTrip() {
				tripType = "RT"
			}
			return map[string]string{
				"dep0":     q.DepartureAirport,
				"arr0":     q.ArrivalAirport,
				"depdate0": q.DepartureDate,
				"depdate1": q.ReturnDate,
				"adt":      strconv.Itoa(adults(q)),
				"chd":      strconv.Itoa(q.Children),
				"inf":      strconv.Itoa(q.Infants),
				"sochieu":  tripType,
			}
		},
		Fields: DefaultFields,
	}
}

// VietnamAirlinesConfig returns the VNA endpoint configuration.
// The endpoint also returns partner carriers.
func VietnamAirlinesConfig() AirlineConfig {
	return AirlineConfig{
		Airline:  entity.AirlineVNA,
		Endpoint: "/vna/check-ve-v2",
		BuildRequest: func(q entity.FareQuery) map[string]string {
			tripType := "OW"
			if q.IsRoundTrip() {
				tripType = "RT"
			}
			return map[string]string{
				"dep0":                q.DepartureAirport,
				"arr0":                q.ArrivalAirport,
				"depdate0":            q.DepartureDate,
				"depdate1":            q.ReturnDate,
				"activedVia":          "0",
				"activedIDT":          passengerType(q.TicketClass),
				"adt":                 strconv.Itoa(adults(q)),
				"chd":                 strconv.Itoa(q.Children),
				"inf":                 strconv.Itoa(q.Infants),
				"page":                "1",
				"sochieu":             tripType,
				"filterTimeSlideMin0": "5",
				"filterTimeSlideMax0": "2355",
				"filterTimeSlideMin1": "5",
				"filterTimeSlideMax1": "2355",
				"session_key":         "",
			}
		},
		Fields:           DefaultFields,
		ClassifyCarriers: true,
	}
}

func passengerType(ticketClass string) string {
	if ticketClass == entity.TicketClassBusiness {
		return "BUS"
	}
	return "ADT,VFR"
}

func adults(q entity.FareQuery) int {
	if q.Adults < 1 {
		return 1
	}
	return q.Adults
}
