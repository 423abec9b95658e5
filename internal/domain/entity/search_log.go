package entity

import "time"

// SearchLog records an agent fare search
type SearchLog struct {
	ID            string       `bson:"_id,omitempty"`
	AgentID       string       `bson:"userId"`
	Criteria      SearchParams `bson:"searchData"`
	PrimaryOffers int          `bson:"primaryOffers"`
	OtherOffers   int          `bson:"otherOffers"`
	FailedSources []string     `bson:"failedSources,omitempty"`
	SearchedAt    time.Time    `bson:"searchedAt"`
}

// SearchParams is the criteria part of a search
type SearchParams struct {
	From          string `bson:"from" json:"from"`
	To            string `bson:"to" json:"to"`
	DepartureDate string `bson:"departureDate" json:"departure_date"`
	ReturnDate    string `bson:"returnDate,omitempty" json:"return_date,omitempty"`
	Adults        int    `bson:"adults" json:"adults"`
	Children      int    `bson:"children" json:"children"`
	Infants       int    `bson:"infants" json:"infants"`
}
