package entity

// PricingProfile holds an agent's additive markups.
// Missing map entries mean no markup.
type PricingProfile struct {
	GeneralMarkup    int64
	AirlineMarkups   map[Airline]int64
	OneWayMarkups    map[Airline]int64
	RoundTripMarkups map[Airline]int64
}

// AgentProfile represents a travel agent account as read from the profiles table
type AgentProfile struct {
	ID             string
	FullName       string
	AgentName      string
	Pricing        PricingProfile
	PermCheckVJ    bool
	PermCheckVNA   bool
	PermCheckOther bool
	ListOther      []string
	TelegramAPIKey string
	TelegramChatID string
	TicketEmail    string
}

// AllowsOtherCarrier reports whether the agent may see offers of the carrier
func (p *AgentProfile) AllowsOtherCarrier(carrier string) bool {
	if !p.PermCheckOther {
		return false
	}
	for _, c := range p.ListOther {
		if c == carrier {
			return true
		}
	}
	return false
}
