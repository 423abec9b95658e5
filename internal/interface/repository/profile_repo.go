package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/repository"
)

// GormProfileRepository implements the ProfileRepository interface
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GORM profile repository
func NewGormProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &GormProfileRepository{
		db: db,
	}
}

// Profiles GORM model for the agent profiles table
type Profiles struct {
	ID             string         `gorm:"column:id;primaryKey"`
	FullName       string         `gorm:"column:full_name"`
	AgentName      *string        `gorm:"column:agent_name"`
	PriceMarkup    *int64         `gorm:"column:price_markup"`
	PriceVJ        *int64         `gorm:"column:price_vj"`
	PriceVNA       *int64         `gorm:"column:price_vna"`
	PriceOwVJ      *int64         `gorm:"column:price_ow_vj"`
	PriceRtVJ      *int64         `gorm:"column:price_rt_vj"`
	PriceOwVNA     *int64         `gorm:"column:price_ow_vna"`
	PriceRtVNA     *int64         `gorm:"column:price_rt_vna"`
	PriceOwOther   *int64         `gorm:"column:price_ow_other"`
	PriceRtOther   *int64         `gorm:"column:price_rt_other"`
	PermCheckVJ    *bool          `gorm:"column:perm_check_vj"`
	PermCheckVNA   *bool          `gorm:"column:perm_check_vna"`
	PermCheckOther *bool          `gorm:"column:perm_check_other"`
	ListOther      pq.StringArray `gorm:"column:list_other;type:text[]"`
	APIKeyTelegram *string        `gorm:"column:apikey_telegram"`
	IDChatTelegram *string        `gorm:"column:idchat_telegram"`
	TicketEmail    *string        `gorm:"column:ticket_email"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the default table name
func (Profiles) TableName() string {
	return "profiles"
}

// FindByID finds an agent profile by id
func (r *GormProfileRepository) FindByID(ctx context.Context, id string) (*entity.AgentProfile, error) {
	var profile Profiles
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&profile)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", id, result.Error)
	}

	return profile.toEntity(), nil
}

func (p Profiles) toEntity() *entity.AgentProfile {
	return &entity.AgentProfile{
		ID:        p.ID,
		FullName:  p.FullName,
		AgentName: stringOrEmpty(p.AgentName),
		Pricing: entity.PricingProfile{
			GeneralMarkup: intOrZero(p.PriceMarkup),
			AirlineMarkups: map[entity.Airline]int64{
				entity.AirlineVJ:  intOrZero(p.PriceVJ),
				entity.AirlineVNA: intOrZero(p.PriceVNA),
			},
			OneWayMarkups: map[entity.Airline]int64{
				entity.AirlineVJ:    intOrZero(p.PriceOwVJ),
				entity.AirlineVNA:   intOrZero(p.PriceOwVNA),
				entity.AirlineOther: intOrZero(p.PriceOwOther),
			},
			RoundTripMarkups: map[entity.Airline]int64{
				entity.AirlineVJ:    intOrZero(p.PriceRtVJ),
				entity.AirlineVNA:   intOrZero(p.PriceRtVNA),
				entity.AirlineOther: intOrZero(p.PriceRtOther),
			},
		},
		PermCheckVJ:    boolOrFalse(p.PermCheckVJ),
		PermCheckVNA:   boolOrFalse(p.PermCheckVNA),
		PermCheckOther: boolOrFalse(p.PermCheckOther),
		ListOther:      []string(p.ListOther),
		TelegramAPIKey: stringOrEmpty(p.APIKeyTelegram),
		TelegramChatID: stringOrEmpty(p.IDChatTelegram),
		TicketEmail:    stringOrEmpty(p.TicketEmail),
	}
}

func intOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func boolOrFalse(v *bool) bool {
	return v != nil && *v
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
