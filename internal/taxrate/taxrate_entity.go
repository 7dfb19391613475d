package taxrate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRateSet is one version of the statutory tables for a tax year. Amounts
// are monthly and in cents; rates are percentages.
type TaxRateSet struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaxYear       int       `gorm:"not null;uniqueIndex:uq_tax_rate_set_version"`
	Version       int       `gorm:"not null;uniqueIndex:uq_tax_rate_set_version"`
	EffectiveFrom time.Time `gorm:"type:date;not null"`
	IsActive      bool      `gorm:"not null;default:false;index"`

	PersonalRelief      int64 `gorm:"not null"`
	DisabilityExemption int64 `gorm:"not null;default:0"`

	HealthScheme      string          `gorm:"size:8;not null"`
	HealthRatePercent decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0"`
	HealthFloor       int64           `gorm:"not null;default:0"`
	HealthCeiling     *int64

	NSSFTier1RatePercent decimal.Decimal `gorm:"column:nssf_tier1_rate_percent;type:numeric(7,4);not null"`
	NSSFTier1Limit       int64           `gorm:"column:nssf_tier1_limit;not null"`
	NSSFTier2RatePercent decimal.Decimal `gorm:"column:nssf_tier2_rate_percent;type:numeric(7,4);not null"`
	NSSFTier2Limit       int64           `gorm:"column:nssf_tier2_limit;not null"`

	HousingLevyEmployeeRatePercent decimal.Decimal `gorm:"type:numeric(7,4);not null"`
	HousingLevyEmployerRatePercent decimal.Decimal `gorm:"type:numeric(7,4);not null"`

	NSSFDeductibleWhenPensionable bool `gorm:"column:nssf_deductible_when_pensionable;not null"`
	HealthDeductible              bool `gorm:"not null"`
	HousingLevyDeductible         bool `gorm:"not null"`

	CreatedBy *string   `gorm:"type:uuid"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Bands        []TaxBand     `gorm:"foreignKey:RateSetID;constraint:OnDelete:CASCADE"`
	NHIFBrackets []NHIFBracket `gorm:"foreignKey:RateSetID;constraint:OnDelete:CASCADE"`
}

func (TaxRateSet) TableName() string { return "tax_rate_sets" }

type TaxBand struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RateSetID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	MinIncome   int64           `gorm:"not null"`
	MaxIncome   *int64
	RatePercent decimal.Decimal `gorm:"type:numeric(7,4);not null"`
}

func (TaxBand) TableName() string { return "tax_bands" }

type NHIFBracket struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RateSetID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position  int       `gorm:"not null"`
	MinIncome int64     `gorm:"not null"`
	MaxIncome *int64
	Amount    int64 `gorm:"not null"`
}

func (NHIFBracket) TableName() string { return "nhif_brackets" }
