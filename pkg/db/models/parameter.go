package models

import "github.com/shopspring/decimal"

// Parameter is a priced configuration option of a product.
type Parameter struct {
	ID              int64               `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductID       int64               `gorm:"column:product_id;not null;index"`
	Chosen          bool                `gorm:"column:chosen;not null"`
	Disabled        bool                `gorm:"column:disabled;not null"`
	ExtraFieldColor *string             `gorm:"column:extra_field_color;size:20"`
	ExtraFieldImage *string             `gorm:"column:extra_field_image;size:255"`
	Name            string              `gorm:"column:name;size:100;not null"`
	OldPrice        decimal.NullDecimal `gorm:"column:old_price;type:numeric"`
	ParameterString string              `gorm:"column:parameter_string;size:100;not null"`
	Price           decimal.Decimal     `gorm:"column:price;type:numeric;not null"`
	SortOrder       *int                `gorm:"column:sort_order"`
}

func (Parameter) TableName() string { return "parameters" }
