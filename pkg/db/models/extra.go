package models

// Extra carries the long-form descriptive blocks of a product.
type Extra struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductID       int64   `gorm:"column:product_id;not null;index"`
	Characteristics string  `gorm:"column:characteristics;type:text;not null"`
	Delivery        string  `gorm:"column:delivery;type:text;not null"`
	Kit             string  `gorm:"column:kit;type:text;not null"`
	Offer           string  `gorm:"column:offer;type:text;not null"`
	AIDescription   *string `gorm:"column:ai_description;type:text"`
}

func (Extra) TableName() string { return "extras" }
