package models

// Color is a purchasable color variant owned by a product.
type Color struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductID int64   `gorm:"column:product_id;not null;index"`
	Code      string  `gorm:"column:code;size:10;not null"`
	Name      string  `gorm:"column:name;size:50;not null"`
	ImageURL  *string `gorm:"column:image_url;size:255"`
	Discount  *int    `gorm:"column:discount"`
	JSONData  *string `gorm:"column:json_data;type:text"`
	SortOrder *int    `gorm:"column:sort_order"`
}

func (Color) TableName() string { return "colors" }
