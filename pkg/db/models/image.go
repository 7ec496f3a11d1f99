package models

type Image struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductID int64   `gorm:"column:product_id;not null;index"`
	ImageURL  string  `gorm:"column:image_url;not null"`
	MainImage bool    `gorm:"column:main_image;not null"`
	Position  *string `gorm:"column:position"`
	SortOrder *int    `gorm:"column:sort_order"`
	Title     *string `gorm:"column:title"`
}

func (Image) TableName() string { return "images" }
