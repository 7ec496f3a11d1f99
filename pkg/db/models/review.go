package models

// Review is a customer photo attached to a product.
type Review struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductID int64  `gorm:"column:product_id;not null;index"`
	ImageURL  string `gorm:"column:image_url;not null"`
	SortOrder *int   `gorm:"column:sort_order"`
}

func (Review) TableName() string { return "reviews" }

type ReviewVideo struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductID int64   `gorm:"column:product_id;not null;index"`
	PosterURL *string `gorm:"column:poster_url"`
	VideoURL  *string `gorm:"column:video_url"`
	SortOrder *int    `gorm:"column:sort_order"`
}

func (ReviewVideo) TableName() string { return "review_videos" }
