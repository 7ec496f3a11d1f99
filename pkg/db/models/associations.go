package models

type ProductCategory struct {
	ProductID  int64 `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	CategoryID int64 `gorm:"column:category_id;primaryKey;autoIncrement:false"`
}

func (ProductCategory) TableName() string { return "product_category_association" }

type ProductMarkLink struct {
	ProductID int64 `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	MarkID    int64 `gorm:"column:mark_id;primaryKey;autoIncrement:false"`
}

func (ProductMarkLink) TableName() string { return "product_mark_association" }

type ProductTag struct {
	ProductID int64 `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	TagID     int64 `gorm:"column:tag_id;primaryKey;autoIncrement:false"`
}

func (ProductTag) TableName() string { return "product_tag_association" }
