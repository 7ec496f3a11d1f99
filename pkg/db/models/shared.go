package models

// Category is shared across products through product_category_association.
type Category struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	ImageURL  string `gorm:"column:image_url;not null"`
	Name      string `gorm:"column:name;not null;index"`
	SortOrder *int   `gorm:"column:sort_order"`
}

func (Category) TableName() string { return "categories" }

type ProductMark struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name string `gorm:"column:name;not null"`
}

func (ProductMark) TableName() string { return "product_marks" }

// Tag is matched by name; its id is assigned locally.
type Tag struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex"`
}

func (Tag) TableName() string { return "tags" }
