package models

import "time"

// Product is the root catalog aggregate. Its id comes from upstream.
type Product struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement:false"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt     *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
	Name          string     `gorm:"column:name;not null"`
	OnMain        bool       `gorm:"column:on_main;not null"`
	ConnectorData *string    `gorm:"column:moysklad_connector_products_data;type:text"`

	Colors         []Color         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Extras         []Extra         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images         []Image         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Parameters     []Parameter     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews        []Review        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	ReviewVideos   []ReviewVideo   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	ExcludedItems  []ExcludedItem  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	ImportanceNums []ImportanceNum `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	Categories []Category    `gorm:"many2many:product_category_association;joinForeignKey:ProductID;joinReferences:CategoryID"`
	Marks      []ProductMark `gorm:"many2many:product_mark_association;joinForeignKey:ProductID;joinReferences:MarkID"`
	Tags       []Tag         `gorm:"many2many:product_tag_association;joinForeignKey:ProductID;joinReferences:TagID"`
}

func (Product) TableName() string { return "products" }

// Relations lists every nested collection, in the order they are preloaded.
var Relations = []string{
	"Categories",
	"Colors",
	"ExcludedItems",
	"Extras",
	"Images",
	"ImportanceNums",
	"Marks",
	"Parameters",
	"Reviews",
	"ReviewVideos",
	"Tags",
}

// All returns every persisted model, join tables included, for AutoMigrate.
func All() []any {
	return []any{
		&Product{},
		&Category{},
		&ProductMark{},
		&Tag{},
		&Color{},
		&Extra{},
		&Image{},
		&Parameter{},
		&Review{},
		&ReviewVideo{},
		&ExcludedItem{},
		&ImportanceNum{},
		&ProductCategory{},
		&ProductMarkLink{},
		&ProductTag{},
	}
}
