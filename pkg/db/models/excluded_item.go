package models

// ExcludedItem marks a color/parameter combination that cannot be ordered.
type ExcludedItem struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductID   int64  `gorm:"column:product_id;not null;index"`
	ColorID     *int64 `gorm:"column:color_id"`
	ParameterID *int64 `gorm:"column:parameter_id"`
}

func (ExcludedItem) TableName() string { return "excluded_items" }

type ImportanceNum struct {
	ID         int64 `gorm:"column:id;primaryKey;autoIncrement:false"`
	ProductID  int64 `gorm:"column:product_id;not null;index"`
	Importance *int  `gorm:"column:importance"`
}

func (ImportanceNum) TableName() string { return "importance_nums" }
