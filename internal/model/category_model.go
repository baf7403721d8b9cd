package model

type Category struct {
	Id   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255);not null"`
}

func (Category) TableName() string {
	return "categories"
}
