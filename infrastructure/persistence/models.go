package persistence

import "time"

// ArtworkModel maps to the artworks table.
type ArtworkModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Title        string    `gorm:"column:title"`
	Artist       string    `gorm:"column:artist"`
	Year         string    `gorm:"column:year"`
	Museum       string    `gorm:"column:museum"`
	Location     string    `gorm:"column:location"`
	Descriptions StringMap `gorm:"column:descriptions;type:json"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name for ArtworkModel.
func (ArtworkModel) TableName() string { return "artworks" }

// DescriptorModel maps to the descriptors table. The composite primary key
// is (artwork_id, descriptor_id).
type DescriptorModel struct {
	ArtworkID    string       `gorm:"column:artwork_id;primaryKey"`
	DescriptorID string       `gorm:"column:descriptor_id;primaryKey"`
	Embedding    Float64Slice `gorm:"column:embedding;type:json"`
	ImagePath    string       `gorm:"column:image_path"`
	UpdatedAt    time.Time    `gorm:"column:updated_at"`
}

// TableName returns the table name for DescriptorModel.
func (DescriptorModel) TableName() string { return "descriptors" }

// SettingModel maps to the settings table, a small JSON key/value store.
// The only key in use is db_dim, holding {"value": <dim>}.
type SettingModel struct {
	Key   string  `gorm:"column:key;primaryKey"`
	Value JSONDoc `gorm:"column:value;type:json"`
}

// TableName returns the table name for SettingModel.
func (SettingModel) TableName() string { return "settings" }
