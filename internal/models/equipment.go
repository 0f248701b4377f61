package models

// EquipmentItem is a rentable catalog entry.
type EquipmentItem struct {
	ID          int64   `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description,omitempty"`
	Category    string  `yaml:"category" json:"category"`
	UnitPrice   float64 `yaml:"unit_price" json:"unit_price"`
	Stock       int     `yaml:"stock" json:"stock"`
}

// EquipmentLine is a selected rental embedded into a draft or booking.
// It snapshots catalog values so later catalog edits never rewrite history.
type EquipmentLine struct {
	ItemID    int64   `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	MaxStock  int     `json:"max_stock"`
}
