package models

type Court struct {
	ID          int64    `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type" json:"type"`
	Location    string   `yaml:"location" json:"location"`
	RatePerHour float64  `yaml:"rate_per_hour" json:"rate_per_hour"`
	Features    []string `yaml:"features" json:"features,omitempty"`
	IsActive    bool     `yaml:"is_active" json:"is_active"`
}
