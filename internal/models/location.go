package models

type Location struct {
	BaseModel
	CompanyID string `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`
	Address   string `json:"address"`

	// Coordinates are optional; jobs at a location without them
	// cannot pass the GPS gate.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Relations
	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
}

func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}
