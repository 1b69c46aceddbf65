package models

type User struct {
	BaseModel
	CompanyID    string   `gorm:"type:uuid;not null;index" json:"company_id"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FullName     string   `json:"full_name"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool     `gorm:"not null;default:true" json:"is_active"`

	// Relations
	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
}
