package model

// Franchise is a tenant partition of the platform. Most records carry an
// optional franchise id; admin users without one see all tenants.
// swagger:model Franchise
type Franchise struct {
	BaseModel
	Name      string `gorm:"size:255;not null" json:"name"`
	Subdomain string `gorm:"size:100;unique;not null" json:"subdomain"`
	LogoURL   string `gorm:"size:255" json:"logoUrl"`
	Active    bool   `gorm:"default:true" json:"active"`
}

func (Franchise) TableName() string {
	return "franchises"
}
