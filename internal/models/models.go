package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Visitor analytics. At most one row per ip_address per UTC day, enforced by the tracker.
type Visit struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	IPAddress string    `gorm:"type:varchar(64);index:idx_visit_ip_created;not null" json:"ip_address"`
	PagePath  string    `gorm:"type:varchar(500);not null;default:'/'" json:"page_path"`
	UserAgent *string   `gorm:"type:text" json:"user_agent"`
	Country   string    `gorm:"type:varchar(8);not null;default:'BR'" json:"country"`
	State     *string   `gorm:"type:varchar(100)" json:"state"`
	City      *string   `gorm:"type:varchar(100)" json:"city"`
	CreatedAt time.Time `gorm:"index:idx_visit_ip_created;index" json:"created_at"`
}

func (Visit) TableName() string {
	return "visitor_analytics"
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Birthday reservations
type BirthdayReservation struct {
	ID             string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName       string                      `gorm:"type:varchar(255);not null" json:"full_name"`
	Email          string                      `gorm:"type:varchar(255);not null" json:"email"`
	CPF            string                      `gorm:"column:cpf;type:varchar(14);index;not null" json:"cpf"`
	BirthDate      string                      `gorm:"type:varchar(10);not null" json:"birth_date"`
	WhatsApp       string                      `gorm:"column:whatsapp;type:varchar(20);not null" json:"whatsapp"`
	VisitDate      string                      `gorm:"type:varchar(10);index;not null" json:"visit_date"`
	Companions     int                         `gorm:"not null;default:0" json:"companions"`
	CompanionNames datatypes.JSONSlice[string] `json:"companion_names"`
	Status         ReservationStatus           `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	Notes          *string                     `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (BirthdayReservation) TableName() string {
	return "birthday_reservations"
}

func (r *BirthdayReservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Site sections hold the JSON blob edited by each CMS manager, keyed by section.
type SiteSection struct {
	ID         string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	SectionKey string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"section_key"`
	Content    datatypes.JSON `json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (SiteSection) TableName() string {
	return "site_sections"
}

func (s *SiteSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type Room struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name" binding:"required"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        float64        `gorm:"not null;default:0" json:"price"`
	Capacity     int            `gorm:"not null" json:"capacity"`
	Amenities    datatypes.JSON `json:"amenities"`
	Images       datatypes.JSON `json:"images"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	DisplayOrder int            `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Defaulter is implemented by content rows whose omitted fields need values other
// than the zero value. Column defaults are avoided for these fields since gorm
// would replace an explicit false or 0 with them on insert.
type Defaulter interface {
	ApplyDefaults()
}

func (r *Room) ApplyDefaults() {
	r.IsActive = true
	r.Capacity = 2
}

func (Room) TableName() string {
	return "rooms"
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Virtual store products
type Product struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name" binding:"required"`
	Description  string    `gorm:"type:text" json:"description"`
	Price        float64   `gorm:"not null;default:0" json:"price"`
	Category     string    `gorm:"type:varchar(100);index" json:"category"`
	ImageURL     string    `gorm:"type:varchar(500)" json:"image_url"`
	Stock        int       `gorm:"not null;default:0" json:"stock"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Product) ApplyDefaults() {
	p.IsActive = true
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type GalleryItem struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(255)" json:"title"`
	Category     string    `gorm:"type:varchar(100);index" json:"category"`
	ImageURL     string    `gorm:"type:varchar(500);not null" json:"image_url" binding:"required"`
	StoragePath  string    `gorm:"type:varchar(500)" json:"storage_path"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (g *GalleryItem) ApplyDefaults() {
	g.IsActive = true
}

func (GalleryItem) TableName() string {
	return "gallery_items"
}

func (g *GalleryItem) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// All returns every model the store migrates.
func All() []interface{} {
	return []interface{}{
		&Visit{},
		&BirthdayReservation{},
		&SiteSection{},
		&Room{},
		&Product{},
		&GalleryItem{},
	}
}
