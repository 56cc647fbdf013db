package model

import (
	"time"
)

type UserRole string

const (
	Caregiver UserRole = "caregiver"
	Patient   UserRole = "patient"
	Admin     UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('caregiver','patient','admin');default:'patient'" json:"role"`
	Language  string    `gorm:"size:10;default:'en'" json:"language"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// CarePair links a caregiver with the patient they support. Creating a pair
// is what brings both participant programs into existence.
type CarePair struct {
	BaseModel
	CaregiverID uint  `gorm:"index:idx_pair,unique;type:bigint unsigned" json:"caregiverId"`
	PatientID   uint  `gorm:"index:idx_pair,unique;type:bigint unsigned" json:"patientId"`
	Caregiver   *User `gorm:"foreignKey:CaregiverID" json:"caregiver,omitempty"`
	Patient     *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (CarePair) TableName() string {
	return "care_pairs"
}
