package dbmodels

import (
	"fmt"
	"pm-tools-backend/models"
	"time"
)

type Company struct {
	BaseModel
	Name     string `gorm:"type:varchar(255)"`
	Inn      string `gorm:"type:varchar(12)"`
	IsActive bool
}

type CompanyUser struct {
	BaseModel
	CompanyID   string `gorm:"type:varchar(36);index"`
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Email       string `gorm:"type:varchar(255)"`
	PhoneNumber string `gorm:"type:varchar(15)"`
	IsActive    bool
	PushEnabled bool
	EmailNotify bool
	Role        models.UserRole `gorm:"type:varchar(50)"`
	LastLogin   time.Time
}

func (r CompanyUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
