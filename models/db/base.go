package dbmodels

import (
	"time"
)

type BaseModel struct {
	ID        string    `gorm:"primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BaseCompanyModel - все данные изолированы по компании (арендатору),
// company_id хранится явной колонкой на каждой строке
type BaseCompanyModel struct {
	BaseModel
	CompanyID string `gorm:"type:varchar(36);index" json:"company_id"`
}
