package dbmodels

import (
	"time"

	"github.com/lib/pq"
)

// Document - запись библиотеки документов проекта.
// Согласования документ не владеют, только ссылаются на него.
type Document struct {
	BaseCompanyModel
	Title       string  `gorm:"type:varchar(255)"`
	Category    string  `gorm:"type:varchar(100);index"`
	ProjectID   *string `gorm:"type:varchar(36);index"`
	Project     *Project
	CreatorID   string         `gorm:"type:varchar(36)"`
	Creator     *CompanyUser   `gorm:"foreignKey:CreatorID"`
	FileName    string         `gorm:"type:varchar(255)"`
	ContentType string         `gorm:"type:varchar(255)"`
	FileKey     string         `gorm:"type:varchar(255)"` // ключ объекта в S3
	Tags        pq.StringArray `gorm:"type:text[]"`
	IsPublished bool
	PublishedAt *time.Time
}
