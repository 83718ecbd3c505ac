package projectstore

import (
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByID(companyID, id string) (rec *dbmodels.Project, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(companyID, id string) (*dbmodels.Project, error) {
	rec := dbmodels.Project{}
	err := i.db.
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Preload("Members").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
