package companyusersstore

import (
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.CompanyUser, err error)
	List(companyID string) (list []dbmodels.CompanyUser, err error)
	ListByIDs(companyID string, ids []string) (list []dbmodels.CompanyUser, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.CompanyUser, error) {
	rec := dbmodels.CompanyUser{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) List(companyID string) (list []dbmodels.CompanyUser, err error) {
	list = []dbmodels.CompanyUser{}
	err = i.db.
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByIDs(companyID string, ids []string) (list []dbmodels.CompanyUser, err error) {
	list = []dbmodels.CompanyUser{}
	if len(ids) == 0 {
		return list, nil
	}
	err = i.db.
		Where("company_id = ?", companyID).
		Where("id IN ?", ids).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
