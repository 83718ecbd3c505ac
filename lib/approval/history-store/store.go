package approvalhistorystore

import (
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Журнал только пополняется, обновления записей не предусмотрены
type Provider interface {
	Create(rec dbmodels.ApprovalHistory) (id string, err error)
	DeleteByApproval(companyID, approvalID string) error
	List(companyID, approvalID string) (list []dbmodels.ApprovalHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalHistory) (id string, err error) {
	err = i.db.
		Omit("User").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) DeleteByApproval(companyID, approvalID string) error {
	rec := dbmodels.ApprovalHistory{}
	err := i.db.Model(&dbmodels.ApprovalHistory{}).
		Where("company_id = ?", companyID).
		Where("approval_id = ?", approvalID).
		Delete(&rec).Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(companyID, approvalID string) (list []dbmodels.ApprovalHistory, err error) {
	list = []dbmodels.ApprovalHistory{}
	tx := i.db.
		Where("company_id = ?", companyID).
		Where("approval_id = ?", approvalID).
		Order("created_at ASC").
		Preload("User")
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
