package approvalattachmentstore

import (
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalAttachment) (id string, err error)
	GetByID(companyID, id string) (rec *dbmodels.ApprovalAttachment, err error)
	DeleteByApproval(companyID, approvalID string) error
	List(companyID, approvalID string) (list []dbmodels.ApprovalAttachment, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalAttachment) (id string, err error) {
	err = i.db.
		Omit("Uploader").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(companyID, id string) (*dbmodels.ApprovalAttachment, error) {
	rec := dbmodels.ApprovalAttachment{}
	err := i.db.
		Where("id = ?", id).
		Where("company_id = ?", companyID).
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

func (i impl) DeleteByApproval(companyID, approvalID string) error {
	rec := dbmodels.ApprovalAttachment{}
	err := i.db.Model(&dbmodels.ApprovalAttachment{}).
		Where("company_id = ?", companyID).
		Where("approval_id = ?", approvalID).
		Delete(&rec).Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(companyID, approvalID string) (list []dbmodels.ApprovalAttachment, err error) {
	list = []dbmodels.ApprovalAttachment{}
	tx := i.db.
		Where("company_id = ?", companyID).
		Where("approval_id = ?", approvalID).
		Order("created_at ASC")
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
