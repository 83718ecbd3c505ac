package approvalassignmentstore

import (
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalAssignment) (id string, err error)
	GetByApprovalAndUser(companyID, approvalID, userID string) (rec *dbmodels.ApprovalAssignment, err error)
	Update(companyID, id string, updMap map[string]interface{}) error
	DeleteByApproval(companyID, approvalID string) error
	List(companyID, approvalID string) (list []dbmodels.ApprovalAssignment, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalAssignment) (id string, err error) {
	err = i.db.
		Omit("User").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByApprovalAndUser(companyID, approvalID, userID string) (*dbmodels.ApprovalAssignment, error) {
	rec := dbmodels.ApprovalAssignment{}
	err := i.db.
		Where("company_id = ?", companyID).
		Where("approval_id = ?", approvalID).
		Where("user_id = ?", userID).
		Preload("User").
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

func (i impl) Update(companyID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ApprovalAssignment{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) DeleteByApproval(companyID, approvalID string) error {
	rec := dbmodels.ApprovalAssignment{}
	err := i.db.Model(&dbmodels.ApprovalAssignment{}).
		Where("company_id = ?", companyID).
		Where("approval_id = ?", approvalID).
		Delete(&rec).Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(companyID, approvalID string) (list []dbmodels.ApprovalAssignment, err error) {
	list = []dbmodels.ApprovalAssignment{}
	tx := i.db.
		Where("company_id = ?", companyID).
		Where("approval_id = ?", approvalID).
		Order("sort_order ASC, created_at ASC").
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
