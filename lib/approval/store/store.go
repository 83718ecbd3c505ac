package approvalstore

import (
	"time"

	"pm-tools-backend/models"
	approvalapimodels "pm-tools-backend/models/api/approval"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Approval) (id string, err error)
	GetByID(companyID, id string) (rec *dbmodels.Approval, err error)
	Update(companyID, id string, updMap map[string]interface{}) error
	// CompleteTransition - атомарный переход PENDING -> терминальный статус.
	// Возвращает true только одному из конкурирующих вызовов.
	CompleteTransition(companyID, id string, status models.ApprovalStatus, decidedAt time.Time) (applied bool, err error)
	Delete(companyID, id string) error
	List(companyID string, scope func(tx *gorm.DB) *gorm.DB, filter approvalapimodels.ApprovalFilter) (list []dbmodels.Approval, err error)
	ListCount(companyID string, scope func(tx *gorm.DB) *gorm.DB, filter approvalapimodels.ApprovalFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Approval) (id string, err error) {
	err = i.db.
		Omit("Creator", "Document", "Project").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(companyID, id string) (*dbmodels.Approval, error) {
	rec := dbmodels.Approval{}
	err := i.db.
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Preload("Creator").
		Preload("Document").
		Preload("Project").
		Preload("Project.Members").
		Preload("Assignments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Assignments.User").
		Preload("Attachments").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Comments.Author").
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
		Model(&dbmodels.Approval{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) CompleteTransition(companyID, id string, status models.ApprovalStatus, decidedAt time.Time) (applied bool, err error) {
	updMap := map[string]interface{}{
		"status": status,
	}
	switch status {
	case models.ApprovalStatusApproved:
		updMap["approved_at"] = decidedAt
	case models.ApprovalStatusRejected:
		updMap["rejected_at"] = decidedAt
	default:
		return false, errors.Errorf("недопустимый терминальный статус: %v", status)
	}
	tx := i.db.
		Model(&dbmodels.Approval{}).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Where("status = ?", models.ApprovalStatusPending).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) Delete(companyID, id string) error {
	rec := dbmodels.Approval{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			CompanyID: companyID,
		},
	}
	err := i.db.
		Delete(&rec).
		Error

	if err != nil {
		return err
	}
	return nil
}

func (i impl) listQuery(companyID string, scope func(tx *gorm.DB) *gorm.DB, filter approvalapimodels.ApprovalFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.Approval{}).
		Where("approvals.company_id = ?", companyID).
		Scopes(scope)
	if filter.Status != "" {
		tx = tx.Where("approvals.status = ?", filter.Status)
	}
	if filter.Type != "" {
		tx = tx.Where("approvals.type = ?", filter.Type)
	}
	return tx
}

func (i impl) List(companyID string, scope func(tx *gorm.DB) *gorm.DB, filter approvalapimodels.ApprovalFilter) (list []dbmodels.Approval, err error) {
	list = []dbmodels.Approval{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	err = i.listQuery(companyID, scope, filter).
		Order("approvals.created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Creator").
		Preload("Project").
		Preload("Assignments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Assignments.User").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(companyID string, scope func(tx *gorm.DB) *gorm.DB, filter approvalapimodels.ApprovalFilter) (count int64, err error) {
	err = i.listQuery(companyID, scope, filter).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
