package documenthandler

import (
	"time"

	"pm-tools-backend/db"
	documentstore "pm-tools-backend/lib/document/store"
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Publish(companyID, documentID string, publishedAt time.Time) error
	// CreateFromAttachment копирует вложение согласования в библиотеку
	// документов проекта как опубликованный документ
	CreateFromAttachment(attachment dbmodels.ApprovalAttachment, projectID, creatorID string, publishedAt time.Time) (id string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: documentstore.NewInstance(db.DB),
	}
}

func NewHandlerWithTx(tx *gorm.DB) Provider {
	return impl{
		store: documentstore.NewInstance(tx),
	}
}

type impl struct {
	store documentstore.Provider
}

func (i impl) Publish(companyID, documentID string, publishedAt time.Time) error {
	rec, err := i.store.GetByID(companyID, documentID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Wrapf(models.ErrNotFound, "документ %v не найден", documentID)
	}
	updMap := map[string]interface{}{
		"is_published": true,
		"published_at": publishedAt,
	}
	return i.store.Update(companyID, documentID, updMap)
}

func (i impl) CreateFromAttachment(attachment dbmodels.ApprovalAttachment, projectID, creatorID string, publishedAt time.Time) (id string, err error) {
	rec := dbmodels.Document{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: attachment.CompanyID,
		},
		Title:       attachment.FileName,
		Category:    models.DocumentCategoryApproved,
		ProjectID:   &projectID,
		CreatorID:   creatorID,
		FileName:    attachment.FileName,
		ContentType: attachment.ContentType,
		FileKey:     attachment.FileKey,
		Tags:        pq.StringArray{models.DocumentCategoryApproved},
		IsPublished: true,
		PublishedAt: &publishedAt,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrapf(err, "ошибка копирования вложения %v в документы проекта %v", attachment.ID, projectID)
	}
	return id, nil
}
