package approvalhandler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"pm-tools-backend/db"
	approvalaccess "pm-tools-backend/lib/approval/access"
	approvalassignmentstore "pm-tools-backend/lib/approval/assignment-store"
	approvalattachmentstore "pm-tools-backend/lib/approval/attachment-store"
	approvalcommentstore "pm-tools-backend/lib/approval/comment-store"
	approvalhistorystore "pm-tools-backend/lib/approval/history-store"
	approvalstore "pm-tools-backend/lib/approval/store"
	companyusersstore "pm-tools-backend/lib/company/users/store"
	"pm-tools-backend/lib/consensus"
	documenthandler "pm-tools-backend/lib/document"
	documentstore "pm-tools-backend/lib/document/store"
	pdfexport "pm-tools-backend/lib/export/pdf"
	xlsexport "pm-tools-backend/lib/export/xls"
	filestorage "pm-tools-backend/lib/file-storage"
	notificationhandler "pm-tools-backend/lib/notification"
	projectstore "pm-tools-backend/lib/project/store"
	"pm-tools-backend/lib/utils/lock"
	"pm-tools-backend/models"
	approvalapimodels "pm-tools-backend/models/api/approval"
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(caller approvalaccess.Caller, data approvalapimodels.ApprovalCreateData) (id string, err error)
	List(caller approvalaccess.Caller, filter approvalapimodels.ApprovalFilter) (list []approvalapimodels.ApprovalView, rowCount int64, err error)
	GetByID(caller approvalaccess.Caller, id string) (view approvalapimodels.ApprovalView, err error)
	Respond(caller approvalaccess.Caller, id string, data approvalapimodels.ApprovalRespondData) (view approvalapimodels.ApprovalView, err error)
	OverrideStatus(caller approvalaccess.Caller, id string, data approvalapimodels.ApprovalOverrideData) (view approvalapimodels.ApprovalView, err error)
	Delete(caller approvalaccess.Caller, id string) error
	History(caller approvalaccess.Caller, id string) (list []approvalapimodels.HistoryView, err error)
	AddComment(caller approvalaccess.Caller, id string, data approvalapimodels.ApprovalCommentData) (commentID string, err error)
	Comments(caller approvalaccess.Caller, id string) (list []approvalapimodels.CommentView, err error)
	UploadAttachment(ctx context.Context, caller approvalaccess.Caller, id, fileName, contentType string, file []byte) (attachmentID string, err error)
	GetAttachment(ctx context.Context, caller approvalaccess.Caller, id, attachmentID string) (fileName, fileContentType string, body []byte, err error)
	ExportList(caller approvalaccess.Caller, filter approvalapimodels.ApprovalFilter) (*bytes.Buffer, error)
	ExportHistory(caller approvalaccess.Caller, id string) (*bytes.Buffer, error)
	SignOffSheet(caller approvalaccess.Caller, id string) (pdfFile []byte, err error)
}

var Instance Provider

// Максимальное время ожидания ключевой блокировки по согласованию
const respondLockWait = 5 * time.Second

func NewHandler() {
	Instance = impl{
		store:           approvalstore.NewInstance(db.DB),
		assignmentStore: approvalassignmentstore.NewInstance(db.DB),
		historyStore:    approvalhistorystore.NewInstance(db.DB),
		commentStore:    approvalcommentstore.NewInstance(db.DB),
		attachmentStore: approvalattachmentstore.NewInstance(db.DB),
		userStore:       companyusersstore.NewInstance(db.DB),
		projectStore:    projectstore.NewInstance(db.DB),
		documentStore:   documentstore.NewInstance(db.DB),
		fileStorage:     filestorage.Instance,
		notifier:        notificationhandler.Instance,
		transaction: func(fn func(p TxProviders) error) error {
			return db.DB.Transaction(func(tx *gorm.DB) error {
				return fn(newTxProviders(tx))
			})
		},
	}
}

// TxProviders - хранилища, пересобранные на транзакции
type TxProviders struct {
	Store           approvalstore.Provider
	AssignmentStore approvalassignmentstore.Provider
	HistoryStore    approvalhistorystore.Provider
	AttachmentStore approvalattachmentstore.Provider
	CommentStore    approvalcommentstore.Provider
	DocumentHandler documenthandler.Provider
}

func newTxProviders(tx *gorm.DB) TxProviders {
	return TxProviders{
		Store:           approvalstore.NewInstance(tx),
		AssignmentStore: approvalassignmentstore.NewInstance(tx),
		HistoryStore:    approvalhistorystore.NewInstance(tx),
		AttachmentStore: approvalattachmentstore.NewInstance(tx),
		CommentStore:    approvalcommentstore.NewInstance(tx),
		DocumentHandler: documenthandler.NewHandlerWithTx(tx),
	}
}

type impl struct {
	store           approvalstore.Provider
	assignmentStore approvalassignmentstore.Provider
	historyStore    approvalhistorystore.Provider
	commentStore    approvalcommentstore.Provider
	attachmentStore approvalattachmentstore.Provider
	userStore       companyusersstore.Provider
	projectStore    projectstore.Provider
	documentStore   documentstore.Provider
	fileStorage     filestorage.Provider
	notifier        notificationhandler.Provider
	transaction     func(fn func(p TxProviders) error) error
}

func (i impl) getLogger(caller approvalaccess.Caller, id string) *log.Entry {
	logger := log.
		WithField("company_id", caller.CompanyID).
		WithField("user_id", caller.UserID)
	if id != "" {
		logger = logger.WithField("rec_id", id)
	}
	return logger
}

// getRec загружает согласование и применяет фильтр доступа.
// Недоступная запись неотличима от отсутствующей.
func (i impl) getRec(caller approvalaccess.Caller, id string) (*dbmodels.Approval, error) {
	rec, err := i.store.GetByID(caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, models.ErrNotFound
	}
	if !approvalaccess.CanView(caller, *rec) {
		return nil, models.ErrNotFound
	}
	return rec, nil
}

func (i impl) Create(caller approvalaccess.Caller, data approvalapimodels.ApprovalCreateData) (id string, err error) {
	logger := i.getLogger(caller, "")
	if err = data.Validate(); err != nil {
		return "", errors.Wrap(models.ErrInvalidArgument, err.Error())
	}
	userIDs := make([]string, 0, len(data.Assignees))
	for _, assignee := range data.Assignees {
		userIDs = append(userIDs, assignee.UserID)
	}
	users, err := i.userStore.ListByIDs(caller.CompanyID, userIDs)
	if err != nil {
		return "", err
	}
	if len(users) != len(userIDs) {
		return "", errors.Wrap(models.ErrInvalidArgument, "участник согласования не найден в компании")
	}
	projectName := ""
	if data.ProjectID != "" {
		projectRec, err := i.projectStore.GetByID(caller.CompanyID, data.ProjectID)
		if err != nil {
			return "", err
		}
		if projectRec == nil {
			return "", errors.Wrap(models.ErrInvalidArgument, "проект не найден")
		}
		projectName = projectRec.Name
	}
	if data.DocumentID != "" {
		documentRec, err := i.documentStore.GetByID(caller.CompanyID, data.DocumentID)
		if err != nil {
			return "", err
		}
		if documentRec == nil {
			return "", errors.Wrap(models.ErrInvalidArgument, "документ не найден")
		}
	}

	rec := dbmodels.Approval{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: caller.CompanyID,
		},
		Title:                 data.Title,
		Description:           data.Description,
		Type:                  data.Type,
		Status:                models.ApprovalStatusPending,
		Priority:              data.Priority,
		DueDate:               data.DueDate,
		RequireAllApprovals:   data.RequireAllApprovals,
		AutoPublishOnApproval: data.AutoPublishOnApproval,
		CreatorID:             caller.UserID,
	}
	if rec.Priority == "" {
		rec.Priority = models.ApprovalPriorityMedium
	}
	if data.ProjectID != "" {
		rec.ProjectID = &data.ProjectID
	}
	if data.DocumentID != "" {
		rec.DocumentID = &data.DocumentID
	}

	err = i.transaction(func(p TxProviders) error {
		id, err = p.Store.Create(rec)
		if err != nil {
			logger.
				WithField("request", fmt.Sprintf("%+v", data)).
				WithError(err).
				Error("ошибка создания согласования")
			return err
		}
		for idx, assignee := range data.Assignees {
			role := assignee.Role
			if role == "" {
				role = models.AssigneeRoleApprover
			}
			assignmentRec := dbmodels.ApprovalAssignment{
				BaseCompanyModel: dbmodels.BaseCompanyModel{
					CompanyID: caller.CompanyID,
				},
				ApprovalID: id,
				UserID:     assignee.UserID,
				Status:     models.ApprovalStatusPending,
				Role:       role,
				Order:      idx,
			}
			if _, err = p.AssignmentStore.Create(assignmentRec); err != nil {
				return err
			}
		}
		_, err = p.HistoryStore.Create(dbmodels.ApprovalHistory{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				CompanyID: caller.CompanyID,
			},
			ApprovalID: id,
			UserID:     caller.UserID,
			Action:     models.ApprovalActionCreated,
			Changes: dbmodels.EntityChanges{
				Description: "Создано согласование",
			},
		})
		return err
	})
	if err != nil {
		return "", err
	}
	logger.
		WithField("rec_id", id).
		Info("создано согласование")

	i.notifier.NotifyAll(userIDs, models.GetPushApprovalNew(rec.Title, projectName))
	return id, nil
}

func (i impl) List(caller approvalaccess.Caller, filter approvalapimodels.ApprovalFilter) (list []approvalapimodels.ApprovalView, rowCount int64, err error) {
	if err = filter.Validate(); err != nil {
		return nil, 0, errors.Wrap(models.ErrInvalidArgument, err.Error())
	}
	scope := approvalaccess.Scope(caller)
	rowCount, err = i.store.ListCount(caller.CompanyID, scope, filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []approvalapimodels.ApprovalView{}, rowCount, nil
	}
	recs, err := i.store.List(caller.CompanyID, scope, filter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]approvalapimodels.ApprovalView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, approvalapimodels.ApprovalConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) GetByID(caller approvalaccess.Caller, id string) (view approvalapimodels.ApprovalView, err error) {
	rec, err := i.getRec(caller, id)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	return approvalapimodels.ApprovalConvert(*rec), nil
}

func (i impl) Respond(caller approvalaccess.Caller, id string, data approvalapimodels.ApprovalRespondData) (view approvalapimodels.ApprovalView, err error) {
	logger := i.getLogger(caller, id)
	if err = data.Validate(); err != nil {
		return approvalapimodels.ApprovalView{}, errors.Wrap(models.ErrInvalidArgument, err.Error())
	}

	var completed bool
	var completedStatus models.ApprovalStatus
	var approvalTitle string
	var creatorID string
	var assigneeIDs []string

	lockKey := fmt.Sprintf("approval_respond_%v", id)
	locked, err := lock.WithDelay(context.Background(), lockKey, respondLockWait, func() error {
		return i.transaction(func(p TxProviders) error {
			rec, err := p.Store.GetByID(caller.CompanyID, id)
			if err != nil {
				return err
			}
			if rec == nil {
				return models.ErrNotFound
			}
			if rec.CompanyID != caller.CompanyID {
				return models.ErrForbidden
			}
			assignment, err := p.AssignmentStore.GetByApprovalAndUser(caller.CompanyID, id, caller.UserID)
			if err != nil {
				return err
			}
			if assignment == nil {
				return models.ErrForbidden
			}
			approvalTitle = rec.Title
			creatorID = rec.CreatorID
			for _, item := range rec.Assignments {
				assigneeIDs = append(assigneeIDs, item.UserID)
			}

			// голос перезаписываемый, решение фиксируем всегда
			now := time.Now()
			updMap := map[string]interface{}{
				"status":       data.Status,
				"comment":      data.Comment,
				"responded_at": now,
			}
			if err = p.AssignmentStore.Update(caller.CompanyID, assignment.ID, updMap); err != nil {
				return err
			}

			assignments, err := p.AssignmentStore.List(caller.CompanyID, id)
			if err != nil {
				return err
			}
			computed := consensus.Evaluate(assignments, rec.RequireAllApprovals)
			if computed.IsTerminal() {
				// завершить согласование может только один из конкурирующих ответов
				applied, err := p.Store.CompleteTransition(caller.CompanyID, id, computed, now)
				if err != nil {
					return err
				}
				if applied {
					completed = true
					completedStatus = computed
					if computed == models.ApprovalStatusApproved {
						if err = i.runCompletion(p, *rec, caller.UserID, now); err != nil {
							return err
						}
					}
				}
			}

			action := models.ApprovalActionApproved
			if data.Status == models.ApprovalStatusRejected {
				action = models.ApprovalActionRejected
			}
			_, err = p.HistoryStore.Create(dbmodels.ApprovalHistory{
				BaseCompanyModel: dbmodels.BaseCompanyModel{
					CompanyID: caller.CompanyID,
				},
				ApprovalID: id,
				UserID:     caller.UserID,
				Action:     action,
				Changes: dbmodels.EntityChanges{
					Description: data.Comment,
					Data: []dbmodels.FieldChanges{
						{Field: "status", OldValue: string(assignment.Status), NewValue: string(data.Status)},
					},
				},
			})
			return err
		})
	})
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	if !locked {
		return approvalapimodels.ApprovalView{}, models.ErrConflict
	}
	logger.
		WithField("decision", string(data.Status)).
		Info("получен ответ по согласованию")

	// уведомления строго после фиксации транзакции
	responderName := i.userName(caller.UserID)
	i.notifier.Notify(creatorID, models.GetPushApprovalResponse(responderName, data.Status, approvalTitle))
	if completed {
		i.notifier.NotifyAll(completedRecipients(assigneeIDs, creatorID), models.GetPushApprovalCompleted(approvalTitle, completedStatus))
	}

	return i.GetByID(caller, id)
}

// runCompletion выполняет побочные эффекты перехода в APPROVED.
// Вызывается только внутри транзакции и только после успешного
// перехода PENDING -> APPROVED.
func (i impl) runCompletion(p TxProviders, rec dbmodels.Approval, responderID string, completedAt time.Time) error {
	if rec.DocumentID != nil && rec.AutoPublishOnApproval {
		if err := p.DocumentHandler.Publish(rec.CompanyID, *rec.DocumentID, completedAt); err != nil {
			return err
		}
	}
	if rec.ProjectID == nil {
		return nil
	}
	attachments, err := p.AttachmentStore.List(rec.CompanyID, rec.ID)
	if err != nil {
		return err
	}
	for _, attachment := range attachments {
		if _, err = p.DocumentHandler.CreateFromAttachment(attachment, *rec.ProjectID, responderID, completedAt); err != nil {
			return err
		}
	}
	return nil
}

func (i impl) OverrideStatus(caller approvalaccess.Caller, id string, data approvalapimodels.ApprovalOverrideData) (view approvalapimodels.ApprovalView, err error) {
	logger := i.getLogger(caller, id)
	if err = data.Validate(); err != nil {
		return approvalapimodels.ApprovalView{}, errors.Wrap(models.ErrInvalidArgument, err.Error())
	}
	if !caller.Role.IsPrivileged() {
		return approvalapimodels.ApprovalView{}, models.ErrForbidden
	}

	var approvalTitle string
	var creatorID string
	var assigneeIDs []string

	err = i.transaction(func(p TxProviders) error {
		rec, err := p.Store.GetByID(caller.CompanyID, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return models.ErrNotFound
		}
		approvalTitle = rec.Title
		creatorID = rec.CreatorID
		for _, item := range rec.Assignments {
			assigneeIDs = append(assigneeIDs, item.UserID)
		}

		now := time.Now()
		applied, err := p.Store.CompleteTransition(caller.CompanyID, id, data.Status, now)
		if err != nil {
			return err
		}
		if !applied {
			return models.ErrConflict
		}
		if data.Status == models.ApprovalStatusApproved {
			if err = i.runCompletion(p, *rec, caller.UserID, now); err != nil {
				return err
			}
		}
		// голоса участников не переписываются, остаются историей мнений
		_, err = p.HistoryStore.Create(dbmodels.ApprovalHistory{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				CompanyID: caller.CompanyID,
			},
			ApprovalID: id,
			UserID:     caller.UserID,
			Action:     models.ApprovalActionOverridden,
			Changes: dbmodels.EntityChanges{
				Description: data.Comment,
				Data: []dbmodels.FieldChanges{
					{Field: "status", OldValue: string(models.ApprovalStatusPending), NewValue: string(data.Status)},
				},
			},
		})
		return err
	})
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	logger.
		WithField("status", string(data.Status)).
		Info("статус согласования установлен вручную")

	i.notifier.NotifyAll(completedRecipients(assigneeIDs, creatorID), models.GetPushApprovalCompleted(approvalTitle, data.Status))
	return i.GetByID(caller, id)
}

func (i impl) Delete(caller approvalaccess.Caller, id string) error {
	logger := i.getLogger(caller, id)
	if _, err := i.getRec(caller, id); err != nil {
		return err
	}
	if err := i.store.Delete(caller.CompanyID, id); err != nil {
		logger.
			WithError(err).
			Error("ошибка удаления согласования")
		return err
	}
	logger.Info("удалено согласование")
	return nil
}

func (i impl) History(caller approvalaccess.Caller, id string) (list []approvalapimodels.HistoryView, err error) {
	if _, err = i.getRec(caller, id); err != nil {
		return nil, err
	}
	recs, err := i.historyStore.List(caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	list = make([]approvalapimodels.HistoryView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, approvalapimodels.HistoryConvert(rec))
	}
	return list, nil
}

func (i impl) AddComment(caller approvalaccess.Caller, id string, data approvalapimodels.ApprovalCommentData) (commentID string, err error) {
	if err = data.Validate(); err != nil {
		return "", errors.Wrap(models.ErrInvalidArgument, err.Error())
	}
	if _, err = i.getRec(caller, id); err != nil {
		return "", err
	}
	return i.commentStore.Create(dbmodels.ApprovalComment{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: caller.CompanyID,
		},
		ApprovalID: id,
		AuthorID:   caller.UserID,
		Comment:    data.Comment,
	})
}

func (i impl) Comments(caller approvalaccess.Caller, id string) (list []approvalapimodels.CommentView, err error) {
	if _, err = i.getRec(caller, id); err != nil {
		return nil, err
	}
	recs, err := i.commentStore.List(caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	list = make([]approvalapimodels.CommentView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, approvalapimodels.CommentConvert(rec))
	}
	return list, nil
}

func (i impl) UploadAttachment(ctx context.Context, caller approvalaccess.Caller, id, fileName, contentType string, file []byte) (attachmentID string, err error) {
	logger := i.getLogger(caller, id)
	if fileName == "" || len(file) == 0 {
		return "", errors.Wrap(models.ErrInvalidArgument, "пустой файл вложения")
	}
	rec, err := i.getRec(caller, id)
	if err != nil {
		return "", err
	}
	if rec.Status.IsTerminal() {
		return "", errors.Wrap(models.ErrConflict, "согласование завершено, вложения не принимаются")
	}
	fileKey, err := i.fileStorage.UploadAttachment(ctx, caller.CompanyID, id, fileName, contentType, file)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка сохранения файла вложения")
		return "", err
	}
	return i.attachmentStore.Create(dbmodels.ApprovalAttachment{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			CompanyID: caller.CompanyID,
		},
		ApprovalID:  id,
		UploaderID:  caller.UserID,
		FileName:    fileName,
		ContentType: contentType,
		FileKey:     fileKey,
		Size:        int64(len(file)),
	})
}

func (i impl) GetAttachment(ctx context.Context, caller approvalaccess.Caller, id, attachmentID string) (fileName, fileContentType string, body []byte, err error) {
	if _, err = i.getRec(caller, id); err != nil {
		return "", "", nil, err
	}
	attachment, err := i.attachmentStore.GetByID(caller.CompanyID, attachmentID)
	if err != nil {
		return "", "", nil, err
	}
	if attachment == nil || attachment.ApprovalID != id {
		return "", "", nil, models.ErrNotFound
	}
	body, err = i.fileStorage.GetFile(ctx, caller.CompanyID, attachment.FileKey)
	if err != nil {
		return "", "", nil, err
	}
	return attachment.FileName, attachment.ContentType, body, nil
}

func (i impl) ExportList(caller approvalaccess.Caller, filter approvalapimodels.ApprovalFilter) (*bytes.Buffer, error) {
	if err := filter.Validate(); err != nil {
		return nil, errors.Wrap(models.ErrInvalidArgument, err.Error())
	}
	// выгружается весь реестр, пагинация фильтра не используется
	filter.Page = 1
	filter.Limit = exportLimit
	recs, err := i.store.List(caller.CompanyID, approvalaccess.Scope(caller), filter)
	if err != nil {
		return nil, err
	}
	return xlsexport.Instance.ExportApprovalList(recs)
}

const exportLimit = 10000

func (i impl) ExportHistory(caller approvalaccess.Caller, id string) (*bytes.Buffer, error) {
	rec, err := i.getRec(caller, id)
	if err != nil {
		return nil, err
	}
	recs, err := i.historyStore.List(caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	return xlsexport.Instance.ExportApprovalHistory(*rec, recs)
}

func (i impl) SignOffSheet(caller approvalaccess.Caller, id string) (pdfFile []byte, err error) {
	rec, err := i.getRec(caller, id)
	if err != nil {
		return nil, err
	}
	if !rec.Status.IsTerminal() {
		return nil, errors.Wrap(models.ErrConflict, "лист согласования доступен после завершения")
	}
	return pdfexport.GenerateSignOffSheet(*rec)
}

// completedRecipients - все участники плюс инициатор, без дублей
func completedRecipients(assigneeIDs []string, creatorID string) []string {
	for _, id := range assigneeIDs {
		if id == creatorID {
			return assigneeIDs
		}
	}
	return append(assigneeIDs, creatorID)
}

func (i impl) userName(userID string) string {
	user, err := i.userStore.GetByID(userID)
	if err != nil || user == nil {
		return models.SystemUser
	}
	return user.GetFullName()
}
