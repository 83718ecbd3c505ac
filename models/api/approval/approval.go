package approvalapimodels

import (
	"pm-tools-backend/models"
	apimodels "pm-tools-backend/models/api"
	dbmodels "pm-tools-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type AssigneeData struct {
	UserID string              `json:"user_id"`
	Role   models.AssigneeRole `json:"role"`
}

func (a AssigneeData) Validate() error {
	if a.UserID == "" {
		return errors.New("отсутствует идентификатор пользователя")
	}
	if a.Role != "" && !a.Role.IsValid() {
		return errors.Errorf("недопустимая роль участника: %v", a.Role)
	}
	return nil
}

type ApprovalCreateData struct {
	Title                 string                  `json:"title"`
	Description           string                  `json:"description"`
	Type                  models.ApprovalType     `json:"type"`
	Priority              models.ApprovalPriority `json:"priority"`
	DueDate               *time.Time              `json:"due_date"`
	DocumentID            string                  `json:"document_id"`
	ProjectID             string                  `json:"project_id"`
	Assignees             []AssigneeData          `json:"assignees"`
	RequireAllApprovals   bool                    `json:"require_all_approvals"`
	AutoPublishOnApproval bool                    `json:"auto_publish_on_approval"`
}

func (v ApprovalCreateData) Validate() error {
	if strings.TrimSpace(v.Title) == "" {
		return errors.New("отсутствует название согласования")
	}
	if !v.Type.IsValid() {
		return errors.Errorf("недопустимый тип согласования: %v", v.Type)
	}
	if v.Priority != "" && !v.Priority.IsValid() {
		return errors.Errorf("недопустимый приоритет: %v", v.Priority)
	}
	if len(v.Assignees) == 0 {
		return errors.New("не указаны участники согласования")
	}
	seen := map[string]bool{}
	for _, item := range v.Assignees {
		if err := item.Validate(); err != nil {
			return err
		}
		if seen[item.UserID] {
			return errors.Errorf("участник %v указан более одного раза", item.UserID)
		}
		seen[item.UserID] = true
	}
	return nil
}

type ApprovalRespondData struct {
	Status  models.ApprovalStatus `json:"status"`
	Comment string                `json:"comment"`
}

func (v ApprovalRespondData) Validate() error {
	if !v.Status.IsValidDecision() {
		return errors.Errorf("недопустимое решение: %v, ожидается APPROVED или REJECTED", v.Status)
	}
	return nil
}

type ApprovalOverrideData struct {
	Status  models.ApprovalStatus `json:"status"`
	Comment string                `json:"comment"`
}

func (v ApprovalOverrideData) Validate() error {
	if !v.Status.IsValidDecision() {
		return errors.Errorf("недопустимый статус: %v, ожидается APPROVED или REJECTED", v.Status)
	}
	return nil
}

type ApprovalCommentData struct {
	Comment string `json:"comment"`
}

func (v ApprovalCommentData) Validate() error {
	if strings.TrimSpace(v.Comment) == "" {
		return errors.New("отсутствует комментарий")
	}
	return nil
}

type ApprovalFilter struct {
	apimodels.Pagination
	Status models.ApprovalStatus `json:"status" query:"status"`
	Type   models.ApprovalType   `json:"type" query:"type"`
}

func (v ApprovalFilter) Validate() error {
	if v.Status != "" && v.Status != models.ApprovalStatusPending && !v.Status.IsValidDecision() {
		return errors.Errorf("недопустимый статус фильтра: %v", v.Status)
	}
	if v.Type != "" && !v.Type.IsValid() {
		return errors.Errorf("недопустимый тип фильтра: %v", v.Type)
	}
	return nil
}

type AssignmentView struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	UserName    string                `json:"user_name"`
	Status      models.ApprovalStatus `json:"status"`
	Role        models.AssigneeRole   `json:"role"`
	Order       int                   `json:"order"`
	Comment     string                `json:"comment,omitempty"`
	RespondedAt *time.Time            `json:"responded_at,omitempty"`
}

func AssignmentConvert(rec dbmodels.ApprovalAssignment) AssignmentView {
	userName := ""
	if rec.User != nil {
		userName = strings.TrimSpace(rec.User.GetFullName())
	}
	return AssignmentView{
		ID:          rec.ID,
		UserID:      rec.UserID,
		UserName:    userName,
		Status:      rec.Status,
		Role:        rec.Role,
		Order:       rec.Order,
		Comment:     rec.Comment,
		RespondedAt: rec.RespondedAt,
	}
}

type AttachmentView struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploaderID  string    `json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func AttachmentConvert(rec dbmodels.ApprovalAttachment) AttachmentView {
	return AttachmentView{
		ID:          rec.ID,
		FileName:    rec.FileName,
		ContentType: rec.ContentType,
		Size:        rec.Size,
		UploaderID:  rec.UploaderID,
		CreatedAt:   rec.CreatedAt,
	}
}

type CommentView struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func CommentConvert(rec dbmodels.ApprovalComment) CommentView {
	authorName := ""
	if rec.Author != nil {
		authorName = strings.TrimSpace(rec.Author.GetFullName())
	}
	return CommentView{
		ID:         rec.ID,
		AuthorID:   rec.AuthorID,
		AuthorName: authorName,
		Comment:    rec.Comment,
		CreatedAt:  rec.CreatedAt,
	}
}

type HistoryView struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	UserName  string                 `json:"user_name"`
	Action    models.ApprovalAction  `json:"action"`
	Changes   dbmodels.EntityChanges `json:"changes"` // Изменения
	CreatedAt time.Time              `json:"created_at"`
}

func HistoryConvert(rec dbmodels.ApprovalHistory) HistoryView {
	userName := ""
	if rec.User != nil {
		userName = strings.TrimSpace(rec.User.GetFullName())
	}
	return HistoryView{
		ID:        rec.ID,
		UserID:    rec.UserID,
		UserName:  userName,
		Action:    rec.Action,
		Changes:   rec.Changes,
		CreatedAt: rec.CreatedAt,
	}
}

type ApprovalView struct {
	ID                    string                  `json:"id"`
	Title                 string                  `json:"title"`
	Description           string                  `json:"description,omitempty"`
	Type                  models.ApprovalType     `json:"type"`
	Status                models.ApprovalStatus   `json:"status"`
	Priority              models.ApprovalPriority `json:"priority"`
	DueDate               *time.Time              `json:"due_date,omitempty"`
	RequireAllApprovals   bool                    `json:"require_all_approvals"`
	AutoPublishOnApproval bool                    `json:"auto_publish_on_approval"`
	CreatorID             string                  `json:"creator_id"`
	CreatorName           string                  `json:"creator_name"`
	DocumentID            *string                 `json:"document_id,omitempty"`
	ProjectID             *string                 `json:"project_id,omitempty"`
	ProjectName           string                  `json:"project_name,omitempty"`
	ApprovedAt            *time.Time              `json:"approved_at,omitempty"`
	RejectedAt            *time.Time              `json:"rejected_at,omitempty"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
	Assignments           []AssignmentView        `json:"assignments"`
	Attachments           []AttachmentView        `json:"attachments,omitempty"`
	Comments              []CommentView           `json:"comments,omitempty"`
}

func ApprovalConvert(rec dbmodels.Approval) ApprovalView {
	view := ApprovalView{
		ID:                    rec.ID,
		Title:                 rec.Title,
		Description:           rec.Description,
		Type:                  rec.Type,
		Status:                rec.Status,
		Priority:              rec.Priority,
		DueDate:               rec.DueDate,
		RequireAllApprovals:   rec.RequireAllApprovals,
		AutoPublishOnApproval: rec.AutoPublishOnApproval,
		CreatorID:             rec.CreatorID,
		DocumentID:            rec.DocumentID,
		ProjectID:             rec.ProjectID,
		ApprovedAt:            rec.ApprovedAt,
		RejectedAt:            rec.RejectedAt,
		CreatedAt:             rec.CreatedAt,
		UpdatedAt:             rec.UpdatedAt,
	}
	if rec.Creator != nil {
		view.CreatorName = strings.TrimSpace(rec.Creator.GetFullName())
	}
	if rec.Project != nil {
		view.ProjectName = rec.Project.Name
	}
	view.Assignments = make([]AssignmentView, 0, len(rec.Assignments))
	for _, item := range rec.Assignments {
		view.Assignments = append(view.Assignments, AssignmentConvert(item))
	}
	view.Attachments = make([]AttachmentView, 0, len(rec.Attachments))
	for _, item := range rec.Attachments {
		view.Attachments = append(view.Attachments, AttachmentConvert(item))
	}
	view.Comments = make([]CommentView, 0, len(rec.Comments))
	for _, item := range rec.Comments {
		view.Comments = append(view.Comments, CommentConvert(item))
	}
	return view
}
