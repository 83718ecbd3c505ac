package dbmodels

import (
	"pm-tools-backend/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Approval - запрос на многостороннее согласование.
// Подчиненные записи (назначения, вложения, комментарии, история)
// живут и умирают вместе с согласованием.
type Approval struct {
	BaseCompanyModel
	Title                 string `gorm:"type:varchar(255)"`
	Description           string
	Type                  models.ApprovalType     `gorm:"type:varchar(50);index"`
	Status                models.ApprovalStatus   `gorm:"type:varchar(50);index"`
	Priority              models.ApprovalPriority `gorm:"type:varchar(50)"`
	DueDate               *time.Time
	RequireAllApprovals   bool
	AutoPublishOnApproval bool
	CreatorID             string       `gorm:"type:varchar(36);index"`
	Creator               *CompanyUser `gorm:"foreignKey:CreatorID"`
	DocumentID            *string      `gorm:"type:varchar(36)"`
	Document              *Document
	ProjectID             *string `gorm:"type:varchar(36);index"`
	Project               *Project
	ApprovedAt            *time.Time
	RejectedAt            *time.Time
	Assignments           []ApprovalAssignment `gorm:"foreignKey:ApprovalID"`
	Attachments           []ApprovalAttachment `gorm:"foreignKey:ApprovalID"`
	Comments              []ApprovalComment    `gorm:"foreignKey:ApprovalID"`
}

// ApprovalAssignment - голос одного участника.
// Инвариант: одна запись на пару (approval_id, user_id).
type ApprovalAssignment struct {
	BaseCompanyModel
	ApprovalID  string                `gorm:"type:varchar(36);index:idx_approval_assignee,unique"`
	UserID      string                `gorm:"type:varchar(36);index:idx_approval_assignee,unique"`
	User        *CompanyUser          `gorm:"foreignKey:UserID"`
	Status      models.ApprovalStatus `gorm:"type:varchar(50)"`
	Role        models.AssigneeRole   `gorm:"type:varchar(50)"`
	Order       int                   `gorm:"column:sort_order"`
	Comment     string
	RespondedAt *time.Time
}

// ApprovalAttachment - файл, приложенный к согласованию
type ApprovalAttachment struct {
	BaseCompanyModel
	ApprovalID  string       `gorm:"type:varchar(36);index"`
	UploaderID  string       `gorm:"type:varchar(36)"`
	Uploader    *CompanyUser `gorm:"foreignKey:UploaderID"`
	FileName    string       `gorm:"type:varchar(255)"`
	ContentType string       `gorm:"type:varchar(255)"`
	FileKey     string       `gorm:"type:varchar(255)"`
	Size        int64
}

// ApprovalHistory - журнал аудита, записи только добавляются
type ApprovalHistory struct {
	BaseCompanyModel
	ApprovalID string                `gorm:"type:varchar(36);index"`
	UserID     string                `gorm:"type:varchar(36)"`
	User       *CompanyUser          `gorm:"foreignKey:UserID"`
	Action     models.ApprovalAction `gorm:"type:varchar(50)"`
	Changes    EntityChanges         `gorm:"type:jsonb"`
}

type ApprovalComment struct {
	BaseCompanyModel
	ApprovalID string       `gorm:"type:varchar(36);index"`
	AuthorID   string       `gorm:"type:varchar(36)"`
	Author     *CompanyUser `gorm:"foreignKey:AuthorID"`
	Comment    string
}

// Подчищаем поддерево согласования одной транзакцией с удалением
func (a *Approval) AfterDelete(tx *gorm.DB) (err error) {
	if a.ID == "" {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("approval_id = ?", a.ID).Delete(&ApprovalAssignment{})
	tx.Clauses(clause.Returning{}).Where("approval_id = ?", a.ID).Delete(&ApprovalAttachment{})
	tx.Clauses(clause.Returning{}).Where("approval_id = ?", a.ID).Delete(&ApprovalComment{})
	tx.Clauses(clause.Returning{}).Where("approval_id = ?", a.ID).Delete(&ApprovalHistory{})
	return
}
