package approvalaccess

import (
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"gorm.io/gorm"
)

// Caller - данные пользователя из токена
type Caller struct {
	UserID    string
	CompanyID string
	Role      models.UserRole
}

// CanView проверяет доступ к конкретному согласованию.
// Запись должна быть загружена с Assignments и Project.Members.
// Правила:
//   - чужая компания - нет доступа ни для какой роли;
//   - владелец и администратор видят все согласования компании;
//   - остальные: свои, назначенные на них, по проектам где они
//     создатель или участник, и согласования без проекта.
func CanView(caller Caller, rec dbmodels.Approval) bool {
	if rec.CompanyID != caller.CompanyID {
		return false
	}
	if caller.Role.IsPrivileged() {
		return true
	}
	if rec.CreatorID == caller.UserID {
		return true
	}
	for _, assignment := range rec.Assignments {
		if assignment.UserID == caller.UserID {
			return true
		}
	}
	if rec.ProjectID == nil {
		// общие согласования компании видны всем ее пользователям
		return true
	}
	if rec.Project != nil {
		if rec.Project.CreatorID == caller.UserID {
			return true
		}
		for _, member := range rec.Project.Members {
			if member.UserID == caller.UserID {
				return true
			}
		}
	}
	return false
}

// Scope возвращает предикат видимости для списочных запросов,
// эквивалентный CanView
func Scope(caller Caller) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("approvals.company_id = ?", caller.CompanyID)
		if caller.Role.IsPrivileged() {
			return tx
		}
		return tx.Where(
			`approvals.creator_id = @uid
			OR approvals.project_id IS NULL
			OR EXISTS (SELECT 1 FROM approval_assignments aa
				WHERE aa.approval_id = approvals.id AND aa.user_id = @uid)
			OR EXISTS (SELECT 1 FROM projects p
				WHERE p.id = approvals.project_id AND p.creator_id = @uid)
			OR EXISTS (SELECT 1 FROM project_members pm
				WHERE pm.project_id = approvals.project_id AND pm.user_id = @uid)`,
			map[string]interface{}{"uid": caller.UserID},
		)
	}
}
