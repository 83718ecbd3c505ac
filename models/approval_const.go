package models

// Статус согласования (агрегат по всем голосам)
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

func (s ApprovalStatus) IsValidDecision() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:  "На согласовании",
	ApprovalStatusApproved: "Согласовано",
	ApprovalStatusRejected: "Отклонено",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// Тип согласования
type ApprovalType string

const (
	ApprovalTypeBudget   ApprovalType = "BUDGET"
	ApprovalTypeDocument ApprovalType = "DOCUMENT"
	ApprovalTypeTimeline ApprovalType = "TIMELINE"
	ApprovalTypeContract ApprovalType = "CONTRACT"
	ApprovalTypeOther    ApprovalType = "OTHER"
)

func (t ApprovalType) IsValid() bool {
	switch t {
	case ApprovalTypeBudget, ApprovalTypeDocument, ApprovalTypeTimeline, ApprovalTypeContract, ApprovalTypeOther:
		return true
	}
	return false
}

// Приоритет согласования
type ApprovalPriority string

const (
	ApprovalPriorityLow    ApprovalPriority = "LOW"
	ApprovalPriorityMedium ApprovalPriority = "MEDIUM"
	ApprovalPriorityHigh   ApprovalPriority = "HIGH"
	ApprovalPriorityUrgent ApprovalPriority = "URGENT"
)

func (p ApprovalPriority) IsValid() bool {
	switch p {
	case ApprovalPriorityLow, ApprovalPriorityMedium, ApprovalPriorityHigh, ApprovalPriorityUrgent:
		return true
	}
	return false
}

// Роль участника согласования, на исход голосования не влияет
type AssigneeRole string

const (
	AssigneeRoleApprover AssigneeRole = "APPROVER"
	AssigneeRoleReviewer AssigneeRole = "REVIEWER"
	AssigneeRoleObserver AssigneeRole = "OBSERVER"
)

func (r AssigneeRole) IsValid() bool {
	switch r {
	case AssigneeRoleApprover, AssigneeRoleReviewer, AssigneeRoleObserver:
		return true
	}
	return false
}

// Действие в истории согласования
type ApprovalAction string

const (
	ApprovalActionCreated    ApprovalAction = "created"
	ApprovalActionUpdated    ApprovalAction = "updated"
	ApprovalActionApproved   ApprovalAction = "approved"
	ApprovalActionRejected   ApprovalAction = "rejected"
	ApprovalActionOverridden ApprovalAction = "overridden"
	ApprovalActionDeleted    ApprovalAction = "deleted"
)

func (a ApprovalAction) ToHuman() string {
	switch a {
	case ApprovalActionCreated:
		return "Создано"
	case ApprovalActionUpdated:
		return "Изменено"
	case ApprovalActionApproved:
		return "Одобрено"
	case ApprovalActionRejected:
		return "Отклонено"
	case ApprovalActionOverridden:
		return "Решение принято вручную"
	case ApprovalActionDeleted:
		return "Удалено"
	}
	return string(a)
}

// Категория документа, создаваемого в библиотеке проекта при завершении согласования
const DocumentCategoryApproved = "APPROVED_DOCUMENT"
