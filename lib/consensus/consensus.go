package consensus

import (
	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"
)

// Evaluate вычисляет агрегированный статус согласования по голосам участников.
// Чистая функция, можно вызывать повторно на любом срезе голосов.
//
// requireAll=true: согласовано только при единогласном APPROVED,
// один голос REJECTED завершает согласование отказом, не дожидаясь остальных.
// requireAll=false: достаточно одного APPROVED,
// но REJECTED имеет приоритет независимо от порядка голосов.
//
// Пустой список голосов всегда дает PENDING - "единогласие" на нуле
// участников не считается согласованием.
func Evaluate(assignments []dbmodels.ApprovalAssignment, requireAll bool) models.ApprovalStatus {
	if len(assignments) == 0 {
		return models.ApprovalStatusPending
	}

	anyApproved := false
	anyRejected := false
	allApproved := true
	for _, item := range assignments {
		switch item.Status {
		case models.ApprovalStatusApproved:
			anyApproved = true
		case models.ApprovalStatusRejected:
			anyRejected = true
			allApproved = false
		default:
			allApproved = false
		}
	}

	// отказ доминирует в обоих режимах
	if anyRejected {
		return models.ApprovalStatusRejected
	}
	if requireAll {
		if allApproved {
			return models.ApprovalStatusApproved
		}
		return models.ApprovalStatusPending
	}
	if anyApproved {
		return models.ApprovalStatusApproved
	}
	return models.ApprovalStatusPending
}
