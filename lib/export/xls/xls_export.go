package xlsexport

import (
	"bytes"
	"fmt"
	dbmodels "pm-tools-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportApprovalList(list []dbmodels.Approval) (*bytes.Buffer, error)
	ExportApprovalHistory(rec dbmodels.Approval, list []dbmodels.ApprovalHistory) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const dateTimeFormat = "02.01.2006 15:04"

var approvalHeaders = []string{"Название", "Тип", "Приоритет", "Статус", "Инициатор", "Участники", "Срок", "Дата создания", "Дата решения"}

func (i impl) ExportApprovalList(list []dbmodels.Approval) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, approvalHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeApprovalData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Согласования")
	return f.WriteToBuffer()
}

func writeApprovalData(f *excelize.File, sheet string, list []dbmodels.Approval, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(approvalHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Название"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Title); err != nil {
			return row, err
		}

		// "Тип"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Type)); err != nil {
			return row, err
		}

		// "Приоритет"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Priority)); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		// "Инициатор"
		col++
		if item.Creator != nil {
			if err := writeColumn(f, sheet, col, row, item.Creator.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Участники"
		col++
		if err := writeColumn(f, sheet, col, row, assigneeNames(item.Assignments)); err != nil {
			return row, err
		}

		// "Срок"
		col++
		if item.DueDate != nil {
			if err := writeColumn(f, sheet, col, row, item.DueDate.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		// "Дата создания"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format(dateTimeFormat)); err != nil {
			return row, err
		}

		// "Дата решения"
		col++
		if decidedAt := item.ApprovedAt; decidedAt != nil {
			if err := writeColumn(f, sheet, col, row, decidedAt.Format(dateTimeFormat)); err != nil {
				return row, err
			}
		} else if decidedAt := item.RejectedAt; decidedAt != nil {
			if err := writeColumn(f, sheet, col, row, decidedAt.Format(dateTimeFormat)); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func assigneeNames(assignments []dbmodels.ApprovalAssignment) string {
	names := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.User == nil {
			continue
		}
		names = append(names, fmt.Sprintf("%v (%v)", assignment.User.GetFullName(), assignment.Status.ToHuman()))
	}
	return strings.Join(names, "\r")
}

var historyHeaders = []string{"Дата", "Пользователь", "Действие", "Изменения"}

func (i impl) ExportApprovalHistory(rec dbmodels.Approval, list []dbmodels.ApprovalHistory) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	if err := writeColumn(f, sheet, 1, 1, fmt.Sprintf("История согласования: %v", rec.Title)); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	row++
	row, err := writeHeader(f, sheet, row, historyHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeHistoryData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "История")
	return f.WriteToBuffer()
}

func writeHistoryData(f *excelize.File, sheet string, list []dbmodels.ApprovalHistory, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(historyHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Дата"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format(dateTimeFormat)); err != nil {
			return row, err
		}

		// "Пользователь"
		col++
		if item.User != nil {
			if err := writeColumn(f, sheet, col, row, item.User.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Действие"
		col++
		if err := writeColumn(f, sheet, col, row, item.Action.ToHuman()); err != nil {
			return row, err
		}

		// "Изменения"
		col++
		if err := writeColumn(f, sheet, col, row, changesText(item.Changes)); err != nil {
			return row, err
		}
	}
	return row, nil
}

func changesText(changes dbmodels.EntityChanges) string {
	lines := make([]string, 0, len(changes.Data)+1)
	if changes.Description != "" {
		lines = append(lines, changes.Description)
	}
	for _, change := range changes.Data {
		lines = append(lines, fmt.Sprintf("%v: %v -> %v", change.Field, change.OldValue, change.NewValue))
	}
	return strings.Join(lines, "\r")
}
