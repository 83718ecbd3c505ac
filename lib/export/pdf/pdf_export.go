package pdfexport

import (
	"bytes"
	"fmt"
	dbmodels "pm-tools-backend/models/db"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	dateTimeFormat = "02.01.2006 15:04"
	signColWidth   = 50.0
)

// GenerateSignOffSheet формирует лист согласования в pdf:
// шапка с реквизитами запроса и таблица участников с их решениями.
func GenerateSignOffSheet(rec dbmodels.Approval) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateSignOffSheet panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.SetFont("Arial", "B", 14)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.CellFormat(0, 10, "Лист согласования", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	writeField(pdf, "Название", rec.Title)
	writeField(pdf, "Тип", string(rec.Type))
	writeField(pdf, "Статус", rec.Status.ToHuman())
	if rec.Creator != nil {
		writeField(pdf, "Инициатор", rec.Creator.GetFullName())
	}
	if rec.Project != nil {
		writeField(pdf, "Проект", rec.Project.Name)
	}
	writeField(pdf, "Дата создания", rec.CreatedAt.Format(dateTimeFormat))
	if decidedAt := decisionDate(rec); decidedAt != nil {
		writeField(pdf, "Дата решения", decidedAt.Format(dateTimeFormat))
	}
	pdf.Ln(6)

	writeAssignmentTable(pdf, rec.Assignments)

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeField(pdf *fpdf.Fpdf, name, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(signColWidth, 7, fmt.Sprintf("%v:", name), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 7, value, "", "L", false)
}

func writeAssignmentTable(pdf *fpdf.Fpdf, assignments []dbmodels.ApprovalAssignment) {
	colWidths := []float64{60, 35, 35, 60}
	headers := []string{"Участник", "Роль", "Решение", "Дата и комментарий"}

	pdf.SetFont("Arial", "B", 11)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, assignment := range assignments {
		name := ""
		if assignment.User != nil {
			name = assignment.User.GetFullName()
		}
		decision := assignment.Status.ToHuman()
		note := ""
		if assignment.RespondedAt != nil {
			note = assignment.RespondedAt.Format(dateTimeFormat)
		}
		if assignment.Comment != "" {
			if note != "" {
				note += " "
			}
			note += assignment.Comment
		}
		pdf.CellFormat(colWidths[0], 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, string(assignment.Role), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, decision, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, note, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}

func decisionDate(rec dbmodels.Approval) *time.Time {
	if rec.ApprovedAt != nil {
		return rec.ApprovedAt
	}
	return rec.RejectedAt
}
