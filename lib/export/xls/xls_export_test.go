package xlsexport

import (
	"testing"
	"time"

	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportApprovalList(t *testing.T) {
	NewHandler()
	approvedAt := time.Date(2026, 2, 10, 12, 30, 0, 0, time.UTC)
	list := []dbmodels.Approval{
		{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				BaseModel: dbmodels.BaseModel{ID: "a1", CreatedAt: approvedAt.Add(-48 * time.Hour)},
				CompanyID: "c1",
			},
			Title:      "Смета по корпусу Б",
			Type:       models.ApprovalTypeBudget,
			Priority:   models.ApprovalPriorityHigh,
			Status:     models.ApprovalStatusApproved,
			ApprovedAt: &approvedAt,
			Creator: &dbmodels.CompanyUser{
				FirstName: "Петр",
				LastName:  "Иванов",
			},
			Assignments: []dbmodels.ApprovalAssignment{
				{
					Status: models.ApprovalStatusApproved,
					User:   &dbmodels.CompanyUser{FirstName: "Анна", LastName: "Смирнова"},
				},
			},
		},
	}

	buf, err := Instance.ExportApprovalList(list)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Согласования"
	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "Название", header)

	title, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "Смета по корпусу Б", title)

	status, err := f.GetCellValue(sheet, "D2")
	require.NoError(t, err)
	require.Equal(t, "Согласовано", status)
}

func TestExportApprovalHistory(t *testing.T) {
	NewHandler()
	rec := dbmodels.Approval{Title: "Договор подряда"}
	list := []dbmodels.ApprovalHistory{
		{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				BaseModel: dbmodels.BaseModel{ID: "h1", CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
			},
			Action: models.ApprovalActionCreated,
			User:   &dbmodels.CompanyUser{FirstName: "Петр", LastName: "Иванов"},
			Changes: dbmodels.EntityChanges{
				Description: "Создано согласование",
			},
		},
	}

	buf, err := Instance.ExportApprovalHistory(rec, list)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "История"
	caption, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "История согласования: Договор подряда", caption)

	action, err := f.GetCellValue(sheet, "C3")
	require.NoError(t, err)
	require.Equal(t, "Создано", action)
}
