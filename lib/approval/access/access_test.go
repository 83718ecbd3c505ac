package approvalaccess

import (
	"testing"

	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func approvalRec(companyID, creatorID string) dbmodels.Approval {
	return dbmodels.Approval{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: "approval-1"},
			CompanyID: companyID,
		},
		CreatorID: creatorID,
		Status:    models.ApprovalStatusPending,
	}
}

func TestCanView(t *testing.T) {
	t.Run(`cross tenant is invisible even for owner`, func(t *testing.T) {
		rec := approvalRec("company-b", "other")
		for _, role := range []models.UserRole{models.CompanyOwnerRole, models.CompanyAdminRole, models.CompanyUserRole} {
			caller := Caller{UserID: "user-1", CompanyID: "company-a", Role: role}
			require.False(t, CanView(caller, rec))
		}
	})

	t.Run(`owner and admin see all company approvals`, func(t *testing.T) {
		projectID := "project-1"
		rec := approvalRec("company-a", "other")
		rec.ProjectID = strPtr(projectID)
		for _, role := range []models.UserRole{models.CompanyOwnerRole, models.CompanyAdminRole} {
			caller := Caller{UserID: "user-1", CompanyID: "company-a", Role: role}
			require.True(t, CanView(caller, rec))
		}
	})

	t.Run(`creator sees own approval`, func(t *testing.T) {
		rec := approvalRec("company-a", "user-1")
		rec.ProjectID = strPtr("project-1")
		caller := Caller{UserID: "user-1", CompanyID: "company-a", Role: models.CompanyUserRole}
		require.True(t, CanView(caller, rec))
	})

	t.Run(`assignee sees approval`, func(t *testing.T) {
		rec := approvalRec("company-a", "other")
		rec.ProjectID = strPtr("project-1")
		rec.Assignments = []dbmodels.ApprovalAssignment{
			{UserID: "someone-else"},
			{UserID: "user-1"},
		}
		caller := Caller{UserID: "user-1", CompanyID: "company-a", Role: models.CompanyUserRole}
		require.True(t, CanView(caller, rec))
	})

	t.Run(`project member sees approval`, func(t *testing.T) {
		rec := approvalRec("company-a", "other")
		rec.ProjectID = strPtr("project-1")
		rec.Project = &dbmodels.Project{
			CreatorID: "other",
			Members: []dbmodels.ProjectMember{
				{ProjectID: "project-1", UserID: "user-1"},
			},
		}
		caller := Caller{UserID: "user-1", CompanyID: "company-a", Role: models.CompanyUserRole}
		require.True(t, CanView(caller, rec))
	})

	t.Run(`project creator sees approval`, func(t *testing.T) {
		rec := approvalRec("company-a", "other")
		rec.ProjectID = strPtr("project-1")
		rec.Project = &dbmodels.Project{CreatorID: "user-1"}
		caller := Caller{UserID: "user-1", CompanyID: "company-a", Role: models.CompanyUserRole}
		require.True(t, CanView(caller, rec))
	})

	t.Run(`unscoped approval visible company wide`, func(t *testing.T) {
		rec := approvalRec("company-a", "other")
		caller := Caller{UserID: "user-1", CompanyID: "company-a", Role: models.CompanyUserRole}
		require.True(t, CanView(caller, rec))
	})

	t.Run(`outsider user is denied`, func(t *testing.T) {
		rec := approvalRec("company-a", "other")
		rec.ProjectID = strPtr("project-1")
		rec.Project = &dbmodels.Project{
			CreatorID: "other",
			Members:   []dbmodels.ProjectMember{{ProjectID: "project-1", UserID: "someone-else"}},
		}
		rec.Assignments = []dbmodels.ApprovalAssignment{{UserID: "someone-else"}}
		caller := Caller{UserID: "user-1", CompanyID: "company-a", Role: models.CompanyUserRole}
		require.False(t, CanView(caller, rec))
	})
}
