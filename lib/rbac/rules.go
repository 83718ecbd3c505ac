package rbac

import (
	"pm-tools-backend/models"
)

var (
	OwnerAdminRoleSet        = []models.UserRole{models.CompanyOwnerRole, models.CompanyAdminRole}
	OwnerAdminManagerRoleSet = []models.UserRole{models.CompanyOwnerRole, models.CompanyAdminRole, models.CompanyManagerRole}
	AllRoles                 = []models.UserRole{models.CompanyOwnerRole, models.CompanyAdminRole, models.CompanyManagerRole, models.CompanyUserRole}
)

func (i *impl) initRules() {
	i.addApprovalRbac()
	i.addUsersRbac()
}

func (i *impl) addApprovalRbac() {
	//VIEW
	// видимость внутри компании дорезается фильтром доступа в обработчике
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/company/approvals [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/company/approvals/{id} [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/company/approvals/{id}/history [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/company/approvals/{id}/comments [get]", nil)
	//CREATE/EDIT
	i.RegisterRule(models.ApprovalModule, models.CreatePermission, AllRoles, "/api/v1/company/approvals [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.EditPermission, AllRoles, "/api/v1/company/approvals/{id} [delete]", nil)
	i.RegisterRule(models.ApprovalModule, models.EditPermission, AllRoles, "/api/v1/company/approvals/{id}/comment [post]", nil)
	//FLOW
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, AllRoles, "/api/v1/company/approvals/{id}/respond [post]", nil)
	//OVERRIDE
	i.RegisterRule(models.ApprovalModule, models.OverridePermission, OwnerAdminRoleSet, "/api/v1/company/approvals/{id} [put]", nil)
	//FILES
	i.RegisterRule(models.ApprovalModule, models.FilesPermission, AllRoles, "/api/v1/company/approvals/{id}/attachment [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.FilesPermission, AllRoles, "/api/v1/company/approvals/{id}/attachment/{attachmentId} [get]", nil)
	//EXPORT
	i.RegisterRule(models.ApprovalModule, models.ExportPermission, AllRoles, "/api/v1/company/approvals/export [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ExportPermission, AllRoles, "/api/v1/company/approvals/{id}/history/export [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ExportPermission, AllRoles, "/api/v1/company/approvals/{id}/sheet [get]", nil)
}

func (i *impl) addUsersRbac() {
	//VIEW
	i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/company/users [get]", nil)
	i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/company/users/{id} [get]", nil)
}
