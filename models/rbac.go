package models

type RbacFunc func(companyID, userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule    Module = "USERS"
	ApprovalModule Module = "APPROVAL"
	ProjectModule  Module = "PROJECT"
	DocumentModule Module = "DOCUMENT"
	ProfileModule  Module = "PROFILE"
)

type Permission string

const (
	CreatePermission   Permission = "CREATE"
	EditPermission     Permission = "EDIT"
	ViewPermission     Permission = "VIEW"
	ManagePermission   Permission = "MANAGE"
	FlowPermission     Permission = "FLOW"
	OverridePermission Permission = "OVERRIDE"
	FilesPermission    Permission = "FILES"
	ExportPermission   Permission = "EXPORT"
)
