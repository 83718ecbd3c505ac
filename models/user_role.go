package models

type UserRole string

const (
	CompanyOwnerRole   UserRole = "COMPANY_OWNER_ROLE"
	CompanyAdminRole   UserRole = "COMPANY_ADMIN_ROLE"
	CompanyManagerRole UserRole = "COMPANY_MANAGER_ROLE"
	CompanyUserRole    UserRole = "COMPANY_USER_ROLE"
)

var roleHumanName = map[UserRole]string{
	CompanyOwnerRole:   "Владелец",
	CompanyAdminRole:   "Администратор",
	CompanyManagerRole: "Руководитель проекта",
	CompanyUserRole:    "Пользователь",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

// IsPrivileged - владелец и администратор видят все согласования компании
func (r UserRole) IsPrivileged() bool {
	return r == CompanyOwnerRole || r == CompanyAdminRole
}

const SystemUser = "Система"

type UserStatus string

const (
	UserWorkingStatus   UserStatus = "WORKING"
	UserDismissedStatus UserStatus = "DISMISSED"
)
