package usersapimodels

import (
	"strings"
	"time"

	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"
)

type UserView struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	RoleName  string          `json:"role_name"`
	LastLogin *time.Time      `json:"last_login,omitempty"`
}

func UserConvert(rec dbmodels.CompanyUser) UserView {
	view := UserView{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		FullName:  strings.TrimSpace(rec.GetFullName()),
		Email:     rec.Email,
		Role:      rec.Role,
		RoleName:  rec.Role.ToHuman(),
	}
	if !rec.LastLogin.IsZero() {
		view.LastLogin = &rec.LastLogin
	}
	return view
}
