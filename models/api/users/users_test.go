package usersapimodels

import (
	"testing"
	"time"

	"pm-tools-backend/models"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
)

func TestUserConvert(t *testing.T) {
	t.Run("last login omitted until the user has logged in", func(t *testing.T) {
		view := UserConvert(dbmodels.CompanyUser{
			BaseModel: dbmodels.BaseModel{ID: "u-1"},
			CompanyID: "company-1",
			FirstName: "Анна",
			LastName:  "Иванова",
			Role:      models.CompanyManagerRole,
		})
		require.Nil(t, view.LastLogin)
		require.Equal(t, "Анна Иванова", view.FullName)
	})

	t.Run("last login carried as pointer when set", func(t *testing.T) {
		loggedIn := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		view := UserConvert(dbmodels.CompanyUser{
			BaseModel: dbmodels.BaseModel{ID: "u-2"},
			CompanyID: "company-1",
			LastLogin: loggedIn,
		})
		require.NotNil(t, view.LastLogin)
		require.Equal(t, loggedIn, *view.LastLogin)
	})
}
