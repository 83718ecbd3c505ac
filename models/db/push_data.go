package dbmodels

import "pm-tools-backend/models"

// PushData - отложенные уведомления для пользователей без активного ws-подключения
type PushData struct {
	BaseModel
	UserID string          `gorm:"type:varchar(36);index:idx_user"`
	Code   models.PushCode `gorm:"type:varchar(255);index:idx_setting_code"`
	Msg    string
	Title  string
}
