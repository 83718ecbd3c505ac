package db

import (
	dbmodels "pm-tools-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Company{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Company")
	}
	if err := DB.AutoMigrate(&dbmodels.CompanyUser{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CompanyUser")
	}
	if err := DB.AutoMigrate(&dbmodels.Project{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Project")
	}
	if err := DB.AutoMigrate(&dbmodels.ProjectMember{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ProjectMember")
	}
	if err := DB.AutoMigrate(&dbmodels.Document{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Document")
	}
	if err := DB.AutoMigrate(&dbmodels.Approval{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Approval")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalAssignment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalAssignment")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalAttachment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalAttachment")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalComment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalComment")
	}
	if err := DB.AutoMigrate(&dbmodels.PushData{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PushData")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
