package initializers

import (
	"pm-tools-backend/config"
	"pm-tools-backend/fiberlog"
	approvalhandler "pm-tools-backend/lib/approval"
	companyusers "pm-tools-backend/lib/company/users"
	documenthandler "pm-tools-backend/lib/document"
	xlsexport "pm-tools-backend/lib/export/xls"
	filestorage "pm-tools-backend/lib/file-storage"
	notificationhandler "pm-tools-backend/lib/notification"
	"pm-tools-backend/lib/rbac"
	connectionhub "pm-tools-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices() {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	filestorage.NewHandler()
	xlsexport.NewHandler()
	companyusers.NewHandler()
	documenthandler.NewHandler()
	notificationhandler.NewHandler()
	approvalhandler.NewHandler()
	rbac.NewHandler()
}
