package s3client

import (
	"github.com/minio/minio-go/v7"
)

// Client инициализируется на старте сервиса
var Client *minio.Client
