package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	s3client "pm-tools-backend/s3"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// UploadAttachment сохраняет файл вложения согласования и возвращает ключ объекта
	UploadAttachment(ctx context.Context, companyID, approvalID, fileName, contentType string, file []byte) (fileKey string, err error)
	GetFile(ctx context.Context, companyID, fileKey string) ([]byte, error)
	MakeCompanyBucket(ctx context.Context, companyID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

func bucketName(companyID string) string {
	return fmt.Sprintf("company-%v", companyID)
}

func (i impl) MakeCompanyBucket(ctx context.Context, companyID string) error {
	bucket := bucketName(companyID)
	exists, err := s3client.Client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, "ошибка проверки бакета")
	}
	if exists {
		return nil
	}
	err = s3client.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	if err != nil {
		return errors.Wrap(err, "ошибка создания бакета")
	}
	return nil
}

func (i impl) UploadAttachment(ctx context.Context, companyID, approvalID, fileName, contentType string, file []byte) (fileKey string, err error) {
	if err = i.MakeCompanyBucket(ctx, companyID); err != nil {
		return "", err
	}
	fileKey = fmt.Sprintf("approvals/%v/%v_%v", approvalID, uuid.NewString(), fileName)
	_, err = s3client.Client.PutObject(ctx, bucketName(companyID), fileKey,
		bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "ошибка сохранения файла %v", fileName)
	}
	log.
		WithField("company_id", companyID).
		WithField("approval_id", approvalID).
		WithField("file_key", fileKey).
		Info("файл вложения сохранен")
	return fileKey, nil
}

func (i impl) GetFile(ctx context.Context, companyID, fileKey string) ([]byte, error) {
	object, err := s3client.Client.GetObject(ctx, bucketName(companyID), fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка получения файла %v", fileKey)
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка чтения файла %v", fileKey)
	}
	return data, nil
}
