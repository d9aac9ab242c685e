package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/shared"
)

// MediaService handles avatar uploads into object storage.
type MediaService struct {
	context.DefaultService
	sqlSvc   *SqlService
	minioSvc *MinIOService
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// UploadAvatar stores the image and points the user row at the new
// object key. The previous avatar is removed best effort.
func (svc *MediaService) UploadAvatar(userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error) {
	if !svc.isValidImageFile(file.Filename) {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, WEBP")
	}

	if file.Size > 5*1024*1024 {
		return nil, shared.NewBadRequestError(nil, "Image file too large. Maximum size: 5MB")
	}

	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(file.Filename)
	objectName := fmt.Sprintf("avatars/%s_%d%s", userID, time.Now().Unix(), ext)

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	if _, err := svc.minioSvc.UploadFile(objectName, src, file.Size, file.Header.Get("Content-Type")); err != nil {
		return nil, shared.NewInternalError(err, "Failed to upload file to storage")
	}

	previous := user.AvatarKey
	user.AvatarKey = objectName
	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		svc.minioSvc.DeleteFile(objectName)
		return nil, err
	}

	if previous != "" {
		if err := svc.minioSvc.DeleteFile(previous); err != nil {
			log.WithError(err).WithField("object", previous).Warn("Failed to delete previous avatar")
		}
	}

	url, err := svc.FileURL(objectName)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate avatar URL")
	}

	return &dto.AvatarUploadResponse{AvatarURL: url}, nil
}

// FileURL presigns a 24 hour GET link for the stored object.
func (svc *MediaService) FileURL(objectName string) (string, error) {
	return svc.minioSvc.GetFileURL(objectName, 24*time.Hour)
}

func (svc *MediaService) isValidImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".jpg", ".jpeg", ".png", ".webp"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}
