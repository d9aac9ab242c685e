package dto

// Media Upload DTOs
type MediaUploadResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

type AvatarUploadResponse struct {
	AvatarURL string `json:"avatar_url"`
}
