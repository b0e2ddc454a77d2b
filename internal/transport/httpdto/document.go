package httpdto

type CVUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required"`
}

type CVDownloadResponse struct {
	URL string `json:"url"`
}
