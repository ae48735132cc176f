package uploadsdk

// FileRecord represents a file as stored by the server
type FileRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ContentType  string `json:"contentType"`
	Category     string `json:"category"`
	ETag         string `json:"etag"`
	LastModified string `json:"lastModified"`
}

// ===================================================================================================

// InitChunkedRequest announces a chunked upload to the server
type InitChunkedRequest struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// ChunkPlan is the server's plan for one chunked upload
type ChunkPlan struct {
	UploadID    string `json:"uploadId"`
	ChunkSize   int64  `json:"chunkSize"`
	TotalChunks int    `json:"totalChunks"`
}

// CompleteChunkedRequest finalizes a chunked upload
type CompleteChunkedRequest struct {
	UploadID string `json:"uploadId"`
}
