package uploadsdk

import (
	"fmt"
	"io"
	"runtime"

	"github.com/filehub/uploader/internal/version"
)

const (
	HeaderUserAgent     = "User-Agent"
	HeaderClientVersion = "X-FileHub-Version"
)

var UserAgent = fmt.Sprintf("FileHubUploader/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

// FileRef describes one file to be transferred. Source must support
// random access so chunked transfers can read byte ranges independently.
type FileRef struct {
	Name        string
	Size        int64
	ContentType string
	Source      io.ReaderAt
}

// Reader returns a reader over the whole file
func (r *FileRef) Reader() *io.SectionReader {
	return io.NewSectionReader(r.Source, 0, r.Size)
}

// ChunkReader returns a reader over the byte range [offset, offset+length)
func (r *FileRef) ChunkReader(offset, length int64) *io.SectionReader {
	return io.NewSectionReader(r.Source, offset, length)
}

// ProgressCallback reports transferred bytes for one file
type ProgressCallback func(uploadedBytes int64, totalBytes int64)
