package uploadsdk

import (
	"github.com/filehub/uploader/internal/version"
	"github.com/imroc/req/v3"
)

// Client is the typed HTTP client for the FileHub upload API
type Client struct {
	http    *req.Client
	baseURL string
	Files   *FilesAPI
	Jobs    *JobsAPI
}

// New creates a new upload API client.
// Request retries are owned by the caller, the client never retries on its own.
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoServerURL
	}

	http := req.C().
		SetBaseURL(baseURL).
		SetUserAgent(UserAgent).
		SetCommonHeader(HeaderClientVersion, version.Version).
		SetCommonErrorResult(&APIError{}).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	return &Client{
		http:    http,
		baseURL: baseURL,
		Files:   newFilesAPI(http, baseURL),
		Jobs:    newJobsAPI(http),
	}, nil
}

// Close releases idle connections held by the client
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}
