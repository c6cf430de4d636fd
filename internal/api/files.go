package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
)

// FileTicket is the server's answer to an upload request: a stable file id
// and a pre-signed destination the raw bytes go to.
type FileTicket struct {
	ID        string `json:"id" validate:"required"`
	SignedURL string `json:"signedUrl" validate:"required,url"`
}

type uploadRequest struct {
	Name string `json:"name"`
}

type downloadResponse struct {
	SignedURL string `json:"signedUrl" validate:"required,url"`
}

// RequestUpload asks the API for a signed upload destination for the named
// file. The caller must follow up with UploadBytes before the ticket's id
// is worth recording anywhere.
func (c *Client) RequestUpload(ctx context.Context, name string) (*FileTicket, error) {
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file name required")
	}
	ticket := &FileTicket{}
	if err := c.Post(ctx, "/files/upload", uploadRequest{Name: name}, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UploadBytes PUTs raw file bytes directly to a signed URL. The signed URL
// is outside the API, so no bearer token or prefix applies.
func (c *Client) UploadBytes(ctx context.Context, signedURL string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, bytes.NewReader(data))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upload request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, 0, "upload failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBytes))

	if resp.StatusCode >= 400 {
		return appErrors.New("UPLOAD_FAILED", resp.StatusCode, fmt.Sprintf("upload rejected with status %d", resp.StatusCode))
	}
	return nil
}

// RequestDownload resolves a stored file id into a signed display URL.
func (c *Client) RequestDownload(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "file id required")
	}
	out := &downloadResponse{}
	if err := c.Post(ctx, "/files/download/"+id, nil, out); err != nil {
		return "", err
	}
	return out.SignedURL, nil
}
