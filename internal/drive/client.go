package drive

import (
	"context"
	"fmt"
	"net/http"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// File is the normalized view of a Drive file or folder.
type File struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType,omitempty"`
	CreatedTime  string   `json:"createdTime,omitempty"`
	ModifiedTime string   `json:"modifiedTime,omitempty"`
	Size         int64    `json:"size,omitempty"`
	WebViewLink  string   `json:"webViewLink,omitempty"`
	Parents      []string `json:"parents,omitempty"`
}

// ShareResult reports a granted permission.
type ShareResult struct {
	PermissionID string `json:"permissionId"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

func toFile(f *drive.File) File {
	if f == nil {
		return File{}
	}
	return File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		CreatedTime:  f.CreatedTime,
		ModifiedTime: f.ModifiedTime,
		Size:         f.Size,
		WebViewLink:  f.WebViewLink,
		Parents:      f.Parents,
	}
}

// Client wraps the Google Drive service for one already-authenticated HTTP
// client.
type Client struct {
	svc *drive.Service
}

// NewClient creates a Drive client on top of the given HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListFiles lists files matching the Drive query, most recently modified
// first unless the caller orders otherwise.
func (c *Client) ListFiles(ctx context.Context, maxResults int64, query, orderBy string) ([]File, error) {
	if orderBy == "" {
		orderBy = "modifiedTime desc"
	}

	call := c.svc.Files.List().
		PageSize(maxResults).
		OrderBy(orderBy).
		Fields("files(id, name, mimeType, createdTime, modifiedTime, size, webViewLink)").
		Context(ctx)
	if query != "" {
		call = call.Q(query)
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]File, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, toFile(f))
	}
	return files, nil
}

// CreateFolder creates a folder, optionally inside a parent folder.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*File, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	created, err := c.svc.Files.Create(meta).
		Fields("id, name, mimeType, webViewLink").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	folder := toFile(created)
	return &folder, nil
}

// DeleteFile permanently deletes a file or folder.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if err := c.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}

// ShareFile grants a user the given role on a file.
func (c *Client) ShareFile(ctx context.Context, fileID, email, role string) (*ShareResult, error) {
	perm := &drive.Permission{
		Type:         "user",
		Role:         role,
		EmailAddress: email,
	}

	created, err := c.svc.Permissions.Create(fileID, perm).Fields("id").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to share file %s with %s: %w", fileID, email, err)
	}
	return &ShareResult{PermissionID: created.Id, Email: email, Role: role}, nil
}
