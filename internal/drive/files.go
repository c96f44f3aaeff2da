package drive

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kozaktomas/face-finder/internal/index"
)

const folderMIMEType = "application/vnd.google-apps.folder"

// listPageSize is the number of files requested per page.
const listPageSize = 100

// DefaultImageMIMETypes is the allow-list of image types included in a
// folder scan when no list is configured.
var DefaultImageMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/heic",
	"image/heif",
	"image/gif",
}

// File describes one file returned by the Drive files API.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// listResponse is one page of a files.list call.
type listResponse struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken"`
}

// ListImages returns every non-trashed image file in the folder, draining
// all result pages before returning. Only files matching the configured
// MIME allow-list are included.
func (c *Client) ListImages(ctx context.Context, folderID string) ([]index.RemoteFile, error) {
	mimeQuery := make([]string, len(c.mimeTypes))
	for i, m := range c.mimeTypes {
		mimeQuery[i] = fmt.Sprintf("mimeType='%s'", m)
	}
	query := fmt.Sprintf("('%s' in parents) and (%s) and trashed=false",
		folderID, strings.Join(mimeQuery, " or "))

	var files []index.RemoteFile
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("q", query)
		params.Set("fields", "nextPageToken, files(id, name)")
		params.Set("pageSize", strconv.Itoa(listPageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		page, err := doGetJSON[listResponse](ctx, c, "files?"+params.Encode())
		if err != nil {
			return nil, err
		}
		for _, f := range page.Files {
			files = append(files, index.RemoteFile{ID: f.ID, Name: f.Name})
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return files, nil
}

// Download fetches the raw content of a file by its ID.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	return c.doGetRaw(ctx, "files/"+fileID+"?alt=media")
}

// FolderInfo fetches the metadata of a folder and verifies it actually is
// one. Used as a startup access check before the first scan.
func (c *Client) FolderInfo(ctx context.Context, folderID string) (*File, error) {
	info, err := doGetJSON[File](ctx, c, "files/"+folderID+"?fields=id,name,mimeType")
	if err != nil {
		return nil, err
	}
	if info.MimeType != folderMIMEType {
		return nil, fmt.Errorf("item %s is not a folder", folderID)
	}
	return info, nil
}
