package normalize

import (
	"encoding/json"
	"errors"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/provider"
)

// RootPath is the path reported for a root listing.
const RootPath = "root"

const googleFolderMime = "application/vnd.google-apps.folder"

// listKeys are the names providers use for the array of entries.
var listKeys = []string{"files", "value", "entries"}

var errNoList = errors.New("payload has no files, value or entries array")

// entryFunc converts one raw entry. The second result is the drive id the
// entry carries, if any.
type entryFunc func(raw json.RawMessage) (canonical.FileEntry, string, error)

var fileNormalizers = map[provider.Drive]entryFunc{
	provider.GoogleDrive: googleFile,
	provider.MSGraph:     msGraphFile,
	provider.Dropbox:     dropboxFile,
}

// Files converts a root listing payload from p into a FileListing.
func Files(p provider.Drive, raw []byte) (canonical.FileListing, error) {
	fn, ok := fileNormalizers[p]
	if !ok {
		return canonical.FileListing{}, core.Wrapf(core.KindUnsupportedProvider, "no file normalizer for %q", p).
			WithProvider(string(p))
	}

	entries, err := listEntries(raw)
	if err != nil {
		return canonical.FileListing{}, core.Wrapf(core.KindJSONParsing, "unexpected drive data: %w", err).
			WithProvider(string(p))
	}

	listing := canonical.FileListing{
		Kind:  p.Kind(),
		Path:  RootPath,
		Files: make([]canonical.FileEntry, 0, len(entries)),
	}
	for i, e := range entries {
		f, driveID, err := fn(e)
		if err != nil {
			return canonical.FileListing{}, core.Wrapf(core.KindJSONParsing, "unexpected drive data at entry %d: %w", i, err).
				WithProvider(string(p))
		}
		if listing.DriveID == "" {
			listing.DriveID = driveID
		}
		listing.Files = append(listing.Files, f)
	}
	return listing, nil
}

func listEntries(raw []byte) ([]json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, err
	}
	for _, key := range listKeys {
		list, ok := top[key]
		if !ok {
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(list, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}
	return nil, errNoList
}

func requireID(id string) error {
	if id == "" {
		return errors.New("entry has no id")
	}
	return nil
}

// Google marks folders with a sentinel MIME type.
func googleFile(raw json.RawMessage) (canonical.FileEntry, string, error) {
	var v struct {
		ID           string     `json:"id"`
		Name         string     `json:"name"`
		MimeType     string     `json:"mimeType"`
		CreatedTime  *string    `json:"createdTime"`
		ModifiedTime *string    `json:"modifiedTime"`
		Size         flexString `json:"size"`
		DriveID      string     `json:"driveId"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.FileEntry{}, "", err
	}
	if err := requireID(v.ID); err != nil {
		return canonical.FileEntry{}, "", err
	}
	return canonical.FileEntry{
		ID:           v.ID,
		Name:         v.Name,
		IsDirectory:  v.MimeType == googleFolderMime,
		MimeType:     v.MimeType,
		Size:         v.Size.ptr(),
		CreatedTime:  strPtr(v.CreatedTime),
		ModifiedTime: strPtr(v.ModifiedTime),
	}, v.DriveID, nil
}

// Microsoft Graph items carry either a "file" or a "folder" facet.
func msGraphFile(raw json.RawMessage) (canonical.FileEntry, string, error) {
	var v struct {
		ID                   string     `json:"id"`
		Name                 string     `json:"name"`
		CreatedDateTime      *string    `json:"createdDateTime"`
		LastModifiedDateTime *string    `json:"lastModifiedDateTime"`
		Size                 flexString `json:"size"`
		File                 *struct {
			MimeType string `json:"mimeType"`
		} `json:"file"`
		Folder          *json.RawMessage `json:"folder"`
		ParentReference *struct {
			DriveID string `json:"driveId"`
		} `json:"parentReference"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.FileEntry{}, "", err
	}
	if err := requireID(v.ID); err != nil {
		return canonical.FileEntry{}, "", err
	}

	f := canonical.FileEntry{
		ID:           v.ID,
		Name:         v.Name,
		Size:         v.Size.ptr(),
		CreatedTime:  strPtr(v.CreatedDateTime),
		ModifiedTime: strPtr(v.LastModifiedDateTime),
	}
	switch {
	case v.Folder != nil:
		f.IsDirectory = true
		f.MimeType = "folder"
	case v.File != nil:
		f.MimeType = v.File.MimeType
	default:
		return canonical.FileEntry{}, "", errors.New("entry is neither file nor folder")
	}

	var driveID string
	if v.ParentReference != nil {
		driveID = v.ParentReference.DriveID
	}
	return f, driveID, nil
}

// Dropbox discriminates with ".tag" and reports no creation time.
func dropboxFile(raw json.RawMessage) (canonical.FileEntry, string, error) {
	var v struct {
		ID             string     `json:"id"`
		Tag            string     `json:".tag"`
		Name           string     `json:"name"`
		ClientModified *string    `json:"client_modified"`
		ServerModified *string    `json:"server_modified"`
		Size           flexString `json:"size"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return canonical.FileEntry{}, "", err
	}
	if err := requireID(v.ID); err != nil {
		return canonical.FileEntry{}, "", err
	}
	return canonical.FileEntry{
		ID:           v.ID,
		Name:         v.Name,
		IsDirectory:  v.Tag == "folder",
		MimeType:     v.Tag,
		Size:         v.Size.ptr(),
		ModifiedTime: strPtr(v.ClientModified),
	}, "", nil
}
