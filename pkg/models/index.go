package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/huanfeng/fdroidmeta/pkg/value"
)

// RepositoryIndex is an already-parsed index-v1 document. Version lists
// stay raw until an entry is built from them, so a malformed list only
// affects its own package.
type RepositoryIndex struct {
	Repo     RepoInfo                   `json:"repo"`
	Apps     []*value.Object            `json:"apps"`
	Packages map[string]json.RawMessage `json:"packages"`
}

// RepoInfo is the repository metadata block of an index
type RepoInfo struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
	Version     int    `json:"version,omitempty"`
}

// Entry pairs one application's metadata with its version entries
type Entry struct {
	PackageName string
	Metadata    *value.Object
	Versions    []RawVersion
	// Err is set when the published version list could not be decoded
	Err error
}

// Entries returns one Entry per app in document order. Apps without a
// version list get an empty one.
func (idx *RepositoryIndex) Entries() []Entry {
	entries := make([]Entry, 0, len(idx.Apps))
	for _, app := range idx.Apps {
		name, _ := app.Text("packageName")
		entries = append(entries, idx.entry(name, app))
	}
	return entries
}

// Entry returns the entry for a package name
func (idx *RepositoryIndex) Entry(packageName string) (Entry, bool) {
	for _, app := range idx.Apps {
		if name, ok := app.Text("packageName"); ok && name == packageName {
			return idx.entry(name, app), true
		}
	}
	return Entry{}, false
}

func (idx *RepositoryIndex) entry(name string, app *value.Object) Entry {
	e := Entry{PackageName: name, Metadata: app}
	e.Versions, e.Err = DecodeVersions(idx.Packages[name])
	return e
}

// DecodeVersions decodes one package's version list. Empty input and
// null give no versions.
func DecodeVersions(data json.RawMessage) ([]RawVersion, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var versions []RawVersion
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, fmt.Errorf("version list: %w", err)
	}
	return versions, nil
}

// RawVersion is one element of a package's version list as published
type RawVersion struct {
	VersionCode      int64           `json:"versionCode"`
	VersionName      string          `json:"versionName"`
	Added            *int64          `json:"added"`
	ApkName          string          `json:"apkName"`
	Hash             string          `json:"hash"`
	HashType         string          `json:"hashType"`
	MinSdkVersion    *FlexString     `json:"minSdkVersion"`
	MaxSdkVersion    *FlexString     `json:"maxSdkVersion"`
	TargetSdkVersion *FlexString     `json:"targetSdkVersion"`
	NativeCode       []string        `json:"nativecode"`
	SrcName          string          `json:"srcname"`
	Sig              string          `json:"sig"`
	Signer           string          `json:"signer"`
	Size             *int64          `json:"size"`
	AntiFeatures     []string        `json:"antiFeatures"`
	UsesPermission   []RawPermission `json:"uses-permission"`
}

// RawPermission is the published [name, minSdk] tuple
type RawPermission struct {
	Name   string
	MinSDK *int64
}

// UnmarshalJSON decodes the two element tuple form
func (p *RawPermission) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("permission entry: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("permission entry is empty")
	}
	if err := json.Unmarshal(parts[0], &p.Name); err != nil {
		return fmt.Errorf("permission name: %w", err)
	}
	p.MinSDK = nil
	if len(parts) > 1 {
		var sdk FlexString
		if err := json.Unmarshal(parts[1], &sdk); err != nil {
			return fmt.Errorf("permission min sdk: %w", err)
		}
		if sdk.Valid {
			n, err := strconv.ParseInt(sdk.Value, 10, 64)
			if err != nil {
				return fmt.Errorf("permission min sdk %q: %w", sdk.Value, err)
			}
			p.MinSDK = &n
		}
	}
	return nil
}

// MarshalJSON encodes the tuple form
func (p RawPermission) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.Name, p.MinSDK})
}

// FlexString accepts either a JSON string or a JSON number. SDK levels
// appear both ways across index generations.
type FlexString struct {
	Value string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*f = FlexString{}
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString{Value: s, Valid: true}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", raw)
		}
		*f = FlexString{Value: n.String(), Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (f FlexString) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil for an absent value
func (f *FlexString) Ptr() *string {
	if f == nil || !f.Valid {
		return nil
	}
	s := f.Value
	return &s
}
