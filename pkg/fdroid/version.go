package fdroid

import (
	"path"
	"sort"
	"strings"

	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/value"
)

// Version is one normalized version entry of a package
type Version struct {
	Code             int64
	Name             string
	Added            *value.Date
	ApkName          string
	Hash             string
	HashType         string
	MinSdkVersion    *string
	MaxSdkVersion    *string
	TargetSdkVersion *string
	NativeCode       []string
	SrcName          string
	Sig              string
	Signer           string
	Size             *int64
	AntiFeatures     []string
	Permissions      []Permission
}

// NewVersion normalizes one raw version entry
func NewVersion(raw models.RawVersion) Version {
	v := Version{
		Code:             raw.VersionCode,
		Name:             raw.VersionName,
		ApkName:          raw.ApkName,
		Hash:             raw.Hash,
		HashType:         raw.HashType,
		MinSdkVersion:    raw.MinSdkVersion.Ptr(),
		MaxSdkVersion:    raw.MaxSdkVersion.Ptr(),
		TargetSdkVersion: raw.TargetSdkVersion.Ptr(),
		NativeCode:       raw.NativeCode,
		SrcName:          raw.SrcName,
		Sig:              raw.Sig,
		Signer:           raw.Signer,
		Size:             raw.Size,
		AntiFeatures:     raw.AntiFeatures,
		Permissions:      NormalizePermissions(raw.UsesPermission),
	}
	if raw.Added != nil {
		d := value.DateFromMillis(*raw.Added)
		v.Added = &d
	}
	return v
}

// NormalizeVersions returns the entries sorted by version code, newest
// first. Entries with equal codes keep their input order.
func NormalizeVersions(raw []models.RawVersion) []Version {
	out := make([]Version, len(raw))
	for i, r := range raw {
		out[i] = NewVersion(r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Code > out[j].Code
	})
	return out
}

// FileExtension returns the upper-cased suffix of an apk file name after the
// last dot. Leading dots of the base name do not start an extension.
func FileExtension(apkName string) (string, bool) {
	base := strings.TrimLeft(path.Base(strings.TrimSpace(apkName)), ".")
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return "", false
	}
	return strings.ToUpper(base[i+1:]), true
}

func optString(s string) value.Value {
	if s == "" {
		return value.Nil
	}
	return value.String(s)
}

// Value returns the version in its published field order
func (v Version) Value() *value.Object {
	var added value.Value = value.Nil
	if v.Added != nil {
		added = *v.Added
	}
	var ext value.Value = value.Nil
	if e, ok := FileExtension(v.ApkName); ok {
		ext = value.String(e)
	}

	permissions := make(value.List, len(v.Permissions))
	for i, p := range v.Permissions {
		permissions[i] = p.Value()
	}

	return value.NewObject().
		Set("added", added).
		Set("anti_features", value.OptStrings(v.AntiFeatures)).
		Set("apk_name", optString(v.ApkName)).
		Set("file_extension", ext).
		Set("hash", optString(v.Hash)).
		Set("hash_type", optString(v.HashType)).
		Set("min_sdk_version", value.OptString(v.MinSdkVersion)).
		Set("max_sdk_version", value.OptString(v.MaxSdkVersion)).
		Set("target_sdk_version", value.OptString(v.TargetSdkVersion)).
		Set("nativecode", value.OptStrings(v.NativeCode)).
		Set("srcname", optString(v.SrcName)).
		Set("sig", optString(v.Sig)).
		Set("signer", optString(v.Signer)).
		Set("size", value.OptInt(v.Size)).
		Set("uses_permission", permissions).
		Set("version_name", optString(v.Name)).
		Set("version_code", value.Int(v.Code))
}
