package fdroid

import (
	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/value"
)

// Permission is one normalized uses-permission entry
type Permission struct {
	Name   string
	MinSDK *int64
}

// NormalizePermissions converts the published tuples. The result is never
// nil, so an absent list serializes as [].
func NormalizePermissions(raw []models.RawPermission) []Permission {
	out := make([]Permission, 0, len(raw))
	for _, p := range raw {
		out = append(out, Permission{Name: p.Name, MinSDK: p.MinSDK})
	}
	return out
}

// Value returns {permission, min_sdk}
func (p Permission) Value() *value.Object {
	return value.NewObject().
		Set("permission", value.String(p.Name)).
		Set("min_sdk", value.OptInt(p.MinSDK))
}
