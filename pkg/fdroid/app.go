// Package fdroid assembles normalized, display-safe records out of an
// F-Droid index-v1 document.
package fdroid

import (
	"strconv"
	"strings"

	"github.com/huanfeng/fdroidmeta/internal/errors"
	"github.com/huanfeng/fdroidmeta/pkg/locale"
	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/sanitize"
	"github.com/huanfeng/fdroidmeta/pkg/utils"
	"github.com/huanfeng/fdroidmeta/pkg/value"
)

// MissingName is the title of an app that has none. Tildes sort after
// every real name.
const MissingName = "~missing name~"

// Record field names
const (
	FieldPackageName          = "package_name"
	FieldTitle                = "title"
	FieldSummary              = "summary"
	FieldDescription          = "description"
	FieldWhatsNew             = "whats_new"
	FieldIcon                 = "icon"
	FieldVersions             = "versions"
	FieldBeautifulURL         = "beautiful_url"
	FieldSuggestedVersionCode = "suggested_version_code"
	FieldSuggestedVersionName = "suggested_version_name"
	FieldIsLocalized          = "is_localized"
)

// DefaultSkipSet lists the record fields the final escape pass leaves alone:
// scrubbed rich text, fields escaped while resolving, and identifiers.
func DefaultSkipSet() sanitize.SkipSet {
	return sanitize.NewSkipSet(
		FieldDescription, FieldWhatsNew,
		FieldTitle, FieldSummary,
		FieldPackageName, FieldBeautifulURL,
	)
}

// scalar fields copied from the metadata, in record order
var passthroughFields = []struct{ key, source string }{
	{"author_email", "authorEmail"},
	{"author_name", "authorName"},
	{"author_website", "authorWebSite"},
	{"translation", "translation"},
	{"bitcoin", "bitcoin"},
	{"litecoin", "litecoin"},
	{"donate", "donate"},
	{"flattrID", "flattrID"},
}

var linkFields = []struct{ key, source string }{
	{"issue_tracker", "issueTracker"},
	{"changelog", "changelog"},
	{"license", "license"},
	{"source_code", "sourceCode"},
	{"website", "webSite"},
	{"added", "added"},
	{"last_updated", "lastUpdated"},
}

var screenshotFields = []struct{ key, source string }{
	{"phone_screenshots", "phoneScreenshots"},
	{"seven_inch_screenshots", "sevenInchScreenshots"},
	{"ten_inch_screenshots", "tenInchScreenshots"},
	{"tv_screenshots", "tvScreenshots"},
	{"wear_screenshots", "wearScreenshots"},
}

// Assembler builds App records. It holds no per-record state and is safe
// for concurrent use.
type Assembler struct {
	resolver  *locale.Resolver
	sanitizer *sanitize.Sanitizer
	skip      sanitize.SkipSet
	logger    utils.Logger
}

// NewAssembler creates an assembler. A nil logger discards output.
func NewAssembler(resolver *locale.Resolver, sanitizer *sanitize.Sanitizer, logger utils.Logger) *Assembler {
	if resolver == nil {
		resolver = locale.NewResolver(locale.DefaultAliases)
	}
	if sanitizer == nil {
		sanitizer = sanitize.Default()
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Assembler{
		resolver:  resolver,
		sanitizer: sanitizer,
		skip:      DefaultSkipSet(),
		logger:    logger,
	}
}

// NewDefaultAssembler uses the default alias table and an f-droid.org
// sanitizer.
func NewDefaultAssembler() *Assembler {
	return NewAssembler(nil, nil, nil)
}

// App is one assembled, sanitized record. It is never modified after
// assembly.
type App struct {
	packageName string
	locale      string
	ranked      []string
	versions    []Version
	record      *value.Object
}

// builder carries the state of a single assembly
type builder struct {
	a       *Assembler
	meta    *value.Object
	local   *value.Object
	ranked  []string
	desired string
}

// field returns a present, non-null top-level value. Such a value wins over
// localized data even when it is empty.
func (b *builder) field(name string) (value.Value, bool) {
	v, ok := b.meta.Get(name)
	if !ok || value.IsNull(v) {
		return nil, false
	}
	return v, true
}

func (b *builder) fieldOrNil(name string) value.Value {
	if v, ok := b.field(name); ok {
		return value.Clone(v)
	}
	return value.Nil
}

// text resolves a localizable text field: override, then localized value
func (b *builder) text(override, localizedName string) (string, bool) {
	if v, ok := b.field(override); ok {
		if s, ok := value.Text(v); ok {
			return s, true
		}
	}
	if v, ok := locale.Localized(b.ranked, b.local, localizedName); ok {
		if s, ok := value.Text(v); ok {
			return s, true
		}
	}
	return "", false
}

// Assemble builds the record of entry for the desired locale. It fails only
// when the entry has no package name, its version list could not be
// decoded, or a value cannot be sanitized.
func (a *Assembler) Assemble(entry models.Entry, desired string) (*App, error) {
	packageName := entry.PackageName
	if packageName == "" {
		packageName, _ = entry.Metadata.Text("packageName")
	}
	if strings.TrimSpace(packageName) == "" {
		return nil, errors.NewValidationError(errors.CodeMissingPackageName, "index entry has no packageName")
	}
	if entry.Err != nil {
		return nil, errors.WrapError(entry.Err, errors.ErrorTypeParsing, errors.CodeVersionDecode,
			"cannot decode versions").WithContext("package", packageName)
	}

	b := &builder{a: a, meta: entry.Metadata, desired: desired}
	if local, ok := entry.Metadata.Object("localized"); ok {
		b.local = local
		b.ranked = a.resolver.Available(desired, local.Keys())
	}

	versions := NormalizeVersions(entry.Versions)
	record := b.compose(packageName, versions)

	clean, err := sanitize.Deep(record, a.skip)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeSanitization, errors.CodeUnsupportedShape,
			"cannot sanitize record").WithContext("package", packageName)
	}

	return &App{
		packageName: packageName,
		locale:      desired,
		ranked:      b.ranked,
		versions:    versions,
		record:      clean.(*value.Object),
	}, nil
}

func (b *builder) compose(packageName string, versions []Version) *value.Object {
	r := value.NewObject()
	r.Set(FieldPackageName, value.String(packageName))

	for _, f := range passthroughFields {
		r.Set(f.key, b.fieldOrNil(f.source))
	}
	r.Set("liberapay", b.liberapay())
	r.Set("liberapayID", b.fieldOrNil("liberapayID"))
	r.Set("openCollective", b.fieldOrNil("openCollective"))
	r.Set("categories", b.fieldOrNil("categories"))
	r.Set("anti_features", b.fieldOrNil("antiFeatures"))

	code, hasCode := b.suggestedVersionCode(packageName)
	if hasCode {
		r.Set(FieldSuggestedVersionCode, value.Int(code))
	} else {
		r.Set(FieldSuggestedVersionCode, value.Nil)
	}
	r.Set(FieldSuggestedVersionName, suggestedVersionName(versions, code, hasCode))

	for _, f := range linkFields {
		r.Set(f.key, b.fieldOrNil(f.source))
	}

	if l, ok := locale.IsLocalized(b.desired, b.ranked); ok {
		r.Set(FieldIsLocalized, value.String(l))
	} else {
		r.Set(FieldIsLocalized, value.Nil)
	}

	if s, ok := b.text("whatsNew", "whatsNew"); ok {
		r.Set(FieldWhatsNew, value.String(b.a.sanitizer.Description(s)))
	} else {
		r.Set(FieldWhatsNew, value.Nil)
	}

	r.Set(FieldIcon, b.icon(packageName))

	title, ok := b.text("name", "name")
	if !ok {
		title = MissingName
	}
	r.Set(FieldTitle, value.String(sanitize.Escape(title)))

	if s, ok := b.text("summary", "summary"); ok {
		r.Set(FieldSummary, value.String(sanitize.Escape(s)))
	} else {
		r.Set(FieldSummary, value.Nil)
	}

	if s, ok := b.text("description", "description"); ok {
		r.Set(FieldDescription, value.String(b.a.sanitizer.Description(s)))
	} else {
		r.Set(FieldDescription, value.Nil)
	}

	if p, ok := locale.GraphicPath(b.ranked, b.local, "featureGraphic"); ok {
		r.Set("feature_graphic", value.String(p))
	} else {
		r.Set("feature_graphic", value.Nil)
	}
	for _, f := range screenshotFields {
		if paths, ok := locale.GraphicListPaths(b.ranked, b.local, f.source); ok {
			r.Set(f.key, value.Strings(paths))
		} else {
			r.Set(f.key, value.Nil)
		}
	}

	list := make(value.List, len(versions))
	for i, v := range versions {
		list[i] = v.Value()
	}
	r.Set(FieldVersions, list)
	r.Set(FieldBeautifulURL, value.String("/packages/"+packageName))
	return r
}

// liberapay prefers the handle and falls back to "~<liberapayID>"
func (b *builder) liberapay() value.Value {
	if v, ok := b.field("liberapay"); ok {
		return value.Clone(v)
	}
	if id, ok := b.field("liberapayID"); ok {
		if s, ok := value.Text(id); ok {
			return value.String("~" + s)
		}
	}
	return value.Nil
}

func (b *builder) icon(packageName string) value.Value {
	if p, ok := locale.GraphicPath(b.ranked, b.local, "icon"); ok {
		return value.String(packageName + "/" + p)
	}
	if v, ok := b.field("icon"); ok {
		if s, ok := value.Text(v); ok {
			return value.String("icons-640/" + s)
		}
	}
	return value.Nil
}

// suggestedVersionCode accepts an integer or a numeric string. Anything
// else means there is no suggestion.
func (b *builder) suggestedVersionCode(packageName string) (int64, bool) {
	v, ok := b.field("suggestedVersionCode")
	if !ok {
		return 0, false
	}

	var (
		code int64
		err  error
	)
	switch t := v.(type) {
	case value.Number:
		code, err = t.Int64()
	case value.String:
		code, err = strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
	default:
		err = strconv.ErrSyntax
	}
	if err != nil {
		b.a.logger.Debug("Ignoring suggestedVersionCode %s of %s", value.Describe(v), packageName)
		return 0, false
	}
	return code, true
}

func suggestedVersionName(versions []Version, code int64, ok bool) value.Value {
	if !ok {
		return value.Nil
	}
	for _, v := range versions {
		if v.Code == code {
			return optString(v.Name)
		}
	}
	return value.Nil
}

// PackageName returns the trusted identifier of the app
func (a *App) PackageName() string {
	return a.packageName
}

// String implements fmt.Stringer
func (a *App) String() string {
	return a.packageName
}

// Locale returns the locale the record was assembled for
func (a *App) Locale() string {
	return a.locale
}

// RankedLocales returns the fallback order used for this record
func (a *App) RankedLocales() []string {
	return append([]string(nil), a.ranked...)
}

// Versions returns the normalized versions, newest first
func (a *App) Versions() []Version {
	return append([]Version(nil), a.versions...)
}

// Record returns a copy of the sanitized record
func (a *App) Record() *value.Object {
	return a.record.Clone()
}

// Get returns one field of the record
func (a *App) Get(field string) (value.Value, bool) {
	v, ok := a.record.Get(field)
	if !ok {
		return nil, false
	}
	return value.Clone(v), true
}

func (a *App) text(field string) (string, bool) {
	v, ok := a.record.Get(field)
	if !ok {
		return "", false
	}
	s, ok := v.(value.String)
	return string(s), ok
}

// Title returns the escaped display name
func (a *App) Title() string {
	s, _ := a.text(FieldTitle)
	return s
}

// Summary returns the escaped summary
func (a *App) Summary() (string, bool) {
	return a.text(FieldSummary)
}

// Description returns the scrubbed description
func (a *App) Description() (string, bool) {
	return a.text(FieldDescription)
}

// Icon returns the icon path
func (a *App) Icon() (string, bool) {
	return a.text(FieldIcon)
}

// SuggestedVersionName returns the name of the suggested version
func (a *App) SuggestedVersionName() (string, bool) {
	return a.text(FieldSuggestedVersionName)
}

// MarshalJSON encodes the record in field order
func (a *App) MarshalJSON() ([]byte, error) {
	return a.record.MarshalJSON()
}
