package fdroid

import (
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/value"
)

// Repo is the display view of an index's repository block
type Repo struct {
	info   models.RepoInfo
	strict *bluemonday.Policy
}

// NewRepo wraps the repository block of an index
func NewRepo(info models.RepoInfo) *Repo {
	return &Repo{info: info, strict: bluemonday.StrictPolicy()}
}

// plain strips all markup and escapes the remaining text
func (r *Repo) plain(s string) string {
	return r.strict.Sanitize(s)
}

// Name returns the markup-free, escaped repository name
func (r *Repo) Name() string {
	return r.plain(r.info.Name)
}

// Description returns the markup-free, escaped repository description
func (r *Repo) Description() string {
	return r.plain(r.info.Description)
}

// Address returns the repository address
func (r *Repo) Address() string {
	return r.info.Address
}

// IconURL returns the address of the repository icon
func (r *Repo) IconURL() string {
	return strings.TrimRight(r.info.Address, "/") + "/icons/" + r.info.Icon
}

// Timestamp returns the index timestamp in epoch milliseconds
func (r *Repo) Timestamp() int64 {
	return r.info.Timestamp
}

// Date returns the UTC calendar date of the index timestamp
func (r *Repo) Date() time.Time {
	return value.DateFromMillis(r.info.Timestamp).Time()
}

// InfoLine returns "<name> <YYYY-MM-DD>", the line sites print in their
// footer.
func (r *Repo) InfoLine() string {
	return r.Name() + " " + r.Date().Format("2006-01-02")
}
