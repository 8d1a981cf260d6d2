package tagger

import (
	"strings"
	"time"

	"github.com/indaco/gitv/internal/core"
)

// TemplateData holds the values substituted into tag message templates.
type TemplateData struct {
	Version string
	Tag     string
	Prefix  string
	Commit  string
	Short   string
	Date    string
}

// NewTemplateData builds template values for version introduced at commit.
func NewTemplateData(version core.Version, commit core.Commit, prefix string, now time.Time) TemplateData {
	return TemplateData{
		Version: version.Raw(),
		Tag:     version.TagName(prefix),
		Prefix:  prefix,
		Commit:  commit.String(),
		Short:   commit.Short(),
		Date:    now.Format("2006-01-02"),
	}
}

// FormatMessage replaces {version}, {tag}, {prefix}, {commit}, {short} and
// {date} in template. Unknown placeholders are left untouched.
func FormatMessage(template string, data TemplateData) string {
	r := strings.NewReplacer(
		"{version}", data.Version,
		"{tag}", data.Tag,
		"{prefix}", data.Prefix,
		"{commit}", data.Commit,
		"{short}", data.Short,
		"{date}", data.Date,
	)
	return r.Replace(template)
}
