package i18n

import (
	_ "embed"
	"fmt"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// DefaultLanguage is used when a locale has no bundle of its own.
const DefaultLanguage = "ko"

// Message keys shared by the views and the templates.
const (
	DirectoryLoadFailed = "directory.load_failed"
	EmployeeSaved       = "employee.saved"
	EmployeeSaveFailed  = "employee.save_failed"
	StatusUpdated       = "status.updated"
	StatusUpdateFailed  = "status.update_failed"
	MemberLoaded        = "member.loaded"
	MemberLoadFailed    = "member.load_failed"
	MemberSaved         = "member.saved"
	MemberNotLinked     = "member.not_linked"
	LoginIDRequired     = "member.login_id_required"

	// TimeLayout is a time.Format layout whose AM/PM is replaced by TimeAM
	// or TimePM.
	TimeLayout = "time.layout"
	TimeAM     = "time.am"
	TimePM     = "time.pm"
)

type bundle struct {
	Messages map[string]string `yaml:"messages"`
	Statuses map[string]string `yaml:"statuses"`
}

// Catalog holds localized messages and status labels per base language.
type Catalog struct {
	bundles map[string]bundle
}

// Load parses the embedded message catalog.
func Load() (*Catalog, error) {
	return Parse(defaultMessages)
}

// MustLoad is Load that panics on a malformed embedded catalog.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML keyed by base language.
func Parse(data []byte) (*Catalog, error) {
	var bundles map[string]bundle
	if err := yaml.Unmarshal(data, &bundles); err != nil {
		return nil, fmt.Errorf("i18n: parse catalog: %w", err)
	}
	if _, ok := bundles[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("i18n: catalog has no %q bundle", DefaultLanguage)
	}
	return &Catalog{bundles: bundles}, nil
}

// For returns a Localizer for locale (e.g. "ko-KR", "en").
func (c *Catalog) For(locale string) Localizer {
	lang := DefaultLanguage
	if tag, err := language.Parse(locale); err == nil {
		base, _ := tag.Base()
		if _, ok := c.bundles[base.String()]; ok {
			lang = base.String()
		}
	}
	return Localizer{lang: lang, catalog: c}
}

// Localizer resolves messages for a single language.
type Localizer struct {
	lang    string
	catalog *Catalog
}

func (l Localizer) Language() string {
	return l.lang
}

// Message returns the localized text for key, falling back to the default
// language and finally to the key itself.
func (l Localizer) Message(key string) string {
	if l.catalog == nil {
		return key
	}
	if msg, ok := l.catalog.bundles[l.lang].Messages[key]; ok {
		return msg
	}
	if msg, ok := l.catalog.bundles[DefaultLanguage].Messages[key]; ok {
		return msg
	}
	return key
}

// StatusLabel returns the display label for a status code. Unknown codes
// are shown as-is.
func (l Localizer) StatusLabel(code string) string {
	if l.catalog == nil {
		return code
	}
	if label, ok := l.catalog.bundles[l.lang].Statuses[code]; ok {
		return label
	}
	if label, ok := l.catalog.bundles[DefaultLanguage].Statuses[code]; ok {
		return label
	}
	return code
}
