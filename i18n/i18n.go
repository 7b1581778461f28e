// Package i18n loads the UI strings for the user's language.
package i18n

import (
	"embed"
	"strings"

	"github.com/jeandeaual/go-locale"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var supported = []language.Tag{
	language.English,
	language.Japanese,
	language.SimplifiedChinese,
	language.TraditionalChinese,
}

var files = map[language.Tag]string{
	language.English:            "locales/active.en.toml",
	language.Japanese:           "locales/active.ja.toml",
	language.SimplifiedChinese:  "locales/active.zh-Hans.toml",
	language.TraditionalChinese: "locales/active.zh-Hant.toml",
}

var matcher = language.NewMatcher(supported)

// Strings resolves message IDs for one language.
type Strings struct {
	loc *goi18n.Localizer
	tag language.Tag
}

// Load returns the strings for lang, or for the system language when lang
// is empty. Unknown languages fall back to English.
func Load(lang string) (*Strings, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, name := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			return nil, err
		}
	}

	prefs := []string{lang}
	if strings.TrimSpace(lang) == "" {
		prefs = systemLanguages()
	}
	tag := Match(prefs...)
	return &Strings{
		loc: goi18n.NewLocalizer(bundle, tag.String()),
		tag: tag,
	}, nil
}

// Match picks the supported language closest to the preference list.
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		p = normalize(p)
		if p == "" {
			continue
		}
		if t, err := language.Parse(p); err == nil {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return language.English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// normalize turns POSIX locale names like "zh_CN.UTF-8" into BCP 47.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

func systemLanguages() []string {
	langs, err := locale.GetLocales()
	if err != nil || len(langs) == 0 {
		return nil
	}
	return langs
}

func (s *Strings) Language() language.Tag { return s.tag }

// T returns the message for id, or id itself when it is not defined.
func (s *Strings) T(id string) string {
	if s == nil || s.loc == nil {
		return id
	}
	msg, err := s.loc.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
