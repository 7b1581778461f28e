package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		prefs []string
		want  language.Tag
	}{
		{[]string{"ja_JP.UTF-8"}, language.Japanese},
		{[]string{"zh_CN"}, language.SimplifiedChinese},
		{[]string{"zh-TW"}, language.TraditionalChinese},
		{[]string{"zh-HK"}, language.TraditionalChinese},
		{[]string{"en-GB"}, language.English},
		{[]string{"fr-FR"}, language.English},
		{[]string{"C"}, language.English},
		{nil, language.English},
		{[]string{"", "ja"}, language.Japanese},
	}
	for _, tt := range tests {
		if got := Match(tt.prefs...); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.prefs, got, tt.want)
		}
	}
}

func TestLoadTranslates(t *testing.T) {
	tests := []struct {
		lang string
		id   string
		want string
	}{
		{"en", "menu_quit", "Quit"},
		{"ja", "menu_quit", "終了"},
		{"zh-Hans", "menu_quit", "退出"},
		{"zh-Hant", "menu_quit", "結束"},
		{"de", "menu_quit", "Quit"},
	}
	for _, tt := range tests {
		s, err := Load(tt.lang)
		if err != nil {
			t.Fatalf("Load(%q): %v", tt.lang, err)
		}
		if got := s.T(tt.id); got != tt.want {
			t.Errorf("Load(%q).T(%q) = %q, want %q", tt.lang, tt.id, got, tt.want)
		}
	}
}

func TestUnknownIDReturnsID(t *testing.T) {
	s, err := Load("en")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.T("no_such_key"); got != "no_such_key" {
		t.Errorf("T = %q", got)
	}
	var nilStrings *Strings
	if got := nilStrings.T("menu_quit"); got != "menu_quit" {
		t.Errorf("nil T = %q", got)
	}
}

func TestLocalesComplete(t *testing.T) {
	en, _ := Load("en")
	ids := []string{
		"app_title", "app_name", "dialog_title", "menu_change_wallpaper", "menu_downloading",
		"menu_autostart", "menu_wallpaper_info", "menu_view_commons", "menu_copy_link",
		"menu_open_folder", "menu_quit", "progress_fetching", "progress_selecting",
		"progress_downloading", "progress_setting", "progress_done", "progress_fallback", "progress_error",
		"info_wallpaper_info", "info_no_wallpaper", "info_title", "info_description",
		"info_artist", "info_license", "info_unknown", "notify_autostart_on",
		"notify_autostart_off", "notify_link_copied",
	}
	for _, lang := range []string{"ja", "zh-Hans", "zh-Hant"} {
		s, err := Load(lang)
		if err != nil {
			t.Fatal(err)
		}
		for _, id := range ids {
			if got := s.T(id); got == id || got == en.T(id) {
				t.Errorf("%s: %s not translated (%q)", lang, id, got)
			}
		}
	}
}
