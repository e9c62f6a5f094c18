// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package i18n provides internationalization support for Signet. It uses
// the go-i18n library to load translation files embedded in the binary,
// allowing the user interface to be displayed in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// bundle stores all the loaded translation messages from the locale files.
var bundle *i18n.Bundle

// localizer is used to translate messages into a specific language.
var localizer *i18n.Localizer

// Init initializes the i18n bundle and sets up the localizer for a specific
// language. It parses all embedded YAML files from the 'locales' directory.
func Init(lang string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		bundle.ParseMessageFileBytes(data, f.Name())
	}

	localizer = i18n.NewLocalizer(bundle, lang)
}

// T translates a message by its ID. Optional args are applied with
// fmt.Sprintf when the translated message contains format verbs. If the
// i18n system has not been initialized, it defaults to English. If a
// translation for the given ID is not found, it returns the ID itself.
func T(messageID string, args ...any) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		// Unknown IDs fall back to the ID itself so missing translations
		// degrade visibly instead of crashing the UI.
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) {
	Init(lang)
}

// GetAvailableLocales returns a map of locale code to display name for all
// embedded locale files. The display name comes from the locale's
// "language.name" message when present, otherwise the code itself.
func GetAvailableLocales() map[string]string {
	out := map[string]string{}
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		code := strings.TrimSuffix(f.Name(), ".yaml")
		name := code
		loc := i18n.NewLocalizer(ensureBundle(), code)
		if msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: "language.name"}); err == nil {
			name = msg
		}
		out[code] = name
	}
	return out
}

// SortedLocaleCodes returns locale codes in stable order for menus.
func SortedLocaleCodes(locales map[string]string) []string {
	keys := make([]string, 0, len(locales))
	for k := range locales {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func ensureBundle() *i18n.Bundle {
	if bundle == nil {
		Init("en")
	}
	return bundle
}
