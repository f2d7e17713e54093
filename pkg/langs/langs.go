// Package langs maps file paths to programming languages.
package langs

import (
	"path/filepath"

	"github.com/src-d/enry/v2"
)

// Other is reported for paths enry cannot classify.
const Other = "other"

// Detect returns the language of path judged by its name alone.
func Detect(path string) string {
	if lang := enry.GetLanguage(filepath.Base(path), nil); lang != "" {
		return lang
	}

	return Other
}
