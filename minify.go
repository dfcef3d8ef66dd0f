package tagcompiler

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured CSS minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/css", css.Minify)
	})
	return minifier
}

// minifyCSS compacts a stylesheet, returning it untouched if minification fails
func minifyCSS(stylesheet string) string {
	if stylesheet == "" {
		return stylesheet
	}
	minified, err := getMinifier().String("text/css", stylesheet)
	if err != nil {
		return stylesheet
	}
	return minified
}
