package transforms

import (
	"io"
	"path"

	"github.com/olimci/shiori/pkg/manifest"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjson "github.com/tdewolff/minify/v2/json"
	minxml "github.com/tdewolff/minify/v2/xml"
)

// NewMinifier returns a post-processor minifying HTML, JSON and XML
// artefacts by target extension, or nil when disabled.
func NewMinifier(enabled bool) manifest.PostProcessor {
	if !enabled {
		return nil
	}

	mimes := map[string]string{
		".html": "text/html",
		".json": "application/json",
		".xml":  "text/xml",
	}

	m := minify.New()
	m.Add("text/html", &minhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc("application/json", minjson.Minify)
	m.AddFunc("text/xml", minxml.Minify)

	return func(claim manifest.Claim, next manifest.ArtefactBuilder) manifest.ArtefactBuilder {
		mime, ex := mimes[path.Ext(claim.Target)]
		if !ex {
			return next
		}

		return func(w io.Writer) error {
			x := m.Writer(mime, w)
			if err := next(x); err != nil {
				return err
			}
			return x.Close()
		}
	}
}
