package manifest

import (
	"encoding/json"
	"io"

	"github.com/olimci/shiori/pkg/iofs"
)

// ArtefactBuilder writes the content of an artefact.
type ArtefactBuilder = iofs.WriterFunc

// PostProcessor wraps the builder of the artefact claimed by claim.
type PostProcessor func(claim Claim, next ArtefactBuilder) ArtefactBuilder

// Artefact is a claimed output file together with the function producing it.
type Artefact struct {
	Claim   Claim
	Builder ArtefactBuilder
}

// Post wraps the builder with each processor in turn, so the last one runs
// outermost. Nil processors are skipped.
func (a Artefact) Post(pps ...PostProcessor) Artefact {
	for _, pp := range pps {
		if pp != nil {
			a.Builder = pp(a.Claim, a.Builder)
		}
	}
	return a
}

// Executor is satisfied by both html/template and text/template templates.
type Executor interface {
	Execute(w io.Writer, data any) error
}

func TemplateArtefact(claim Claim, tmpl Executor, data any) Artefact {
	return Artefact{
		Claim: claim,
		Builder: func(w io.Writer) error {
			return tmpl.Execute(w, data)
		},
	}
}

func TextArtefact(claim Claim, text string) Artefact {
	return Artefact{
		Claim: claim,
		Builder: func(w io.Writer) error {
			_, err := io.WriteString(w, text)
			return err
		},
	}
}

// JSONArtefact encodes v as indented JSON when written.
func JSONArtefact(claim Claim, v any) Artefact {
	return Artefact{
		Claim: claim,
		Builder: func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(v)
		},
	}
}
