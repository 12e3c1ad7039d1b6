package manifest

import (
	"fmt"
	"path"
)

// NewClaim creates a claim by owner on a slash-separated target within the output directory.
func NewClaim(owner, target string) Claim {
	return Claim{
		Owner:  owner,
		Target: path.Clean(target),
	}
}

// Claim represents an artefact's claim on a target path
type Claim struct {
	Owner string

	Source string
	Target string
}

// From records the source an artefact is derived from.
func (c Claim) From(source string) Claim {
	c.Source = source
	return c
}

func (c Claim) Own(name string) Claim {
	c.Owner = name
	return c
}

func (c Claim) String() string {
	return fmt.Sprintf("Claim{Owner: %s, Source: %s, Target: %s}", c.Owner, c.Source, c.Target)
}
