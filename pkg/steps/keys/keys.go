package keys

import (
	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/manifest"
	"github.com/olimci/shiori/pkg/sidebar"
	"github.com/olimci/shiori/pkg/transforms"
)

const (
	Config  = manifest.K[*config.Config]("config")
	Options = manifest.K[*config.Options]("options")
	Pages   = manifest.K[[]*transforms.Page]("pages")
	Heads   = manifest.K[map[string][]transforms.HeadTag]("heads")
)

// Sidebar is the key holding the sidebar of a locale.
func Sidebar(locale string) manifest.K[[]sidebar.Item] {
	return manifest.K[[]sidebar.Item]("sidebar:" + locale)
}
