package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/olimci/shiori/pkg/config"
	"github.com/olimci/shiori/pkg/events"
	"github.com/olimci/shiori/pkg/iofs"
	"github.com/olimci/shiori/pkg/manifest"
	"github.com/olimci/shiori/pkg/steps"
)

func testConfig(t *testing.T, url string) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Site.URL = url
	cfg.Build.Minify = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"docs/index.md":          {Data: []byte("---\ndescription: Home page\n---\n# Home\n")},
		"docs/guide/index.md":    {Data: []byte("# Guide\n")},
		"docs/guide/getting.md":  {Data: []byte("# Getting started\n")},
		"docs/public/favicon.md": {Data: []byte("# Not in the sidebar\n")},
	}
}

func testOptions() *config.Options {
	return config.DefaultOptions().WithMaxWorkers(4)
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()

	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(b)
}

func TestBuildStepsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, "https://docs.example.com")

	// files owned by the host tool survive the build
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := BuildSteps(steps.Default(cfg), cfg, testOptions(), iofs.FromFS(testContent(), "."), iofs.FromOS(dir))
	if err != nil {
		t.Fatalf("BuildSteps() error = %v", err)
	}

	for _, rel := range []string{"index.html", "robots.txt", "sitemap.xml", "_shiori/site.json", "_shiori/head.json"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s: %v", rel, err)
		}
	}

	robots := readFile(t, dir, "robots.txt")
	if !strings.HasSuffix(robots, "Sitemap: https://docs.example.com/sitemap.xml") {
		t.Errorf("robots.txt = %q", robots)
	}

	sitemap := readFile(t, dir, "sitemap.xml")
	for _, loc := range []string{"https://docs.example.com/", "https://docs.example.com/guide/getting.html"} {
		if !strings.Contains(sitemap, "<loc>"+loc+"</loc>") {
			t.Errorf("sitemap missing %s", loc)
		}
	}

	site := readFile(t, dir, "_shiori/site.json")
	if !strings.Contains(site, `"link": "/guide/getting"`) {
		t.Errorf("site.json sidebar missing guide link:\n%s", site)
	}
	if strings.Contains(site, "Not in the sidebar") {
		t.Error("public directory should be excluded from the sidebar")
	}

	head := readFile(t, dir, "_shiori/head.json")
	if !strings.Contains(head, "Home page") {
		t.Errorf("head.json missing page description:\n%s", head)
	}
}

func TestBuildStepsWithoutURL(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, "")

	err := BuildSteps(steps.Default(cfg), cfg, testOptions(), iofs.FromFS(testContent(), "."), iofs.FromOS(dir))
	if err != nil {
		t.Fatalf("BuildSteps() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "sitemap.xml")); !os.IsNotExist(err) {
		t.Error("sitemap.xml should not be written without a site URL")
	}
	if robots := readFile(t, dir, "robots.txt"); strings.Contains(robots, "Sitemap:") {
		t.Errorf("robots.txt should not reference a sitemap: %q", robots)
	}
}

func TestBuildStepsOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) func(context.Context, steps.StepContext) error {
		return func(ctx context.Context, sc steps.StepContext) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	id := func(name string) steps.StepID { return steps.StepID{Owner: "test", Name: name} }
	stepList := []steps.Step{
		steps.StepFunc(id("c"), record("c")).WithDeps(id("b")),
		steps.StepFunc(id("b"), record("b")).WithDeps(id("a")),
		steps.StepFunc(id("a"), record("a")),
	}

	cfg := testConfig(t, "")
	if err := BuildSteps(stepList, cfg, testOptions(), iofs.FromFS(fstest.MapFS{}, "."), iofs.FromOS(t.TempDir())); err != nil {
		t.Fatalf("BuildSteps() error = %v", err)
	}

	if got := strings.Join(order, ","); got != "a,b,c" {
		t.Errorf("order = %s, want a,b,c", got)
	}
}

func TestBuildStepsCircular(t *testing.T) {
	cfg := testConfig(t, "")
	stepList := []steps.Step{step("a", "b"), step("b", "a")}

	err := BuildSteps(stepList, cfg, testOptions(), iofs.FromFS(fstest.MapFS{}, "."), iofs.FromOS(t.TempDir()))
	if !errors.Is(err, ErrCircularDependency) {
		t.Errorf("error = %v, want %v", err, ErrCircularDependency)
	}
}

func TestBuildStepsTaskError(t *testing.T) {
	cause := errors.New("boom")
	stepList := []steps.Step{
		steps.StepFunc(steps.StepID{Owner: "test", Name: "fail"}, func(ctx context.Context, sc steps.StepContext) error {
			return cause
		}),
	}

	cfg := testConfig(t, "")
	err := BuildSteps(stepList, cfg, testOptions(), iofs.FromFS(fstest.MapFS{}, "."), iofs.FromOS(t.TempDir()))

	for _, want := range []error{ErrBuildFailed, ErrTaskError, cause} {
		if !errors.Is(err, want) {
			t.Errorf("error = %v, want it to wrap %v", err, want)
		}
	}
	if !strings.Contains(err.Error(), "test:fail") {
		t.Errorf("error %q should name the step", err)
	}
}

func TestBuildStepsHooksRunAfterWrites(t *testing.T) {
	dir := t.TempDir()
	id := steps.StepID{Owner: "test", Name: "emit"}

	var seen bool
	stepList := []steps.Step{
		steps.StepFunc(id, func(ctx context.Context, sc steps.StepContext) error {
			sc.Defer("check", func(ctx context.Context, out iofs.Writable) error {
				_, err := os.Stat(filepath.Join(dir, "artefact.txt"))
				seen = err == nil
				return nil
			})
			sc.Emit(manifest.TextArtefact(manifest.NewClaim(id.String(), "artefact.txt"), "x"))
			return nil
		}),
	}

	cfg := testConfig(t, "")
	if err := BuildSteps(stepList, cfg, testOptions(), iofs.FromFS(fstest.MapFS{}, "."), iofs.FromOS(dir)); err != nil {
		t.Fatalf("BuildSteps() error = %v", err)
	}
	if !seen {
		t.Error("hook ran before the manifest was written")
	}
}

type failingOutput struct {
	iofs.Writable
	target string
}

func (f failingOutput) Write(rel string, gen iofs.WriterFunc) error {
	if rel == f.target {
		return fmt.Errorf("write %s: %w", rel, os.ErrPermission)
	}
	return f.Writable.Write(rel, gen)
}

func TestBuildStepsRobotsFailure(t *testing.T) {
	cfg := testConfig(t, "")
	out := failingOutput{Writable: iofs.FromOS(t.TempDir()), target: "robots.txt"}

	err := BuildSteps(steps.Default(cfg), cfg, testOptions(), iofs.FromFS(testContent(), "."), out)
	if !errors.Is(err, ErrBuildFailed) || !errors.Is(err, os.ErrPermission) {
		t.Errorf("error = %v, want build failure wrapping %v", err, os.ErrPermission)
	}
}

func TestBuildStepsErrorEvents(t *testing.T) {
	content := testContent()
	content["docs/broken.md"] = &fstest.MapFile{Data: []byte("+++\ntitle = \n+++\n")}

	tests := []struct {
		name    string
		opts    *config.Options
		wantErr bool
	}{
		{"build", testOptions(), true},
		{"dev", testOptions().WithDev(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := testConfig(t, "")

			collector := events.NewCollector(nil)
			tt.opts.WithEventHandler(collector)

			err := BuildSteps(steps.Default(cfg), cfg, tt.opts, iofs.FromFS(content, "."), iofs.FromOS(dir))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrBuildFailed) {
				t.Errorf("error = %v, want %v", err, ErrBuildFailed)
			}

			// the page index and the root sidebar each report the page
			var reporters []string
			for _, event := range collector.AtLevel(events.Error) {
				reporters = append(reporters, event.Step)
			}
			slices.Sort(reporters)
			want := []string{steps.IDPagesIndex.String(), steps.IDSidebar("root").String()}
			if !slices.Equal(reporters, want) {
				t.Errorf("error events from %v, want %v", reporters, want)
			}
			// everything else is still written
			if _, err := os.Stat(filepath.Join(dir, "robots.txt")); err != nil {
				t.Errorf("robots.txt: %v", err)
			}
		})
	}
}

func TestBuildStepsWorkers(t *testing.T) {
	tests := []struct {
		name string
		opts func() *config.Options
	}{
		{"one", func() *config.Options { return config.DefaultOptions().WithMaxWorkers(1) }},
		{"two", func() *config.Options { return config.DefaultOptions().WithMaxWorkers(2) }},
		{"default", config.DefaultOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := testConfig(t, "https://docs.example.com")

			done := make(chan error, 1)
			go func() {
				done <- BuildSteps(steps.Default(cfg), cfg, tt.opts(), iofs.FromFS(testContent(), "."), iofs.FromOS(dir))
			}()

			select {
			case err := <-done:
				if err != nil {
					t.Fatalf("BuildSteps() error = %v", err)
				}
			case <-time.After(10 * time.Second):
				t.Fatal("BuildSteps() did not finish")
			}

			for _, rel := range []string{"robots.txt", "sitemap.xml", "_shiori/site.json", "_shiori/head.json"} {
				if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
					t.Errorf("%s: %v", rel, err)
				}
			}
		})
	}
}

func TestBuild(t *testing.T) {
	root := t.TempDir()

	files := map[string]string{
		"shiori.toml":           "[site]\ntitle = \"Docs\"\nurl = \"https://docs.example.com/\"\n",
		"docs/index.md":         "# Home\n",
		"docs/guide/getting.md": "# Getting started\n",
	}
	for rel, data := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	opts := testOptions().WithConfig(filepath.Join(root, "shiori.toml"))
	if err := Build(opts); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	robots := readFile(t, filepath.Join(root, "dist"), "robots.txt")
	if !strings.Contains(robots, "Sitemap: https://docs.example.com/sitemap.xml") {
		t.Errorf("robots.txt = %q", robots)
	}
}

func TestBuildMissingConfig(t *testing.T) {
	opts := testOptions().WithConfig(filepath.Join(t.TempDir(), "shiori.toml"))
	if err := Build(opts); err == nil {
		t.Error("expected error for missing config")
	}
}
