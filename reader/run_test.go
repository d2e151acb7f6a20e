package reader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"storybook/common"
	"storybook/config"
	"storybook/layout"
	"storybook/navigate"
	"storybook/state"
)

const manifest = `
stories:
  - id: a
    title: Alpha
    content: Hello there.
    media:
      - id: m1
        content_type: image/jpeg
        file_path: photo.jpg
  - id: b
    content: Second story.
`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv, *bytes.Buffer) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	out := new(bytes.Buffer)
	env.Out = out
	return ctx, env, out
}

func writeManifest(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "library.yaml")
	if err := os.WriteFile(src, []byte(manifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return src
}

// with default geometry every story fits single page: cover, Alpha, photo,
// second story
func loadBook(t *testing.T, ctx context.Context, env *state.LocalEnv) *layout.Book {
	t.Helper()
	b, _, err := openBook(ctx, env, writeManifest(t), nil, env.Log)
	if err != nil {
		t.Fatalf("openBook() error = %v", err)
	}
	if b.TotalPageCount != 4 {
		t.Fatalf("TotalPageCount = %d, want 4", b.TotalPageCount)
	}
	return b
}

func runCommand(ctx context.Context, action cli.ActionFunc, args ...string) error {
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Value: common.OutputFmtText.String()},
			&cli.BoolFlag{Name: "tree"},
			&cli.BoolFlag{Name: "trace"},
			&cli.BoolFlag{Name: "preview"},
			&cli.StringFlag{Name: "force-zip-cp"},
		},
		Action: action,
	}
	return cmd.Run(ctx, append([]string{"test"}, args...))
}

func checkContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output does not contain %q:\n%s", w, out)
		}
	}
}

func TestOpenBook(t *testing.T) {
	ctx, env, _ := setupTestEnv(t)
	b := loadBook(t, ctx, env)
	if b.Len() != 2 || b.StoryPages[1] != 3 {
		t.Errorf("StoryPages = %v", b.StoryPages)
	}

	if _, _, err := openBook(ctx, env, filepath.Join(t.TempDir(), "missing.yaml"), nil, env.Log); err == nil {
		t.Error("expected error for missing library")
	}
}

func TestPrintLayout(t *testing.T) {
	ctx, env, out := setupTestEnv(t)
	b := loadBook(t, ctx, env)

	if err := printLayout(env, b, false); err != nil {
		t.Fatalf("printLayout() error = %v", err)
	}
	checkContains(t, out.String(), "Pages: 4", "1. Alpha ... 2\n", "2. Story 2 ... 4\n")

	out.Reset()
	if err := printLayout(env, b, true); err != nil {
		t.Fatalf("printLayout() error = %v", err)
	}
	checkContains(t, out.String(), "book: 4 pages, 2 stories", "page 3: image 1/1 \"", "photo.jpg\"")
}

func TestPrintPage(t *testing.T) {
	ctx, env, out := setupTestEnv(t)
	b := loadBook(t, ctx, env)

	r := newRenderer(ctx, env, nil, false)
	if err := printPage(r, env, b, 2); err != nil {
		t.Fatalf("printPage() error = %v", err)
	}
	checkContains(t, out.String(), "[image] ", "photo.jpg\n", "Page 3 of 4")

	for _, page := range []int{-1, 4} {
		if err := printPage(r, env, b, page); err == nil {
			t.Errorf("printPage(%d) expected error", page)
		}
	}
}

func TestRead(t *testing.T) {
	ctx, env, out := setupTestEnv(t)
	b := loadBook(t, ctx, env)

	newSession := func() *navigate.Session {
		s := navigate.NewSession(&env.Cfg.Book.Navigation, env.Log)
		s.Open(b)
		return s
	}
	r := newRenderer(ctx, env, nil, false)

	t.Run("final page", func(t *testing.T) {
		out.Reset()
		commands := []string{"next", "next", "bookmark", "story:2", "zoom-in", "toc"}
		if err := read(ctx, r, env, newSession(), commands, false, env.Log); err != nil {
			t.Fatalf("read() error = %v", err)
		}
		got := out.String()
		checkContains(t, got, "Story 2 of 2: Story 2", "Second story.\n", "1. Alpha ... 2\n",
			"Page 4 of 4 | zoom 110% | bookmarks 3")
		if n := strings.Count(got, "Page "); n != 1 {
			t.Errorf("printed %d pages, want 1", n)
		}
	})

	t.Run("trace", func(t *testing.T) {
		out.Reset()
		if err := read(ctx, r, env, newSession(), []string{"next", "prev", "jump:3"}, true, env.Log); err != nil {
			t.Fatalf("read() error = %v", err)
		}
		if n := strings.Count(out.String(), "Page "); n != 4 {
			t.Errorf("printed %d pages, want 4", n)
		}
	})

	t.Run("bad command", func(t *testing.T) {
		for _, commands := range [][]string{{"fly"}, {"jump"}, {"next:1"}} {
			if err := read(ctx, r, env, newSession(), commands, false, env.Log); err == nil {
				t.Errorf("read(%q) expected error", commands)
			}
		}
	})

	t.Run("structured", func(t *testing.T) {
		out.Reset()
		env.Format = common.OutputFmtYaml
		defer func() { env.Format = common.OutputFmtText }()
		if err := read(ctx, r, env, newSession(), []string{"next"}, false, env.Log); err != nil {
			t.Fatalf("read() error = %v", err)
		}
		checkContains(t, out.String(), "kind: text\n", "current_page: 1\n")
	})
}

func TestRunCommands(t *testing.T) {
	src := writeManifest(t)

	t.Run("layout", func(t *testing.T) {
		ctx, env, out := setupTestEnv(t)
		if err := runCommand(ctx, RunLayout, "--to", "json", src); err != nil {
			t.Fatalf("RunLayout() error = %v", err)
		}
		if env.Format != common.OutputFmtJson {
			t.Errorf("Format = %s, want json", env.Format)
		}
		checkContains(t, out.String(), `"total_pages": 4`)
	})

	t.Run("layout ion", func(t *testing.T) {
		ctx, _, out := setupTestEnv(t)
		if err := runCommand(ctx, RunLayout, "--to", "ion", src); err != nil {
			t.Fatalf("RunLayout() error = %v", err)
		}
		checkContains(t, out.String(), "total_pages:4")
	})

	t.Run("unknown format", func(t *testing.T) {
		ctx, env, _ := setupTestEnv(t)
		if err := runCommand(ctx, RunLayout, "--to", "pdf", src); err != nil {
			t.Fatalf("RunLayout() error = %v", err)
		}
		if env.Format != common.OutputFmtText {
			t.Errorf("Format = %s, want text", env.Format)
		}
	})

	t.Run("page", func(t *testing.T) {
		ctx, _, out := setupTestEnv(t)
		if err := runCommand(ctx, RunPage, src, "1"); err != nil {
			t.Fatalf("RunPage() error = %v", err)
		}
		checkContains(t, out.String(), "Story 1 of 2: Alpha", "Hello there.\n")

		if err := runCommand(ctx, RunPage, src); err == nil {
			t.Error("expected error without page index")
		}
		if err := runCommand(ctx, RunPage, src, "first"); err == nil {
			t.Error("expected error for malformed page index")
		}
	})

	t.Run("page preview", func(t *testing.T) {
		ctx, _, out := setupTestEnv(t)
		if err := runCommand(ctx, RunPage, "--preview", src, "2"); err != nil {
			t.Fatalf("RunPage() error = %v", err)
		}
		// manifest points to picture which does not exist
		checkContains(t, out.String(), "[image] ", "(preview unavailable: ")

		out.Reset()
		if err := runCommand(ctx, RunPage, src, "2"); err != nil {
			t.Fatalf("RunPage() error = %v", err)
		}
		if strings.Contains(out.String(), "preview") {
			t.Errorf("preview drawn without being requested:\n%s", out.String())
		}
	})

	t.Run("read", func(t *testing.T) {
		ctx, _, out := setupTestEnv(t)
		if err := runCommand(ctx, RunRead, "--force-zip-cp", "windows-1251", src, "next", "next"); err != nil {
			t.Fatalf("RunRead() error = %v", err)
		}
		checkContains(t, out.String(), "Page 3 of 4")
	})

	t.Run("no source", func(t *testing.T) {
		ctx, _, _ := setupTestEnv(t)
		if err := runCommand(ctx, RunLayout); err == nil {
			t.Error("expected error without source")
		}
	})

	t.Run("debug report", func(t *testing.T) {
		ctx, env, _ := setupTestEnv(t)
		env.Cfg.Reporting.Destination = filepath.Join(t.TempDir(), "report.zip")
		rpt, err := env.Cfg.Reporting.Prepare()
		if err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		env.Rpt = rpt
		if err := runCommand(ctx, RunLayout, src); err != nil {
			t.Fatalf("RunLayout() error = %v", err)
		}
		if err := rpt.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if _, err := os.Stat(rpt.Name()); err != nil {
			t.Errorf("report was not created: %v", err)
		}
	})
}

func TestCodePage(t *testing.T) {
	log := zaptest.NewLogger(t)
	tests := []struct {
		cp   string
		want bool
	}{
		{"", false},
		{"windows-1251", true},
		{"IBM866", true},
		{"no-such-charset", false},
	}
	for _, tt := range tests {
		t.Run(tt.cp, func(t *testing.T) {
			action := func(ctx context.Context, cmd *cli.Command) error {
				if got := codePage(cmd, log); (got != nil) != tt.want {
					t.Errorf("codePage(%q) = %v, want found %v", tt.cp, got, tt.want)
				}
				return nil
			}
			args := []string{}
			if len(tt.cp) > 0 {
				args = append(args, "--force-zip-cp", tt.cp)
			}
			if err := runCommand(context.Background(), action, args...); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
		})
	}
}
