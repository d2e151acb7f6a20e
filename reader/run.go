// Package reader implements command line actions: loading library, laying
// it out as a book and navigating through it.
package reader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"storybook/book"
	"storybook/common"
	"storybook/config"
	"storybook/layout"
	"storybook/library"
	"storybook/navigate"
	"storybook/paginate"
	"storybook/render"
	"storybook/state"
)

// name of layout dump in debug report
const reportLayout = "layout.yaml"

// RunLayout prints computed layout of the library.
func RunLayout(ctx context.Context, cmd *cli.Command) error {
	env, log, src, err := prepare(ctx, cmd, "layout")
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	log.Info("Layout starting", zap.String("source", src), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Layout completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	b, _, err := openBook(ctx, env, src, codePage(cmd, log), log)
	if err != nil {
		return err
	}
	return printLayout(env, b, cmd.Bool("tree"))
}

// RunPage prints single global page of the book.
func RunPage(ctx context.Context, cmd *cli.Command) error {
	env, log, src, err := prepare(ctx, cmd, "page")
	if err != nil {
		return err
	}
	arg := cmd.Args().Get(1)
	if len(arg) == 0 {
		return errors.New("no page index has been specified")
	}
	page, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("malformed page index %q: %w", arg, err)
	}

	b, loader, err := openBook(ctx, env, src, codePage(cmd, log), log)
	if err != nil {
		return err
	}
	return printPage(newRenderer(ctx, env, loader, cmd.Bool("preview")), env, b, page)
}

// RunRead opens reading session and applies navigation commands given on
// command line in order.
func RunRead(ctx context.Context, cmd *cli.Command) error {
	env, log, src, err := prepare(ctx, cmd, "read")
	if err != nil {
		return err
	}

	b, loader, err := openBook(ctx, env, src, codePage(cmd, log), log)
	if err != nil {
		return err
	}
	s := navigate.NewSession(&env.Cfg.Book.Navigation, log.Named("session"))
	s.Open(b)
	r := newRenderer(ctx, env, loader, cmd.Bool("preview"))
	return read(ctx, r, env, s, cmd.Args().Slice()[1:], cmd.Bool("trace"), log)
}

func prepare(ctx context.Context, cmd *cli.Command, name string) (*state.LocalEnv, *zap.Logger, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, "", err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named(name)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return nil, nil, "", errors.New("no library source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, nil, "", err
	}

	format, err := common.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to text", zap.Error(err))
		format = common.OutputFmtText
	}
	env.Format = format
	return env, log, src, nil
}

// codePage returns encoding to use for non UTF-8 file names in archives.
// Since zip "standard" does not define file name encoding old archives may
// need it.
func codePage(cmd *cli.Command, log *zap.Logger) encoding.Encoding {
	cp := cmd.String("force-zip-cp")
	if len(cp) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(cp)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
	return enc
}

// openBook loads library and lays it out. Computed layout goes into debug
// report when one is requested. Loader is returned to access media files
// later.
func openBook(ctx context.Context, env *state.LocalEnv, src string, cp encoding.Encoding, log *zap.Logger) (*layout.Book, *library.Loader, error) {
	loader := library.NewLoader(&env.Cfg.Library, log.Named("library"))
	loader.CodePage = cp

	lib, err := loader.Load(ctx, src)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load library: %w", err)
	}

	pager, err := paginate.New(&env.Cfg.Book.Geometry, log.Named("paginate"))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to prepare paginator: %w", err)
	}
	planner, err := layout.NewPlanner(pager, &env.Cfg.Book.TOC, log.Named("layout"))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to prepare layout planner: %w", err)
	}
	b := planner.ComputeLibrary(lib)

	if env.Rpt != nil {
		if data, err := render.Marshal(b, common.OutputFmtYaml); err != nil {
			log.Warn("Unable to store layout in debug report", zap.Error(err))
		} else {
			env.Rpt.StoreData(reportLayout, data)
		}
	}
	return b, loader, nil
}

func newRenderer(ctx context.Context, env *state.LocalEnv, loader *library.Loader, preview bool) *render.Renderer {
	r := render.New(env.Out)
	if f, ok := env.Out.(*os.File); ok {
		r.Width = config.TerminalWidth(f)
	}
	if preview && loader != nil {
		r.Media = func(item *book.MediaItem) ([]byte, error) {
			return loader.ReadMedia(ctx, item)
		}
	}
	return r
}

func printLayout(env *state.LocalEnv, b *layout.Book, tree bool) error {
	if tree {
		_, err := fmt.Fprint(env.Out, render.Tree(b))
		return err
	}
	return render.New(env.Out).Layout(b, env.Format)
}

// printPage shows global page as it would be seen in a freshly opened book
// jumped to that page.
func printPage(r *render.Renderer, env *state.LocalEnv, b *layout.Book, page int) error {
	if page < 0 || page >= b.TotalPageCount {
		return fmt.Errorf("page index %d is out of range, book has %d pages", page, b.TotalPageCount)
	}
	s := navigate.NewSession(&env.Cfg.Book.Navigation, env.Log)
	s.Open(b)
	s.JumpToPage(page)
	return r.View(b, s.ResolveCurrentPage(), s.Snapshot(), env.Format)
}

// read applies navigation commands to the session printing current page
// after every command when tracing, and once at the end otherwise.
func read(ctx context.Context, r *render.Renderer, env *state.LocalEnv, s *navigate.Session, commands []string, trace bool, log *zap.Logger) error {
	show := func() error {
		return r.View(s.Book(), s.ResolveCurrentPage(), s.Snapshot(), env.Format)
	}

	if trace {
		if err := show(); err != nil {
			return err
		}
	}
	for _, token := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, arg, err := navigate.ParseCommand(token)
		if err != nil {
			return err
		}
		if err := s.Apply(action, arg); err != nil {
			return err
		}
		log.Debug("Command applied", zap.Stringer("action", action), zap.Int("arg", arg), zap.Int("page", s.CurrentPage()))
		if trace {
			if err := show(); err != nil {
				return err
			}
		}
	}
	if trace {
		return nil
	}
	return show()
}
