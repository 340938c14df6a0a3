// sceneinspect browses and edits a scene file in the terminal.
//
// Usage:
//
//	go run ./cmd/sceneinspect [-log path] <scene name or .jscene path>
//
// Keys: Up/Down or Tab move focus, Left/Right adjust values, Enter toggles or
// presses, Ctrl-S saves, Esc quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/builtin"
	"github.com/jamgo/engine/internal/config"
	"github.com/jamgo/engine/internal/editor/inspector"
	"github.com/jamgo/engine/internal/editor/tui"
	"github.com/jamgo/engine/internal/meta"
	"github.com/jamgo/engine/internal/scene"
	"github.com/jamgo/engine/internal/script"
	"github.com/jamgo/engine/internal/scripting"
	"github.com/jamgo/engine/internal/serializer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sceneinspect [-log path] <scene>")
		os.Exit(2)
	}

	cfg := config.Default()
	if p := os.Getenv("JAM_CONFIG"); p != "" {
		loaded, err := config.Load(p)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// The terminal belongs to the inspector, so logs go to a file or nowhere.
	log := zap.NewNop()
	if *logPath != "" {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.OutputPaths = []string{*logPath}
		zapCfg.ErrorOutputPaths = []string{*logPath}
		l, err := zapCfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		defer log.Sync()
	}

	metas := meta.NewRegistry()
	scripts := script.NewRegistry()
	builtin.Register(metas, scripts)
	// Script names must resolve for script components to load.
	engine, err := scripting.NewEngine(cfg.Paths.ScriptsDir(), log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	engine.Register(scripts)

	z := serializer.New(metas, log, serializer.WithExtension(cfg.Paths.SceneExt))
	path, name := resolve(flag.Arg(0), cfg, z)
	am := assets.NewManager(cfg.Paths.AssetsDir(), assets.NewFileImporter(cfg.Paths.ModelExt), nil, log)
	sc := scene.New(name, am, nil, log)
	loaded, err := z.LoadScene(context.Background(), sc, path)
	if err != nil {
		return err
	}
	if !loaded {
		log.Info("new scene", zap.String("path", path))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Fini()

	ui := tui.New(screen)
	insp := inspector.New(metas)
	if es := sc.Entities(); len(es) > 0 {
		insp.Select(es[0])
	}

	status := fmt.Sprintf("%s  (%d entities)", path, sc.EntityCount())
	for {
		ui.Begin()
		ui.Label(status)
		ui.Separator()
		if insp.Draw(ui, sc) {
			status = path + "  (modified)"
		}
		ui.End()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlS {
				if err := z.SaveScene(sc, path); err != nil {
					status = "save failed: " + err.Error()
				} else {
					status = path + "  (saved)"
				}
				continue
			}
			if !ui.HandleKey(ev) {
				return nil
			}
		case nil:
			return nil
		}
	}
}

// resolve maps a bare scene name to its file under the scenes directory.
func resolve(arg string, cfg *config.Config, z *serializer.Serializer) (path, name string) {
	if strings.HasSuffix(arg, z.Extension()) {
		return arg, strings.TrimSuffix(filepath.Base(arg), z.Extension())
	}
	return z.ScenePath(cfg.Paths.ScenesDir(), arg), arg
}
