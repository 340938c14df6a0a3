// jam runs the engine headless: scenes, scripts and the post-process
// pipeline tick against a recording GPU device.
//
// Usage:
//
//	go run ./cmd/jam [-restore] [-frames n]
//
// JAM_CONFIG overrides the config path (default config/engine.toml).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jamgo/engine/internal/app"
	"github.com/jamgo/engine/internal/assets"
	"github.com/jamgo/engine/internal/builtin"
	"github.com/jamgo/engine/internal/config"
	"github.com/jamgo/engine/internal/gpu"
	"github.com/jamgo/engine/internal/meta"
	"github.com/jamgo/engine/internal/persist"
	"github.com/jamgo/engine/internal/script"
	"github.com/jamgo/engine/internal/scripting"
	"github.com/jamgo/engine/internal/serializer"
)

const keepSnapshots = 20

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m %-41s \033[36;1m│\033[0m\n", name+" engine")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Engine ─────────────────────────────────────────────────────────

func run() error {
	restore := flag.Bool("restore", false, "restore the start scene from the latest database snapshot")
	frames := flag.Int("frames", -1, "stop after n frames (overrides frame.max_frames)")
	flag.Parse()

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *frames >= 0 {
		cfg.Frame.MaxFrames = *frames
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	printBanner(cfg.Engine.Name)

	// 3. Application and content directories
	printSection("Content")
	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	printOK(fmt.Sprintf("content root %s", cfg.Paths.Contents))

	// 4. Components and scripts
	metas := meta.NewRegistry()
	scripts := script.NewRegistry()
	builtin.Register(metas, scripts)
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Paths.ScriptsDir(), log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		engine.Register(scripts)
	}
	printStat("component types", metas.Len())
	printStat("scripts", scripts.Len())
	fmt.Println()

	// 5. Device, shaders and post processing
	printSection("Renderer")
	dev := gpu.NewRecorder(log.Named("gpu"))
	descs, err := gpu.LoadShaderManifest(cfg.Paths.ShaderManifest)
	if err != nil {
		return err
	}
	shaders := gpu.NewShaderCollection()
	if err := shaders.Compile(dev, descs); err != nil {
		return fmt.Errorf("compile shaders: %w", err)
	}
	printStat("shader programs", shaders.Len())

	post := app.NewPostProcessLayer(dev, shaders, cfg.PostProcess, gputypes.TextureFormatBGRA8Unorm, log.Named("post"))
	if err := post.Resize(cfg.Window.Width, cfg.Window.Height); err != nil {
		return err
	}
	if p := post.Pipeline(); p != nil {
		printStat("post process filters", p.Len())
	}
	fmt.Println()

	// 6. Scene archive
	var opts []serializer.Option
	if cfg.Engine.StrictScenes {
		opts = append(opts, serializer.Strict())
	}
	opts = append(opts, serializer.WithExtension(cfg.Paths.SceneExt))
	z := serializer.New(metas, log.Named("serializer"), opts...)
	scenes := app.NewSceneLayer(z, scripts, cfg.Paths.ScenesDir(), log.Named("scenes"))

	var repo *persist.SceneRepo
	if cfg.Database.Enabled {
		printSection("Database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		repo = persist.NewSceneRepo(db)

		if *restore {
			if err := restoreScene(ctx, repo, z, scenes.SceneFile(cfg.Engine.StartScene), cfg.Engine.StartScene); err != nil {
				return err
			}
			printOK(fmt.Sprintf("scene %q restored", cfg.Engine.StartScene))
		}
		fmt.Println()
	} else if *restore {
		return errors.New("-restore needs database.enabled")
	}

	// 7. Layers and start scene
	start := cfg.Engine.StartScene
	am := assets.NewManager(cfg.Paths.AssetsDir(), assets.NewFileImporter(cfg.Paths.ModelExt), application.Bus(), log.Named("assets"))
	scenes.AddScene(newDemoScene(start, am, scripts, log))
	application.AttachLayer(scenes, false)
	application.AttachLayer(post, false)
	application.Resize(cfg.Window.Width, cfg.Window.Height)
	scenes.ChangeScene(start)

	// 8. Frame loop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printSection("Running")
	printReady(fmt.Sprintf("scene %q", start))
	printReady(fmt.Sprintf("frame loop (rate: %s)", cfg.Frame.Rate))
	fmt.Println()

	application.Run(ctx)

	// 9. Save on the way out
	if err := scenes.SaveScene(start); err != nil {
		log.Error("save scene", zap.String("scene", start), zap.Error(err))
	}
	if repo != nil {
		archive(repo, z, scenes, start, log)
	}
	log.Info("engine stopped",
		zap.Uint64("frames", application.Frames()),
		zap.Int("draws", dev.Draws()),
	)
	application.RemoveLayer(app.PostProcessLayerName)
	application.RemoveLayer(app.SceneLayerName)
	return nil
}

func loadConfig() (*config.Config, error) {
	path := "config/engine.toml"
	if p := os.Getenv("JAM_CONFIG"); p != "" {
		return config.Load(p)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// restoreScene writes the latest archived document of name over its scene
// file so the next switch loads it.
func restoreScene(ctx context.Context, repo *persist.SceneRepo, z *serializer.Serializer, path, name string) error {
	row, err := repo.Latest(ctx, name)
	if err != nil {
		return fmt.Errorf("restore %q: %w", name, err)
	}
	if row == nil {
		return fmt.Errorf("restore %q: no snapshot archived", name)
	}
	doc, err := serializer.Decode(row.Document)
	if err != nil {
		return fmt.Errorf("restore %q: %w", name, err)
	}
	return z.SaveDocument(doc, path)
}

func archive(repo *persist.SceneRepo, z *serializer.Serializer, scenes *app.SceneLayer, name string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sc := scenes.Scene(name)
	doc, err := z.Serialize(sc)
	if err != nil {
		log.Error("serialize scene", zap.String("scene", name), zap.Error(err))
		return
	}
	data, err := serializer.Encode(doc)
	if err != nil {
		log.Error("encode scene", zap.String("scene", name), zap.Error(err))
		return
	}
	row, err := repo.Save(ctx, name, sc.EntityCount(), data)
	if err != nil {
		log.Error("archive scene", zap.String("scene", name), zap.Error(err))
		return
	}
	pruned, err := repo.Prune(ctx, name, keepSnapshots)
	if err != nil {
		log.Warn("prune snapshots", zap.String("scene", name), zap.Error(err))
	}
	log.Info("scene archived",
		zap.String("scene", name),
		zap.Stringer("snapshot", row.ID),
		zap.Int64("pruned", pruned),
	)
}

func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "":
		return nil
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "trace":
		mode = profile.TraceProfile
	case "block":
		mode = profile.BlockProfile
	case "mutex":
		mode = profile.MutexProfile
	case "goroutine":
		mode = profile.GoroutineProfile
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q, profiling disabled\n", cfg.Mode)
		return nil
	}
	path := cfg.Path
	if path == "" {
		path = "."
	}
	return profile.Start(mode, profile.ProfilePath(path), profile.NoShutdownHook).Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
