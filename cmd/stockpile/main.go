// Stockpile computes emergency supply lists for a household.
//
// Usage:
//
//	stockpile [-adults N] [-children N] [-dogs N] [-cats N] [-duration "3 weeks"] [-categories water,critical]
//	stockpile -household "2 adults, 1 child and a dog for 3 weeks"
//	stockpile -set Water.perAdultPerDay=1.5 [-clear Tent.perFamily] [-reset] [-show Water]
//	stockpile -interactive
//	stockpile -serve [-addr :8080]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hammamikhairi/stockpile/internal/catalog"
	"github.com/hammamikhairi/stockpile/internal/config"
	"github.com/hammamikhairi/stockpile/internal/display"
	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/engine"
	"github.com/hammamikhairi/stockpile/internal/input"
	"github.com/hammamikhairi/stockpile/internal/logger"
	"github.com/hammamikhairi/stockpile/internal/recalc"
	"github.com/hammamikhairi/stockpile/internal/server"
	"github.com/hammamikhairi/stockpile/internal/storage"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// overrideFlag collects repeated item.field[=value] flags.
type overrideFlag []string

func (o *overrideFlag) String() string     { return strings.Join(*o, ",") }
func (o *overrideFlag) Set(v string) error { *o = append(*o, v); return nil }

// parseFieldRef splits "Item Name.field" at the last dot.
func parseFieldRef(ref string) (string, domain.RateField, error) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return "", domain.FieldUnknown, fmt.Errorf("%q: want item.field", ref)
	}
	item, name := ref[:i], ref[i+1:]
	field := domain.RateFieldFromString(name)
	if field == domain.FieldUnknown {
		return "", domain.FieldUnknown, fmt.Errorf("%q: %w", name, domain.ErrUnknownField)
	}
	return item, field, nil
}

func run() error {
	configPath := flag.String("config", "", "config file (default: ./stockpile.{toml,yaml,json} if present)")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (default stderr)")

	adults := flag.Int("adults", 0, "number of adults")
	children := flag.Int("children", 0, "number of children")
	dogs := flag.Int("dogs", 0, "number of dogs")
	cats := flag.Int("cats", 0, "number of cats")
	duration := flag.String("duration", "1", `duration, e.g. "10", "3 weeks", "36 hours"`)
	household := flag.String("household", "", `household as text, e.g. "2 adults and a cat for 2 weeks"`)
	categories := flag.String("categories", "", "comma-separated category or group keys (default: all)")
	asJSON := flag.Bool("json", false, "print the plan as JSON")

	catalogFile := flag.String("catalog", "", "catalog JSON file (default: built-in catalog)")
	groupsFile := flag.String("groups", "", "category groups JSON file (default: built-in groups)")
	storeDriver := flag.String("store", "", "override store: memory, sqlite or postgres")
	dsn := flag.String("dsn", "", "override store DSN (sqlite path or postgres URL)")

	var sets, clears overrideFlag
	flag.Var(&sets, "set", "set an override, item.field=value (repeatable)")
	flag.Var(&clears, "clear", "clear an override, item.field (repeatable)")
	reset := flag.Bool("reset", false, "drop every override")
	show := flag.String("show", "", "show catalog, override and effective rates of an item")
	list := flag.Bool("list", false, "list categories and groups")

	interactive := flag.Bool("interactive", false, "plan interactively, recalculating as you type")
	serve := flag.Bool("serve", false, "serve the HTTP API")
	addr := flag.String("addr", "", "HTTP listen address (default from config, :8080)")
	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags win over config.
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *catalogFile != "" {
		cfg.Catalog.File = *catalogFile
	}
	if *groupsFile != "" {
		cfg.Catalog.GroupsFile = *groupsFile
	}
	if *storeDriver != "" {
		cfg.Store.Driver = *storeDriver
	}
	if *dsn != "" {
		cfg.Store.DSN = *dsn
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logLevel, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" && cfg.Log.File != "stderr" {
		if dir := filepath.Dir(cfg.Log.File); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.Log.File, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Wire dependencies.
	catalogs, err := loadCatalog(cfg.Catalog, log.Named("catalog"))
	if err != nil {
		return err
	}
	store, closer, err := storage.Open(ctx, cfg.Store.Driver, cfg.Store.DSN, log.Named("store"))
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	defer closer.Close()

	eng := engine.New(catalogs, store, log.Named("engine"),
		engine.WithDefaultCategories(cfg.Plan.Categories...),
	)

	// Override management.
	admin := *reset || len(sets) > 0 || len(clears) > 0 || *show != "" || *list
	if *reset {
		if err := eng.ResetDefaults(ctx); err != nil {
			return err
		}
		fmt.Println(display.Hint("overrides reset to catalog defaults"))
	}
	for _, ref := range clears {
		item, field, err := parseFieldRef(ref)
		if err != nil {
			return err
		}
		if err := eng.ClearDefault(ctx, item, field); err != nil {
			return fmt.Errorf("clearing %s: %w", ref, err)
		}
	}
	for _, s := range sets {
		ref, raw, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("-set %q: want item.field=value", s)
		}
		item, field, err := parseFieldRef(ref)
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("-set %q: %w", s, domain.ErrInvalidValue)
		}
		if err := eng.SetDefault(ctx, item, field, value); err != nil {
			return fmt.Errorf("setting %s: %w", ref, err)
		}
	}
	if *list {
		cats, err := eng.Categories(ctx)
		if err != nil {
			return err
		}
		groups, err := eng.Groups(ctx)
		if err != nil {
			return err
		}
		fmt.Print(display.RenderCategories(cats, groups))
	}
	if *show != "" {
		d, err := eng.EffectiveDefaults(ctx, *show)
		if err != nil {
			return err
		}
		fmt.Print(display.RenderDefaults(d))
	}

	selection := splitList(*categories)

	switch {
	case *serve:
		if logLevel < logger.LevelVerbose {
			gin.SetMode(gin.ReleaseMode)
		}
		gin.DefaultWriter = log.Named("gin").Writer()
		return server.New(eng, log.Named("http")).Run(ctx, cfg.Server.Addr)

	case *interactive:
		return runInteractive(ctx, eng, selection, cfg, log)
	}

	planRequested := false
	for _, name := range []string{"adults", "children", "dogs", "cats", "duration", "household", "categories", "json"} {
		planRequested = planRequested || setFlags[name]
	}
	if admin && !planRequested {
		return nil
	}

	parser := input.NewParser(log.Named("input"))
	h, err := buildHousehold(parser, *household, *adults, *children, *dogs, *cats, *duration, setFlags["duration"], log)
	if err != nil {
		return err
	}

	if unknown, err := eng.UnknownCategories(ctx, selection); err == nil && len(unknown) > 0 {
		log.Warn("skipping unknown categories: %s", strings.Join(unknown, ", "))
	}

	plan, err := eng.Plan(ctx, h, selection)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	if display.IsTerminal() {
		fmt.Println(display.RenderBanner())
	}
	fmt.Print(display.RenderPlan(plan))
	return nil
}

func loadCatalog(cfg config.CatalogConfig, log *logger.Logger) (*catalog.MemorySource, error) {
	if cfg.File == "" && cfg.GroupsFile == "" {
		return catalog.NewMemorySource(log), nil
	}

	c := catalog.Builtin()
	if cfg.File != "" {
		loaded, err := catalog.LoadFile(cfg.File)
		if err != nil {
			return nil, err
		}
		c = loaded
	}
	groups := catalog.BuiltinGroups()
	if cfg.GroupsFile != "" {
		loaded, err := catalog.LoadGroupsFile(cfg.GroupsFile)
		if err != nil {
			return nil, err
		}
		groups = loaded
	}
	log.Info("catalog loaded: %d categories, %d groups", len(c.Keys()), len(groups))
	return catalog.NewMemorySourceFrom(c, groups, log), nil
}

// buildHousehold reads the household from text when given, else from the
// counts. An explicit -duration applies to text that states none.
func buildHousehold(parser *input.Parser, text string, adults, children, dogs, cats int, duration string, durationSet bool, log *logger.Logger) (domain.Household, error) {
	var h domain.Household
	if strings.TrimSpace(text) != "" {
		parsed, err := parser.ParseText(text)
		if err != nil {
			return domain.Household{}, err
		}
		if parsed.Clamped {
			log.Warn("duration clamped to %d days", parsed.Household.Duration)
		}
		if parsed.DurationGiven || !durationSet {
			return parsed.Household, nil
		}
		h = parsed.Household
	} else {
		h = domain.Household{Adults: adults, Children: children, Dogs: dogs, Cats: cats}
	}

	d, err := input.ParseDuration(duration)
	if err != nil {
		return domain.Household{}, err
	}
	if d.Clamped {
		log.Warn("duration clamped to %d %s", d.Quantity, d.Unit)
	}
	h.Duration = d.Days
	return h, nil
}

func runInteractive(ctx context.Context, eng *engine.Engine, selection []string, cfg *config.Config, log *logger.Logger) error {
	// The TUI owns the terminal; keep stderr logging out of it.
	if cfg.Log.File == "" || cfg.Log.File == "stderr" {
		log.SetLevel(logger.LevelOff)
	}

	rc := recalc.New(eng, log.Named("recalc"), recalc.WithDebounce(cfg.Recalc.Debounce))
	rc.Start(ctx)
	defer rc.Stop()

	updates, unsubscribe := rc.Subscribe()
	defer unsubscribe()

	live := display.NewLive(rc, updates, input.NewParser(log.Named("input")), selection)
	if err := live.Run(); err != nil {
		return fmt.Errorf("interactive: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
