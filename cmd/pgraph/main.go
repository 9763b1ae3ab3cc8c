// Command-line tool for pgraph datastores.
// Inspects, seeds and converts graphs described by a TOML configuration.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/DmitriyVTitov/size"
	"github.com/dustin/go-humanize"

	"github.com/janelia-flyem/pgraph/command"
	"github.com/janelia-flyem/pgraph/datastore"
	"github.com/janelia-flyem/pgraph/pgraph"
	"github.com/janelia-flyem/pgraph/storage"
	"github.com/janelia-flyem/pgraph/storage/memgraph"
)

var (
	// Display usage if true.
	showHelp = flag.Bool("help", false, "")

	// Run in verbose mode if true.
	runVerbose = flag.Bool("verbose", false, "")
)

const helpMessage = `
pgraph is a command-line tool for embedded property graph datastores

Usage: pgraph [options] <command>

      -verbose    (flag)    Run in verbose mode.
  -h, -help       (flag)    Show help message

Commands:

	version
	engines
	stats   config=<toml file>
	sample  config=<toml file>
	convert config=<toml file> to=<engine> path=<dir> [compression=<none|snappy|zstd>]
`

func main() {
	flag.BoolVar(showHelp, "h", false, "Show help message")
	flag.Usage = func() {
		fmt.Print(helpMessage)
	}
	flag.Parse()

	if flag.NArg() >= 1 && strings.ToLower(flag.Args()[0]) == "help" {
		*showHelp = true
	}
	if *showHelp || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}
	if *runVerbose {
		pgraph.SetLogMode(pgraph.DebugMode)
	}

	// Capture ctrl+c and other interrupts so engines can stop between records.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := DoCommand(ctx, command.Command(flag.Args()))
	pgraph.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// DoCommand serves as a switchboard for commands.
func DoCommand(ctx context.Context, cmd command.Command) error {
	switch cmd.Name() {
	case "version":
		fmt.Printf("pgraph %s\n", datastore.Version)
	case "engines":
		fmt.Println(storage.EnginesAvailable())
	case "stats":
		return DoStats(ctx, cmd)
	case "sample":
		return DoSample(ctx, cmd)
	case "convert":
		return DoConvert(ctx, cmd)
	default:
		return fmt.Errorf("unknown command %q, try 'pgraph help'", cmd.Name())
	}
	return nil
}

func loadConfig(cmd command.Command) (*datastore.Config, error) {
	filename, found := cmd.Setting(command.KeyConfig)
	if !found {
		return nil, fmt.Errorf("%s command requires config=<toml file>", cmd.Name())
	}
	return datastore.LoadConfig(filename)
}

// readGraph loads the configured graph and closes its store without saving.
func readGraph(ctx context.Context, c *datastore.Config) (*memgraph.Graph, error) {
	if c.Graph.Engine == "" {
		return nil, fmt.Errorf("configuration %s names no [graph] engine", c.Location())
	}
	store, _, err := storage.NewStore(c.StoreConfig())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	var options []memgraph.Option
	if c.Graph.DefaultIndices {
		options = append(options, memgraph.WithDefaultIndices())
	}
	g := memgraph.New(options...)
	if err := store.Load(ctx, g); err != nil {
		return nil, fmt.Errorf("loading graph from %s: %w", store, err)
	}
	return g, nil
}

// DoStats prints element and index counts of the configured graph.
func DoStats(ctx context.Context, cmd command.Command) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := readGraph(ctx, c)
	if err != nil {
		return err
	}
	fmt.Printf("Graph %s (%s engine)\n", g.InstanceID(), c.Graph.Engine)
	fmt.Printf("  vertices: %s\n", humanize.Comma(int64(g.NumVertices())))
	fmt.Printf("  edges:    %s\n", humanize.Comma(int64(g.NumEdges())))
	fmt.Printf("  next id:  %d\n", g.CurrentID())
	fmt.Printf("  memory:   ~%s\n", humanize.Bytes(uint64(size.Of(g))))
	for _, index := range g.Indices() {
		count := int64(len(index.Entries()))
		fmt.Printf("  index %-15s %-8s %-9s %s entries\n", index.Name(), index.Kind(), index.Type(),
			humanize.Comma(count))
	}
	return nil
}

type sampleEdge struct {
	out, in, label string
	weight         float32
}

// DoSample adds a small sample graph to the configured store.
func DoSample(ctx context.Context, cmd command.Command) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := datastore.Open(ctx, c)
	if err != nil {
		return err
	}
	people := map[string]pgraph.Value{"marko": int32(29), "vadas": int32(27), "josh": int32(32), "peter": int32(35)}
	vertices := make(map[string]storage.Vertex)
	for _, name := range []string{"marko", "vadas", "lop", "josh", "ripple", "peter"} {
		v, err := g.AddVertex("")
		if err != nil {
			return err
		}
		if err := v.SetProperty("name", name); err != nil {
			return err
		}
		if age, found := people[name]; found {
			err = v.SetProperty("age", age)
		} else {
			err = v.SetProperty("lang", "java")
		}
		if err != nil {
			return err
		}
		vertices[name] = v
	}
	for _, se := range []sampleEdge{
		{"marko", "vadas", "knows", 0.5},
		{"marko", "josh", "knows", 1.0},
		{"marko", "lop", "created", 0.4},
		{"josh", "ripple", "created", 1.0},
		{"josh", "lop", "created", 0.4},
		{"peter", "lop", "created", 0.2},
	} {
		e, err := g.AddEdge("", vertices[se.out], vertices[se.in], se.label)
		if err != nil {
			return err
		}
		if err := e.SetProperty("weight", se.weight); err != nil {
			return err
		}
	}
	pgraph.Infof("Added sample graph: %s\n", g)
	return g.Shutdown(ctx)
}

// DoConvert copies the configured graph into a store of another engine.
func DoConvert(ctx context.Context, cmd command.Command) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, found := cmd.Setting(command.KeyTo)
	if !found {
		return fmt.Errorf("convert command requires to=<engine>")
	}
	path, found := cmd.Setting(command.KeyPath)
	if !found {
		return fmt.Errorf("convert command requires path=<dir>")
	}
	g, err := readGraph(ctx, c)
	if err != nil {
		return err
	}

	sc := pgraph.StoreConfig{Config: cmd.Settings(), Engine: engine}
	delete(sc.Config, command.KeyConfig)
	delete(sc.Config, command.KeyTo)
	sc.Set(command.KeyPath, path)
	dst, _, err := storage.NewStore(sc)
	if err != nil {
		return err
	}
	timedLog := pgraph.NewTimeLog()
	if err := dst.Save(ctx, g); err != nil {
		dst.Close()
		return err
	}
	timedLog.Infof("Converted %s from %s to %s", g, c.Graph.Engine, dst)
	return dst.Close()
}
