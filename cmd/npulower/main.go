// Command npulower runs the Network -> Lowered Graph conversion pass
// (spec.md §1) over a TFLite model and optionally dumps the resulting
// graph as Graphviz DOT. Grounded on the teacher's cmd/manipulator's
// flag.Bool/flag.String CLI idiom, generalized with an optional YAML
// config overlay (gopkg.in/yaml.v3) for flags a CI pipeline would rather
// set from a file than a command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ethosn/npulower/capability"
	"github.com/ethosn/npulower/ingest"
	"github.com/ethosn/npulower/internal/nlog"
	"github.com/ethosn/npulower/lower"
	"github.com/ethosn/npulower/support"
)

// config is the overlay loadable via -config; any zero-valued field
// leaves the corresponding flag's default or command-line value
// untouched.
type config struct {
	Input          string `yaml:"input"`
	DumpDOT        string `yaml:"dump_dot"`
	EstimateOnlyOK *bool  `yaml:"estimate_only_ok"`
}

func main() {
	help := flag.Bool("help", false, "Show help message")
	configPath := flag.String("config", "", "Optional YAML config file overlaying the flags below")
	input := flag.String("input", "", "Path to a TFLite model to lower")
	dumpDOT := flag.String("dump-dot", "", "Path to write the lowered graph as Graphviz DOT, or empty to skip")
	estimateOnlyOK := flag.Bool("estimate-only-ok", true, "Treat Softmax (and any oracle EstimateOnly verdict) as success rather than aborting")

	flag.Parse()

	if *help {
		fmt.Println("npulower - lower a source network onto NPU hardware primitives")
		flag.PrintDefaults()
		return
	}

	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "npulower: %v\n", err)
			os.Exit(1)
		}
		if cfg.Input != "" {
			*input = cfg.Input
		}
		if cfg.DumpDOT != "" {
			*dumpDOT = cfg.DumpDOT
		}
		if cfg.EstimateOnlyOK != nil {
			*estimateOnlyOK = *cfg.EstimateOnlyOK
		}
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "npulower: -input is required")
		os.Exit(1)
	}

	if err := run(*input, *dumpDOT, *estimateOnlyOK); err != nil {
		fmt.Fprintf(os.Stderr, "npulower: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func run(inputPath, dumpDOTPath string, estimateOnlyOK bool) error {
	log := nlog.New()

	modelData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading model %s: %w", inputPath, err)
	}

	net, err := ingest.FromTFLite(modelData)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	log.Info().Int("operations", net.Len()).Msg("loaded source network")

	pass := lower.NewPass(capability.NewDefault(), support.AllSupported{})
	graph, stats, err := pass.Run(net)
	if err != nil {
		return fmt.Errorf("lowering network: %w", err)
	}
	log.Info().
		Int("supported", stats.Supported).
		Int("estimate_only", stats.EstimateOnly).
		Int("nodes", stats.NodesCreated).
		Msg("conversion pass complete")

	if stats.EstimateOnly > 0 && !estimateOnlyOK {
		return fmt.Errorf("network contains %d estimate-only operations and -estimate-only-ok=false", stats.EstimateOnly)
	}

	if dumpDOTPath != "" {
		dot, err := graph.DumpDOT()
		if err != nil {
			return fmt.Errorf("rendering DOT: %w", err)
		}
		if err := os.WriteFile(dumpDOTPath, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("writing DOT to %s: %w", dumpDOTPath, err)
		}
	}

	return nil
}
