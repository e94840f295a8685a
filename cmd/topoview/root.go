package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/beetlebugorg/topo/internal/config"
	"github.com/beetlebugorg/topo/internal/logging"
	"github.com/beetlebugorg/topo/pkg/topology"
)

type rootOptions struct {
	configPath   string
	topologyFile string
	mapFile      string
	logLevel     string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "topoview",
		Short:        "Inspect topology overlay manifests",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./topoview.yaml or ~/.config/topoview/topoview.yaml)")
	flags.StringVar(&opts.topologyFile, "topology", "", "topology manifest, overrides topology.file")
	flags.StringVar(&opts.mapFile, "map", "", "map archive holding topology.tpl, overrides topology.mapfile")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level")

	cmd.AddCommand(newLayersCommand(opts), newScanCommand(opts))
	return cmd
}

// openStore loads configuration, applies flag overrides and opens a store.
// Geometry decoding is not wired in, so layers carry no shapes.
func (o *rootOptions) openStore() (*topology.Store, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.topologyFile != "" {
		cfg.Topology.File = o.topologyFile
	}
	if o.mapFile != "" {
		cfg.Topology.MapFile = o.mapFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	log := logging.Console(cfg.Log.Level)
	store := topology.NewStore(topology.Options{
		Settings:  cfg,
		Progress:  logProgress{log: log},
		Logger:    &log,
		MaxLayers: cfg.Topology.MaxLayers,
	})
	store.Open()
	return store, nil
}

type logProgress struct {
	log zerolog.Logger
}

func (p logProgress) Start(message string) {
	p.log.Info().Msg(message)
}

func newLayersCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "List the layers of the configured manifest in draw order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			writeLayers(cmd.OutOrStdout(), store.Layers())
			return nil
		},
	}
}

func writeLayers(out io.Writer, layers []topology.LayerInfo) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPATH\tRANGE\tVARIANT\tLABEL\tICON\tCOLOR\tIN SCALE\tDIRTY")
	for i, l := range layers {
		label := "-"
		if l.Variant == topology.LabeledGeometry {
			label = strconv.Itoa(l.LabelField + 1)
		}
		icon := "-"
		if l.IconID != 0 {
			icon = strconv.Itoa(l.IconID)
		}
		fmt.Fprintf(w, "%d\t%s\t%g\t%s\t%s\t%s\t%s\t%t\t%t\n",
			i, l.Path, l.ScaleThreshold, l.Variant, label, icon, l.Color, l.InScale, l.Dirty)
	}
	w.Flush()
}

// fixedViewport is a viewport that does not move.
type fixedViewport struct {
	scale  float64
	bounds topology.Bounds
}

func (v fixedViewport) Scale() float64           { return v.scale }
func (v fixedViewport) Bounds() topology.Bounds { return v.bounds }

func newScanCommand(opts *rootOptions) *cobra.Command {
	var (
		scale float64
		bbox  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Refresh layer caches for a viewport and report how many scans it took",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bounds, err := parseBBox(bbox)
			if err != nil {
				return err
			}

			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			vp := fixedViewport{scale: scale, bounds: bounds}
			store.TriggerUpdateCaches(vp)

			scans := 1
			for store.ScanVisibility(vp, bounds, force) {
				scans++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d layers refreshed in %d scans\n", store.Len(), scans)
			writeLayers(out, store.Layers())
			return nil
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 10, "map scale to evaluate layer thresholds against")
	cmd.Flags().StringVar(&bbox, "bbox", "-180,-90,180,90", "active bounds as minLon,minLat,maxLon,maxLat")
	cmd.Flags().BoolVar(&force, "force", false, "rebuild every layer in one scan")
	return cmd
}

func parseBBox(s string) (topology.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return topology.Bounds{}, fmt.Errorf("bbox %q: want minLon,minLat,maxLon,maxLat", s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return topology.Bounds{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return topology.Bounds{}, fmt.Errorf("bbox %q: min exceeds max", s)
	}

	return topology.Bounds{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}, nil
}
