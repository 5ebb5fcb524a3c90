package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/fsnotify/fsnotify"
	"github.com/guptarohit/asciigraph"

	"github.com/colmak/collsim/internal/collide"
	"github.com/colmak/collsim/internal/config"
	"github.com/colmak/collsim/internal/engines"
	"github.com/colmak/collsim/internal/geom"
	"github.com/colmak/collsim/internal/store"
	"github.com/colmak/collsim/internal/tui"
	"github.com/colmak/collsim/internal/world"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	engineName string
	workers    int
	saveRun    bool
	useTUI     bool
)

// main registers the collsim commands and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "collsim",
		Short: "collision model and broad-phase scan lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".collsim", "data directory")

	scanCmd := &cobra.Command{
		Use:   "scan [scene.yaml]",
		Short: "scan a scene for candidate contact pairs",
		Args:  cobra.ExactArgs(1),
		RunE:  scanScene,
	}
	scanCmd.Flags().StringVar(&engineName, "engine", "", "override scene engine")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "scan workers (0 = one per cpu)")
	scanCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run under the data directory")

	watchCmd := &cobra.Command{
		Use:   "watch [scene.yaml]",
		Short: "rescan a scene whenever its file changes",
		Args:  cobra.ExactArgs(1),
		RunE:  watchScene,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [scene.yaml]",
		Short: "inspect the bodies and shapes of a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectScene,
	}
	inspectCmd.Flags().BoolVar(&useTUI, "tui", false, "interactive terminal inspector")

	hullsCmd := &cobra.Command{
		Use:   "hulls [file.chulls]",
		Short: "parse a convex hull cluster file and report its hulls",
		Args:  cobra.ExactArgs(1),
		RunE:  reportHulls,
	}

	enginesCmd := &cobra.Command{
		Use:   "engines",
		Short: "show engine shape support",
		RunE:  engineMatrix,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved scan runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and pairs",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	initCmd := &cobra.Command{
		Use:   "init [scene.yaml]",
		Short: "write a default scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], sampleScene()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(scanCmd, watchCmd, inspectCmd, hullsCmd, enginesCmd, listCmd, exportCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildScene(cmd *cobra.Command, path string) (*config.Config, *world.World, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("engine") {
		cfg.Engine = engineName
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	w, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return cfg, w, nil
}

func scanScene(cmd *cobra.Command, args []string) error {
	cfg, w, err := buildScene(cmd, args[0])
	if err != nil {
		return err
	}

	pairs, err := w.Scan(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("engine: %s\n", cfg.Engine)
	fmt.Printf("models: %d\n", w.NumModels())
	fmt.Printf("pairs: %d\n\n", len(pairs))

	if len(pairs) > 0 {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "A\tB\tA_BODY\tB_BODY")
		for _, p := range pairs {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", p.A, p.B, bodyLabel(w, p.A), bodyLabel(w, p.B))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Println()
	}

	if w.NumModels() > 1 {
		extents := make([]float64, w.NumModels())
		for i := range extents {
			extents[i] = w.ModelAt(i).AABB().Size().X
		}
		graph := asciigraph.Plot(extents,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("world aabb x extent per model"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.SaveScan(cfg.Engine, w, pairs)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func watchScene(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := scanScene(cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("watching %s (ctrl-c to stop)\n", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Printf("\n%s changed, rescanning\n", path)
			if err := scanScene(cmd, args); err != nil {
				fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
			}
			// Editors replacing the file drop the watch.
			_ = watcher.Add(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func inspectScene(cmd *cobra.Command, args []string) error {
	_, w, err := buildScene(cmd, args[0])
	if err != nil {
		return err
	}

	if useTUI {
		return tui.Run(w)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBODY\tFAMILY\tMASK\tSHAPES\tENVELOPE\tMARGIN")
	for i := 0; i < w.NumModels(); i++ {
		m := w.ModelAt(i)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%04x\t%d\t%.3f\t%.3f\n",
			i, bodyLabel(w, i), m.Family(), m.FamilyMask(), m.NumShapes(), m.Envelope(), m.SafeMargin())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Println()

	for i := 0; i < w.NumModels(); i++ {
		m := w.ModelAt(i)
		fmt.Printf("%s:\n", bodyLabel(w, i))
		for j := 0; j < m.NumShapes(); j++ {
			sh := m.ShapeAt(j)
			fmt.Printf("  [%d] %s params=%v pos=(%.3f, %.3f, %.3f)\n",
				j, sh.Kind, sh.Params, sh.Pos.X, sh.Pos.Y, sh.Pos.Z)
		}
	}

	return nil
}

func reportHulls(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	m := collide.NewModel(engines.AutoSelect())
	if err := m.AddConvexHullsFromFile(f, geom.Vec3{}, geom.Identity()); err != nil {
		return err
	}

	fmt.Printf("hulls: %d\n\n", m.NumShapes())

	counts := make([]float64, m.NumShapes())
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HULL\tPOINTS\tBOUNDS_X\tBOUNDS_Y\tBOUNDS_Z")
	for i := 0; i < m.NumShapes(); i++ {
		sh := m.ShapeAt(i)
		size := sh.LocalBounds().Size()
		counts[i] = float64(len(sh.Hull))
		fmt.Fprintf(tw, "%d\t%d\t%.3f\t%.3f\t%.3f\n", i, len(sh.Hull), size.X, size.Y, size.Z)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if m.NumShapes() > 1 {
		fmt.Println()
		graph := asciigraph.Plot(counts,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("points per hull"),
		)
		fmt.Println(graph)
	}

	return nil
}

func engineMatrix(cmd *cobra.Command, args []string) error {
	names := engines.List()
	engs := make([]collide.Engine, 0, len(names))
	for _, name := range names {
		eng, err := engines.Get(name)
		if err != nil {
			return err
		}
		engs = append(engs, eng)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "SHAPE")
	for _, name := range names {
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprintln(tw)

	for _, kind := range collide.AllKinds() {
		fmt.Fprintf(tw, "%s", kind)
		for _, eng := range engs {
			mark := "-"
			if eng.Supports(kind) {
				mark = "yes"
			}
			fmt.Fprintf(tw, "\t%s", mark)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tENGINE\tTIME\tMODELS\tSHAPES\tPAIRS")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Engine,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Models,
			run.Shapes,
			run.Pairs,
		)
	}

	return tw.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	pairs, err := st.LoadPairs(args[0])
	if err != nil {
		return err
	}

	out := struct {
		*store.RunMetadata
		PairList []world.Pair `json:"pair_list"`
	}{meta, pairs}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// sampleScene is the scene written by the init command: a floor slab
// with a ball resting on it.
func sampleScene() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Bodies = []config.BodyConfig{
		{
			Name:   "floor",
			Family: 1,
			Shapes: []config.ShapeConfig{
				{Kind: "box", Params: []float64{5, 0.1, 5}},
			},
		},
		{
			Name:     "ball",
			Family:   2,
			Position: [3]float64{0, 0.5, 0},
			Shapes: []config.ShapeConfig{
				{Kind: "sphere", Params: []float64{0.5}},
			},
		},
	}
	return cfg
}

func bodyLabel(w *world.World, id int) string {
	if c := w.ModelAt(id).Contactable(); c != nil {
		return c.Label()
	}
	return fmt.Sprintf("model_%d", id)
}
