package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"farmtycoon/internal/config"
	"farmtycoon/internal/domain/farm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := defaultOptions()
	var tuningFile string

	cmd := &cobra.Command{
		Use:   "farmsim",
		Short: "Run the farm simulation headless and print a summary",
		Long: `Spawns a herd on a fresh farm, ticks it against a simulated clock and
prints the resulting stock, herd and metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tuningFile != "" {
				t, err := config.LoadTuning(tuningFile)
				if err != nil {
					return err
				}
				opts.Tuning = t
			}
			res, err := simulate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), opts, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Ticks, "ticks", opts.Ticks, "number of frames to simulate")
	f.Float64Var(&opts.DT, "dt", opts.DT, "seconds of real time per frame")
	f.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	f.IntVar(&opts.Cows, "cows", opts.Cows, "cows to spawn")
	f.IntVar(&opts.Chickens, "chickens", opts.Chickens, "chickens to spawn")
	f.IntVar(&opts.Pigs, "pigs", opts.Pigs, "pigs to spawn")
	f.IntVar(&opts.Sheep, "sheep", opts.Sheep, "sheep to spawn")
	f.IntVar(&opts.Troughs, "troughs", opts.Troughs, "feeding troughs to place")
	f.BoolVar(&opts.Perimeter, "perimeter", opts.Perimeter, "fence the pasture before spawning")
	f.StringVar(&tuningFile, "tuning", "", "optional tuning YAML file")
	return cmd
}

func printReport(w io.Writer, opts options, res result) {
	title := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow)

	title.Fprintf(w, "\nFarm Tycoon simulation: %d frames of %.2fs (seed %d)\n\n", opts.Ticks, opts.DT, opts.Seed)
	fmt.Fprintf(w, "Day %d, %s\n", res.State.Day, clockString(res.State.Time))
	good.Fprintf(w, "Money: $%.2f\n", res.State.Money)
	fmt.Fprintf(w, "Fence health: %.0f%%  Animal health: %.0f%%\n", res.State.FenceHealth, res.State.AnimalHealth)
	fmt.Fprintf(w, "Feedings: %d  Fence hits: %d  Day rollovers: %d\n", res.Fed, res.FenceHits, res.Days)
	if len(res.Starving) > 0 {
		warn.Fprintf(w, "Starving: %v\n", res.Starving)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Resources:")
	resources := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Resource", "Stock", "Produced"}))
	for _, r := range farm.Resources() {
		_ = resources.Append([]string{string(r), fmt.Sprint(res.State.Resources[r]), fmt.Sprint(res.Produced[r])})
	}
	_ = resources.Render()

	fmt.Fprintln(w, "\nAnimals:")
	animals := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"ID", "Kind", "X", "Y", "Hunger", "Happiness", "Inventory"}))
	herd := res.State.Animals()
	sort.Slice(herd, func(i, j int) bool { return herd[i].ID < herd[j].ID })
	for _, a := range herd {
		_ = animals.Append([]string{
			a.ID,
			string(a.Kind),
			fmt.Sprintf("%.1f", a.X),
			fmt.Sprintf("%.1f", a.Y),
			fmt.Sprintf("%.1f", a.Hunger),
			fmt.Sprintf("%.1f", a.Happiness),
			fmt.Sprint(a.Inventory),
		})
	}
	_ = animals.Render()

	fmt.Fprintln(w, "\nMetrics:")
	metrics := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Metric", "Value"}))
	_ = metrics.Append([]string{"ticks run", fmt.Sprint(res.Metrics.TicksRun)})
	_ = metrics.Append([]string{"ticks skipped", fmt.Sprint(res.Metrics.TicksSkipped)})
	_ = metrics.Append([]string{"feedings", fmt.Sprint(res.Metrics.Feedings)})
	_ = metrics.Append([]string{"fence hits", fmt.Sprint(res.Metrics.FenceHits)})
	kinds := make([]string, 0, len(res.Metrics.Dispatches))
	for k := range res.Metrics.Dispatches {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		_ = metrics.Append([]string{"dispatch " + k, fmt.Sprint(res.Metrics.Dispatches[k])})
	}
	_ = metrics.Render()

	if len(res.Notices) > 0 {
		fmt.Fprintln(w, "\nNotifications:")
		for _, n := range res.Notices {
			fmt.Fprintf(w, "  [%s] %s\n", n.Type, n.Message)
		}
	}
}

func clockString(t float64) string {
	h := int(t)
	m := int((t - float64(h)) * 60)
	return fmt.Sprintf("%02d:%02d", h, m)
}
