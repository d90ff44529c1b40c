package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Oddey86/TarkovBuddy/internal/briefing"
	"github.com/Oddey86/TarkovBuddy/internal/catalog"
	"github.com/Oddey86/TarkovBuddy/internal/config"
	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/metrics"
	"github.com/Oddey86/TarkovBuddy/internal/optimizer"
	"github.com/Oddey86/TarkovBuddy/internal/planner"
	"github.com/Oddey86/TarkovBuddy/internal/progress"
	"github.com/Oddey86/TarkovBuddy/internal/reporter"
	"github.com/Oddey86/TarkovBuddy/internal/server"
	"github.com/Oddey86/TarkovBuddy/internal/ui"
)

const (
	lastPlanFile = "last-plan.json"
	snapshotFile = "catalog.json"
)

var (
	flagConfig   string
	flagDataDir  string
	flagCatalog  string
	flagJSON     bool
	flagOutput   string
	flagFormat   string
	flagLevel    int
	flagFocus    []string
	flagMaps     []string
	flagTemplate string
	flagRemember bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tarkovbuddy",
		Short: "Plan quest raids with as few map switches as possible",
		Long: `TarkovBuddy reads the quest catalog and your progress, then groups every
unlocked objective into raids on the map that moves you furthest toward
your goals, unlocking follow-up quests as it goes.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Progress and cache directory (default .tarkovbuddy)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Catalog snapshot path (default <data-dir>/catalog.json)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(progressCmd())
	rootCmd.AddCommand(hideoutCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(briefCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is what most commands need: settings, progress and a catalog.
type env struct {
	cfg      *config.Config
	store    *progress.Store
	provider *catalog.Provider
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	store, err := progress.Open(cfg.DataDir, nil)
	if err != nil {
		return nil, err
	}

	snapshot := flagCatalog
	if snapshot == "" {
		snapshot = filepath.Join(cfg.DataDir, snapshotFile)
	}
	client := catalog.NewClient(cfg.API.URL, cfg.API.Timeout)
	return &env{
		cfg:      cfg,
		store:    store,
		provider: catalog.NewProvider(client, snapshot, cfg.API.CacheTTL),
	}, nil
}

// request merges config, remembered planner settings and command flags.
// Flags win over remembered settings, which win over the config file.
func (e *env) request(tasks []graph.Task) optimizer.Request {
	if saved := e.store.Planner(); saved != nil {
		e.cfg.Weights = saved.Weights
		e.cfg.Flags = saved.Flags
		e.cfg.Inventory = saved.Inventory
		if len(saved.FocusTargets) > 0 {
			e.cfg.FocusTargets = saved.FocusTargets
		}
		if len(saved.AllowedMaps) > 0 {
			e.cfg.AllowedMaps = saved.AllowedMaps
		}
	}
	if len(flagFocus) > 0 {
		e.cfg.FocusTargets = flagFocus
	}
	if len(flagMaps) > 0 {
		e.cfg.AllowedMaps = flagMaps
	}
	if flagLevel > 0 {
		e.cfg.PlayerLevel = flagLevel
	}
	return e.cfg.Request(tasks, e.store.PlayerLevel(), e.store.CompletedSet(), e.store.CompletedObjectiveSet())
}

func (e *env) buildPlan(ctx context.Context) (*planner.RoutePlan, error) {
	tasks, err := e.provider.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("catalog has no tasks")
	}
	req := e.request(tasks)
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	result := optimizer.Optimize(req)
	return planner.Generate(req, result), nil
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the raid route for your current progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			plan, err := e.buildPlan(cmd.Context())
			if err != nil {
				return err
			}

			if err := planner.Save(plan, filepath.Join(e.cfg.DataDir, lastPlanFile)); err != nil {
				return fmt.Errorf("save plan: %w", err)
			}
			if flagOutput != "" {
				if err := planner.Save(plan, flagOutput); err != nil {
					return fmt.Errorf("save plan: %w", err)
				}
			}
			if flagRemember {
				if err := e.store.SetPlanner(plannerSettings(e.cfg)); err != nil {
					return fmt.Errorf("remember settings: %w", err)
				}
			}

			if flagJSON {
				return outputJSON(plan)
			}

			ui.PrintLogo()
			r := reporter.New(plan)
			r.PrintRoute(os.Stdout)
			fmt.Println()
			fmt.Println(ui.Dim(r.Summary()))
			if flagOutput != "" {
				fmt.Printf("\n✅ Plan written to %s\n", ui.Bold(flagOutput))
			}
			return nil
		},
	}

	addRouteFlags(cmd)
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Also write the plan JSON to this path")
	cmd.Flags().BoolVar(&flagRemember, "remember", false, "Store these route settings in progress (undo scope: optimizer)")
	return cmd
}

func addRouteFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagLevel, "level", 0, "Player level (overrides stored progress)")
	cmd.Flags().StringSliceVar(&flagFocus, "focus", nil, "Focus task ids")
	cmd.Flags().StringSliceVar(&flagMaps, "maps", nil, "Allowed maps (default: all maps and Unknown)")
}

func plannerSettings(cfg *config.Config) progress.PlannerSettings {
	return progress.PlannerSettings{
		Weights:      cfg.Weights,
		Flags:        cfg.Flags,
		FocusTargets: cfg.FocusTargets,
		AllowedMaps:  cfg.AllowedMaps,
		Inventory:    cfg.Inventory,
	}
}

func vizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Print the unlock graph of eligible quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			tasks, err := e.provider.Tasks(cmd.Context())
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			req := e.request(tasks)
			g := graph.Eligible(req.Tasks, req.PlayerLevel, req.Completed)
			if cycle := g.DetectCycle(); len(cycle) > 0 {
				fmt.Fprintf(os.Stderr, "warning: prerequisite cycle: %v\n", cycle)
			}
			focus := g.FocusDistances(req.FocusTargets)

			if flagFormat == "dot" {
				reporter.WriteDOT(os.Stdout, g, focus)
				return nil
			}

			reporter.PrintTiers(os.Stdout, g, g.Tiers(req.Completed), g.Blocked(req.Completed), focus)
			return nil
		},
	}

	addRouteFlags(cmd)
	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local quest catalog snapshot",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "fetch",
		Short: "Download the quest catalog and store it as the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			data, err := e.provider.Client.FetchTasks(cmd.Context())
			if err != nil {
				return err
			}
			if err := catalog.SaveSnapshot(e.provider.SnapshotPath, data); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			e.provider.Invalidate()

			tasks := catalog.ParseTasks(data)
			if flagJSON {
				return outputJSON(map[string]any{"path": e.provider.SnapshotPath, "tasks": len(tasks)})
			}
			fmt.Printf("✅ %s tasks saved to %s\n", ui.Bold(len(tasks)), ui.Bold(e.provider.SnapshotPath))
			return nil
		},
	})

	return cmd
}

func serveCmd() *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve route optimization over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			addr := e.cfg.Server.Addr
			if flagAddr != "" {
				addr = flagAddr
			}

			srv, err := server.New(e.provider, metrics.NewCollector(), e.cfg.Server.CacheSize)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ready := make(chan string, 1)
			go func() {
				if bound, ok := <-ready; ok {
					fmt.Printf("🌐 Listening on %s\n", ui.Bold("http://"+bound))
					fmt.Println(ui.Dim("   POST /optimize · GET /plan · GET /graph · GET /metrics"))
				}
			}()
			return srv.ListenAndServe(ctx, addr, ready)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config or PORT)")
	return cmd
}

func briefCmd() *cobra.Command {
	var (
		flagPlanFile  string
		flagChecklist bool
	)

	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Ask an LLM for a briefing of the last computed route",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			path := flagPlanFile
			if path == "" {
				path = filepath.Join(e.cfg.DataDir, lastPlanFile)
			}
			plan, err := planner.Load(path)
			if err != nil {
				return fmt.Errorf("load plan (run 'tarkovbuddy plan' first): %w", err)
			}

			tmpl := flagTemplate
			if tmpl == "" {
				tmpl = e.cfg.Briefing.Template
			}
			prompt, err := planner.RenderPrompt(plan, tmpl)
			if err != nil {
				return err
			}

			client, err := briefing.NewClient(e.cfg.Briefing.APIKey, e.cfg.Briefing.Model, e.cfg.Briefing.MaxTokens)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			fmt.Fprintf(os.Stderr, "🧠 Asking %s about %d raids...\n", e.cfg.Briefing.Model, plan.TotalSweeps)
			if flagChecklist {
				list, err := client.Checklist(ctx, prompt)
				if err != nil {
					return err
				}
				if flagJSON {
					return outputJSON(list)
				}
				for _, raid := range list.Raids {
					fmt.Printf("%s %s %d  %s\n", ui.MapEmoji(raid.Map), ui.BoldWhite("RAID"), raid.Raid, ui.BoldCyan(raid.Map))
					for _, item := range raid.Bring {
						fmt.Printf("  • %s\n", item)
					}
					if raid.Notes != "" {
						fmt.Printf("  %s\n", ui.Dim(raid.Notes))
					}
				}
				if list.Summary != "" {
					fmt.Printf("\n%s\n", list.Summary)
				}
				return nil
			}

			text, err := client.BriefRoute(ctx, prompt)
			if err != nil {
				return err
			}
			if flagJSON {
				return outputJSON(map[string]string{"plan_id": plan.ID, "briefing": text})
			}
			fmt.Println(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagPlanFile, "plan", "", "Plan file (default <data-dir>/last-plan.json)")
	cmd.Flags().StringVar(&flagTemplate, "prompt-template", "", "Custom briefing prompt template path")
	cmd.Flags().BoolVar(&flagChecklist, "checklist", false, "Ask for a per-raid packing checklist instead")
	return cmd
}

// --- Output helpers ---

func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
