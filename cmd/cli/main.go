package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"neurosym/adapters/postgres"
	"neurosym/adapters/storage"
	"neurosym/app"
	"neurosym/domain/core"
	"neurosym/domain/experiment"
	"neurosym/internal/config"
	"neurosym/internal/testkit"
	"neurosym/ports"
)

func main() {
	// Missing .env is fine; the environment may be set directly
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "neurosym",
		Short: "Neuro-symbolic experiment runner",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newCompareCmd(),
		newBestCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [batch-file]",
		Short: "Execute an experiment batch from a YAML or JSON description",
		Long: `Execute every run of a batch description. Each run trains a hybrid
model, evaluates it, and records parameters, metrics, and artifacts.
Failed runs are recorded with their errors; the batch continues.

Example: neurosym run batch.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args[0])
		},
	}
	return cmd
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [run-ids...]",
		Short: "Show the recorded metrics of finished runs side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareRuns(cmd.Context(), args)
		},
	}
	return cmd
}

func newBestCmd() *cobra.Command {
	var minimize bool

	cmd := &cobra.Command{
		Use:   "best [metric]",
		Short: "Show the run with the best value of a metric",
		Long: `Search every recorded run for the extremal value of the named metric.

Example: neurosym best accuracy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return bestRun(cmd.Context(), args[0], !minimize)
		},
	}

	cmd.Flags().BoolVar(&minimize, "minimize", false, "Prefer the smallest value instead of the largest")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a ready-to-run demo batch description",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeDemoBatch(out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "demo-batch.yaml", "Output path for the batch description")
	return cmd
}

func runBatch(ctx context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := newStorage(cfg)
	if err != nil {
		return err
	}

	batch, err := app.LoadBatchConfig(path)
	if err != nil {
		return err
	}

	builder := app.NewBuilder()
	demoBase, err := testkit.DemoKnowledgeBase()
	if err != nil {
		return err
	}
	builder.RegisterKnowledgeBase("demo", demoBase)

	manager := app.NewManager(builder, app.NewTracker(store), store,
		testkit.NewProvider(), cfg.Runner.Parallelism)

	records, err := manager.RunBatch(ctx, batch)
	if err != nil {
		return err
	}

	fmt.Printf("Batch %q finished: %d run(s)\n\n", batch.Name, len(records))
	for _, record := range records {
		fmt.Printf("  %s  %s\n", record.RunID, record.Status)
		for _, name := range []string{"accuracy", "robustness_score", "explainability_score"} {
			if v, ok := record.Metrics[name]; ok {
				fmt.Printf("    %-22s %.4f\n", name, v)
			}
		}
		for _, e := range record.Errors {
			fmt.Printf("    error: %s\n", e)
		}
	}
	return nil
}

func compareRuns(ctx context.Context, ids []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}

	runIDs := make([]core.RunID, len(ids))
	for i, id := range ids {
		runIDs[i], err = core.ParseRunID(id)
		if err != nil {
			return err
		}
	}

	records, err := tracker.CompareRuns(ctx, runIDs)
	if err != nil {
		return err
	}

	for _, record := range records {
		fmt.Printf("%s  %s  fingerprint=%s\n", record.RunID, record.Status, record.Fingerprint)
		for name, value := range record.Metrics {
			fmt.Printf("  %-22s %.4f\n", name, value)
		}
		fmt.Println()
	}
	return nil
}

func bestRun(ctx context.Context, metric string, maximize bool) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}

	record, err := tracker.BestRun(ctx, metric, maximize)
	if err != nil {
		return err
	}

	fmt.Printf("Best run by %s: %s\n", metric, record.RunID)
	fmt.Printf("  %-22s %.4f\n", metric, record.Metrics[metric])
	fmt.Printf("  status: %s\n", record.Status)
	fmt.Printf("  fingerprint: %s\n", record.Fingerprint)
	return nil
}

func writeDemoBatch(path string) error {
	batch := experiment.BatchConfig{
		Name: "demo",
		Runs: []experiment.RunConfig{
			{
				RunID: "demo-late",
				ModelConfig: experiment.ModelConfig{
					Architecture:        experiment.ArchitectureMLP,
					KnowledgeBaseSource: "demo",
					FusionStrategy:      experiment.FusionLate,
					FusionWeights:       []float64{0.6, 0.4},
					Classes:             []string{"low", "medium", "high"},
				},
				DataRef:          "synthetic:demo",
				MetricsToCompute: []string{"accuracy", "f1", "robustness_score", "explainability_score"},
			},
			{
				RunID: "demo-attention",
				ModelConfig: experiment.ModelConfig{
					Architecture:        experiment.ArchitectureMLP,
					KnowledgeBaseSource: "demo",
					FusionStrategy:      experiment.FusionAttention,
					Classes:             []string{"low", "medium", "high"},
				},
				DataRef:          "synthetic:demo",
				MetricsToCompute: []string{"accuracy", "f1", "robustness_score", "explainability_score"},
			},
		},
	}

	data, err := yaml.Marshal(batch)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Demo batch written to %s\n", path)
	fmt.Printf("Run it with: neurosym run %s\n", path)
	return nil
}

func newTracker() (*app.Tracker, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}
	return app.NewTracker(store), nil
}

func newStorage(cfg *config.Config) (ports.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemStore(), nil
	case config.BackendFile:
		return storage.NewFileStore(cfg.Storage.Root)
	case config.BackendPostgres:
		return postgres.Open(cfg.Storage.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
