package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/bed-engine/agent"
	"github.com/warp/bed-engine/api"
	"github.com/warp/bed-engine/config"
	"github.com/warp/bed-engine/factory"
	"github.com/warp/bed-engine/hospital"
	"github.com/warp/bed-engine/sampler"
	"github.com/warp/bed-engine/store/sqlite"
)

// =============================================================================
// SERVE
// =============================================================================

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, store, logger, api.Settings{
		Iterations:  cfg.MCTSIterations,
		Discount:    cfg.MCTSDiscount,
		Parallelism: cfg.MCTSParallelism,
		Suggestions: cfg.Suggestions,
		Seed:        cfg.RandSeed(),
	})

	ctx := context.Background()
	if err := handler.LoadHospitals(ctx); err != nil {
		logger.Warn("failed to load hospitals", zap.Error(err))
	}
	if cfg.DemoHospital {
		if err := seedDemo(ctx, handler, store, cfg.RandSeed()); err != nil {
			return fmt.Errorf("seed demo hospital: %w", err)
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("db", cfg.DBPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// seedDemo registers a populated demo hospital when the store is empty.
func seedDemo(ctx context.Context, h *api.Handler, store hospital.SnapshotStore, seed uint64) error {
	snaps, err := store.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	if len(snaps) > 0 {
		return nil
	}

	hosp, err := factory.DemoLayout()
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	src, err := sampler.New(sampler.DefaultConfig(), rng)
	if err != nil {
		return err
	}
	if err := agent.PopulateHospital(hosp, 0.85, src, rng); err != nil {
		return err
	}
	id, err := h.Register(ctx, hosp)
	if err != nil {
		return err
	}
	h.Logger.Info("demo hospital seeded", zap.String("hospital_id", id), zap.Int("occupied", hosp.NumOccupied()))
	return nil
}

// =============================================================================
// OFFLINE COMMANDS
// =============================================================================

// hospitalFlags are shared by the commands that operate on a layout.
type hospitalFlags struct {
	layout    string
	demo      bool
	occupancy float64
	seed      uint64
}

func (f *hospitalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.layout, "layout", "", "Hospital layout file (.json, .yaml or .yml)")
	cmd.Flags().BoolVar(&f.demo, "demo", false, "Use the built-in demo hospital")
	cmd.Flags().Float64Var(&f.occupancy, "occupancy", 0, "Fill this fraction of beds with synthetic patients")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "Random seed")
}

func (f *hospitalFlags) rng() *rand.Rand {
	return rand.New(rand.NewPCG(f.seed, f.seed^0x9e3779b97f4a7c15))
}

func (f *hospitalFlags) load(rng *rand.Rand) (*hospital.Hospital, error) {
	var (
		h   *hospital.Hospital
		err error
	)
	switch {
	case f.demo:
		h, err = factory.DemoLayout()
	case f.layout != "":
		h, err = readLayout(f.layout)
	default:
		return nil, errors.New("either --layout or --demo is required")
	}
	if err != nil {
		return nil, err
	}

	if f.occupancy > 0 {
		src, err := sampler.New(sampler.DefaultConfig(), rng)
		if err != nil {
			return nil, err
		}
		if err := agent.PopulateHospital(h, f.occupancy, src, rng); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func readLayout(path string) (*hospital.Hospital, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	hf := factory.NewHospitalFactory()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return hf.ParseHospitalYAML(data)
	default:
		return hf.ParseHospital(data)
	}
}

func renderCmd() *cobra.Command {
	var (
		hf    hospitalFlags
		level int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print a hospital layout as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hf.load(hf.rng())
			if err != nil {
				return err
			}
			if err := h.Render(cmd.OutOrStdout(), level); err != nil {
				return err
			}
			ev := h.EvalRestrictions()
			fmt.Fprintf(cmd.OutOrStdout(), "\nscore: %g  occupied: %d/%d\n", ev.Score, h.NumOccupied(), h.NumBeds())
			return nil
		},
	}
	hf.register(cmd)
	cmd.Flags().IntVar(&level, "level", 4, "Depth: 1 hospital, 2 wards, 3 rooms, 4 beds")
	return cmd
}

func suggestCmd() *cobra.Command {
	var (
		hf      hospitalFlags
		patient string
		k       int
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank the best beds for one patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hf.load(hf.rng())
			if err != nil {
				return err
			}
			data, err := os.ReadFile(patient)
			if err != nil {
				return err
			}
			p, err := factory.NewHospitalFactory().ParsePatient(data)
			if err != nil {
				return err
			}

			suggestions, err := agent.GreedySuggestions(h, p, k)
			if err != nil {
				return err
			}
			return writeIndented(cmd, suggestions)
		},
	}
	hf.register(cmd)
	cmd.Flags().StringVar(&patient, "patient", "", "Patient JSON file")
	cmd.Flags().IntVarP(&k, "k", "k", 5, "Number of beds to return")
	_ = cmd.MarkFlagRequired("patient")
	return cmd
}

type planOutput struct {
	Rank                 int               `json:"rank"`
	Assignments          map[string]string `json:"assignments"`
	Score                float64           `json:"score"`
	ViolatedRestrictions []string          `json:"violated_restrictions"`
	Value                float64           `json:"value"`
	VisitCount           int               `json:"visit_count"`
}

func planCmd() *cobra.Command {
	var (
		hf          hospitalFlags
		arrivalsArg string
		forecast    []int
		startHour   int
		iterations  int
		discount    float64
		parallelism int
		normalise   bool
		verbose     bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the tree search and rank the first-hour actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := hf.rng()
			h, err := hf.load(rng)
			if err != nil {
				return err
			}

			arrivals, err := readArrivals(arrivalsArg)
			if err != nil {
				return err
			}
			if len(forecast) > 0 {
				src, err := sampler.New(sampler.DefaultConfig(), rng)
				if err != nil {
					return err
				}
				more, err := src.Arrivals(startHour+len(arrivals), forecast)
				if err != nil {
					return err
				}
				arrivals = append(arrivals, more...)
			}

			logger := zap.NewNop()
			if verbose {
				if logger, err = config.NewLogger("debug", "console"); err != nil {
					return err
				}
			}

			search := h
			if normalise {
				search = h.Clone()
				agent.NormalisePenalties(search)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			root, err := agent.RunMCTS(ctx, search, arrivals, discount, iterations,
				agent.WithRand(rng),
				agent.WithParallelism(parallelism),
				agent.WithLogger(logger))
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			results, err := agent.ConstructOutput(h, root)
			if err != nil {
				return err
			}
			out := make([]planOutput, len(results))
			for i, r := range results {
				as := make(map[string]string, len(r.Action))
				for _, a := range r.Action {
					as[a.Patient.Name] = a.Bed
				}
				out[i] = planOutput{
					Rank:                 i + 1,
					Assignments:          as,
					Score:                r.Score,
					ViolatedRestrictions: r.ViolatedRestrictions,
					Value:                r.Value,
					VisitCount:           r.VisitCount,
				}
			}
			return writeIndented(cmd, out)
		},
	}
	hf.register(cmd)
	cmd.Flags().StringVar(&arrivalsArg, "arrivals", "", "JSON file holding a list of patient batches, one per hour")
	cmd.Flags().IntSliceVar(&forecast, "forecast", nil, "Synthetic arrival counts for the hours after --arrivals")
	cmd.Flags().IntVar(&startHour, "start-hour", 8, "Hour of day of the first batch")
	cmd.Flags().IntVar(&iterations, "iterations", 100, "Search iterations")
	cmd.Flags().Float64Var(&discount, "discount", 0.9, "Reward discount per hour")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "Goroutines used when expanding a node")
	cmd.Flags().BoolVar(&normalise, "normalise", false, "Search with penalties scaled to sum to one")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log search progress")
	_ = cmd.MarkFlagRequired("arrivals")
	return cmd
}

func readArrivals(path string) ([][]*hospital.Patient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batches [][]factory.PatientJSON
	if err := json.Unmarshal(data, &batches); err != nil {
		return nil, fmt.Errorf("parse arrivals: %w", err)
	}
	if len(batches) == 0 {
		return nil, errors.New("arrivals must hold at least one batch")
	}

	hf := factory.NewHospitalFactory()
	out := make([][]*hospital.Patient, len(batches))
	for i, batch := range batches {
		for _, pj := range batch {
			p, err := hf.PatientFromJSON(pj)
			if err != nil {
				return nil, fmt.Errorf("hour %d: %w", i, err)
			}
			out[i] = append(out[i], p)
		}
	}
	return out, nil
}

func simulateCmd() *cobra.Command {
	var (
		hf         hospitalFlags
		hours      int
		maxArrival int
		policy     string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Roll a hospital forward hour by hour and print the score",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := hf.rng()
			h, err := hf.load(rng)
			if err != nil {
				return err
			}

			var pol agent.Policy
			switch policy {
			case "random":
				pol = agent.RandomPolicy(rng)
			case "greedy":
				pol = agent.GreedyPolicy()
			default:
				return fmt.Errorf("unknown policy %q, want random or greedy", policy)
			}

			src, err := sampler.New(sampler.DefaultConfig(), rng)
			if err != nil {
				return err
			}
			batches, err := src.Arrivals(0, sampler.RandomCounts(rng, hours, maxArrival))
			if err != nil {
				return err
			}

			sim := agent.NewSimulator(h, agent.ForecastArrivals(batches), pol, rng)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-5s %-9s %-9s %-7s %s\n", "HOUR", "ARRIVALS", "OCCUPIED", "QUEUED", "SCORE")
			for hour := range hours {
				score, err := sim.Step()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%-5d %-9d %-9d %-7d %g\n",
					hour, len(batches[hour]), sim.Hospital.NumOccupied(), sim.Queue().Len(), score)
			}
			return nil
		},
	}
	hf.register(cmd)
	cmd.Flags().IntVar(&hours, "hours", 24, "Hours to simulate")
	cmd.Flags().IntVar(&maxArrival, "max-arrivals", 4, "Arrivals per hour are drawn uniformly below this")
	cmd.Flags().StringVar(&policy, "policy", "greedy", "Allocation policy: random or greedy")
	return cmd
}

func writeIndented(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
