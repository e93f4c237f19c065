package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/carefacility/roster-api-go/internal/config"
	"github.com/carefacility/roster-api-go/internal/logging"
	"github.com/carefacility/roster-api-go/pkg/auth"
	"github.com/carefacility/roster-api-go/pkg/database"
	"github.com/carefacility/roster-api-go/pkg/export"
	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/carefacility/roster-api-go/pkg/roster"
	"github.com/carefacility/roster-api-go/pkg/server"
	"github.com/carefacility/roster-api-go/pkg/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	verbose bool
	outPath string
	force   bool
)

var rootCmd = &cobra.Command{
	Use:   "rosterctl",
	Short: "Manage facility shift rosters from the command line",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		level := cfg.App.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen <facility>",
	Short: "Print the API key for a facility",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Auth.MasterSecret == "" {
			return fmt.Errorf("API_MASTER_SECRET is not set")
		}
		a := auth.New(cfg.Auth.JWTSecret, cfg.Auth.MasterSecret)
		fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", args[0], a.GenerateAPIKey(args[0]))
		return nil
	},
}

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Print the shift code legend",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := server.NewEngine(cfg.Roster)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tTIME\tHOURS\tKIND")
		for _, c := range engine.Codes.AllCodes() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\n", c.Code, c.Name, c.TimeRange, c.Hours, c.Kind)
		}
		return w.Flush()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <facility> <YYYY-MM>",
	Short: "Generate and save a month for all active staff (overwrites the month)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := open(args[1])
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		existing, err := env.store.LoadGrid(ctx, args[0], env.month)
		if err != nil {
			return err
		}
		if len(existing) > 0 && !force {
			return fmt.Errorf("%s already has assignments for %d staff; pass --force to overwrite", env.month, len(existing))
		}

		staff, err := env.store.ListStaff(ctx, args[0], true)
		if err != nil {
			return err
		}
		grid, err := env.engine.GenerateMonth(staff, env.month)
		if err != nil {
			return err
		}
		if err := env.store.SaveGrid(ctx, args[0], env.month, grid); err != nil {
			return err
		}
		logger.Info("roster generated", zap.String("facility", args[0]), zap.String("month", env.month.String()), zap.Int("staff", len(staff)))
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %s for %d staff\n", env.month, len(staff))
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <facility> <YYYY-MM>",
	Short: "Print per-staff totals for a month",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := open(args[1])
		if err != nil {
			return err
		}
		staff, grid, err := env.load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		summaries := env.engine.SummarizeAll(grid, staff)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tWORK DAYS\tHOURS\tDAY\tAFTERNOON\tNIGHT\tOVERTIME")
		for i, s := range summaries {
			fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%d\t%d\t%g\n",
				staff[i].Name, s.WorkDays, s.TotalHours, s.DayCount, s.AfternoonCount, s.NightCount, s.OvertimeHours)
		}
		fmt.Fprintf(w, "\nfairness\t%.1f%%\n", roster.FairnessScore(summaries))
		return w.Flush()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <facility> <YYYY-MM>",
	Short: "Write a month as CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := open(args[1])
		if err != nil {
			return err
		}
		staff, grid, err := env.load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return export.WriteRosterCSV(out, env.engine, staff, grid, env.month)
	},
}

type cliEnv struct {
	month  models.MonthKey
	engine *roster.Engine
	store  *store.GormStore
}

func open(monthArg string) (*cliEnv, error) {
	month, err := roster.ParseMonthKey(monthArg)
	if err != nil {
		return nil, err
	}
	engine, err := server.NewEngine(cfg.Roster)
	if err != nil {
		return nil, err
	}
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &cliEnv{month: month, engine: engine, store: store.New(db)}, nil
}

func (e *cliEnv) load(ctx context.Context, facility string) ([]models.StaffMember, models.Grid, error) {
	staff, err := e.store.ListStaff(ctx, facility, true)
	if err != nil {
		return nil, nil, err
	}
	grid, err := e.store.LoadGrid(ctx, facility, e.month)
	if err != nil {
		return nil, nil, err
	}
	return staff, grid, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	exportCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default: stdout)")
	generateCmd.Flags().BoolVar(&force, "force", false, "Overwrite a month that already has assignments")

	rootCmd.AddCommand(keygenCmd, codesCmd, generateCmd, summaryCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
