package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housereg/config"
	"github.com/YuminosukeSato/housereg/pkg/log"
	"github.com/YuminosukeSato/housereg/train"
)

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "housereg",
		Short: "Housing price regression pipeline",
		Long: `housereg loads the raw housing table, drops total_bedrooms, splits it into
train and test sets, writes X_train.csv, X_test.csv, y_train.csv and
y_test.csv, then fits a standardized linear regression and prints
MAE, MSE, RMSE and the explained variance score on the test set.

Running without a subcommand does all of the above.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, opts, false)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")

	root.AddCommand(newPrepareCmd(opts), newTrainCmd(opts))
	return root
}

func newPrepareCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Split the raw data and write the train/test files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := train.NewDriver(train.Options{Config: opts.cfg, Stdout: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			_, err = d.Prepare(cmd.Context())
			return err
		},
	}
}

func newTrainCmd(opts *rootOptions) *cobra.Command {
	var skipPrepare bool
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the pipeline and print test-set metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, opts, skipPrepare)
		},
	}
	cmd.Flags().BoolVar(&skipPrepare, "skip-prepare", false, "read the existing train/test files instead of preparing them")
	return cmd
}

// load reads the configuration and sets up logging.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := log.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func runTrain(cmd *cobra.Command, opts *rootOptions, skipPrepare bool) error {
	d, err := train.NewDriver(train.Options{
		Config:      opts.cfg,
		SkipPrepare: skipPrepare,
		Stdout:      cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	_, err = d.Run(cmd.Context())
	return err
}
