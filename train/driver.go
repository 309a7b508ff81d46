// Package train runs the end-to-end job: prepare the split, fit the
// pipeline, persist and reload it, and report test-set metrics.
package train

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/YuminosukeSato/housereg/config"
	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/metrics"
	"github.com/YuminosukeSato/housereg/pipeline"
	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
	"github.com/YuminosukeSato/housereg/report"
	"github.com/YuminosukeSato/housereg/store"
)

// Options configures a Driver.
type Options struct {
	Config *config.Config

	// SkipPrepare reads an existing split instead of preparing it first.
	SkipPrepare bool

	// Stdout receives the metric printout. Defaults to os.Stdout.
	Stdout io.Writer

	// Logger defaults to the process-wide logger.
	Logger log.Logger
}

// Result summarizes a training run.
type Result struct {
	RunID     string
	ModelFile string
	PlotFile  string
	Metrics   metrics.Regression
}

// Driver runs the training job.
type Driver struct {
	cfg         *config.Config
	skipPrepare bool
	out         io.Writer
	logger      log.Logger
	store       *store.Store
}

// NewDriver validates the configuration and creates a Driver.
func NewDriver(opts Options) (*Driver, error) {
	if opts.Config == nil {
		return nil, errors.NewValidationError("config", "must not be nil", nil)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	return &Driver{
		cfg:         opts.Config,
		skipPrepare: opts.SkipPrepare,
		out:         opts.Stdout,
		logger:      opts.Logger,
		store:       store.New(opts.Logger.With(log.ComponentKey, "store")),
	}, nil
}

// Prepare runs only the preparation step.
func (d *Driver) Prepare(ctx context.Context) (*dataset.Prepared, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	preparer := dataset.NewPreparer(d.cfg.DatasetConfig(), d.store, d.logger.With(log.ComponentKey, "dataset"))
	return preparer.Prepare(d.cfg.Paths.DataPath, d.cfg.Paths.ProcessedPath)
}

// Run executes the whole job. Cancellation is checked between steps.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := d.logger.With(log.ComponentKey, "train")

	if !d.skipPrepare {
		if _, err := d.Prepare(ctx); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	xTrain, xTest, yTrain, yTest, err := d.store.Read(d.cfg.Paths.ProcessedPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fitLogger := logger.With(log.PhaseKey, log.PhaseTraining, log.OperationKey, log.OperationFit)
	fitStart := time.Now()
	p := pipeline.New()
	if err := p.Fit(xTrain, yTrain); err != nil {
		return nil, err
	}
	fitLogger.Info("Pipeline fitted",
		log.ModelNameKey, "LinearRegression",
		log.SamplesKey, xTrain.Nrow(),
		log.FeaturesKey, len(p.FeatureNames()),
		log.RankKey, p.Estimator.Rank,
		log.DurationMsKey, time.Since(fitStart).Milliseconds(),
	)

	if err := store.EnsureDir(d.cfg.Paths.ModelPath); err != nil {
		return nil, err
	}
	artifact, err := pipeline.NewArtifact(p, xTrain.Names(), yTrain.Names()[0])
	if err != nil {
		return nil, err
	}
	modelFile := d.cfg.ModelFile()
	if err := artifact.Save(modelFile); err != nil {
		return nil, err
	}
	logger.Info("Model saved", log.PathKey, modelFile, log.RunIDKey, artifact.RunID)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loaded, err := pipeline.LoadArtifact(modelFile)
	if err != nil {
		return nil, err
	}
	if err := loaded.CheckFeatures(xTest); err != nil {
		return nil, err
	}

	evalLogger := logger.With(log.PhaseKey, log.PhaseEvaluation, log.RunIDKey, loaded.RunID)
	yPred, err := loaded.Pipeline.Predict(xTest)
	if err != nil {
		return nil, err
	}
	yTrue, err := pipeline.TargetVector(yTest)
	if err != nil {
		return nil, err
	}
	m, err := metrics.Evaluate(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	evalLogger.Info("Test score", log.OperationKey, log.OperationScore, log.R2ScoreKey, m.R2, log.SamplesKey, xTest.Nrow())

	if err := report.WriteMetrics(d.out, m); err != nil {
		return nil, err
	}

	res := &Result{RunID: loaded.RunID, ModelFile: modelFile, Metrics: m}
	if plotFile := d.cfg.PlotFile(); plotFile != "" {
		if err := report.PlotPredictions(yTrue, yPred, plotFile); err != nil {
			return nil, err
		}
		res.PlotFile = plotFile
		evalLogger.Debug("Prediction plot saved", log.PathKey, plotFile)
	}

	logger.Info("Training run finished", log.DurationMsKey, time.Since(start).Milliseconds())
	return res, nil
}
