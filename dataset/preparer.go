package dataset

import (
	"context"
	"os"
	"time"

	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
)

// Default column names and split parameters of the housing dataset.
const (
	DefaultDropColumn   = "total_bedrooms"
	DefaultTargetColumn = "median_house_value"
	DefaultTestFraction = 0.33
	DefaultSeed         = 0
)

// headRows is the number of rows logged at debug level after loading.
const headRows = 5

// Config controls how the raw table is prepared.
type Config struct {
	DropColumn   string
	TargetColumn string
	TestFraction float64
	Seed         int64
}

// DefaultConfig returns the housing dataset configuration.
func DefaultConfig() Config {
	return Config{
		DropColumn:   DefaultDropColumn,
		TargetColumn: DefaultTargetColumn,
		TestFraction: DefaultTestFraction,
		Seed:         DefaultSeed,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.DropColumn == "" {
		return errors.NewValidationError("drop_column", "must not be empty", c.DropColumn)
	}
	if c.TargetColumn == "" {
		return errors.NewValidationError("target_column", "must not be empty", c.TargetColumn)
	}
	if c.DropColumn == c.TargetColumn {
		return errors.NewValidationError("drop_column", "must differ from target_column", c.DropColumn)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return errors.NewValidationError("test_fraction", "must be in (0, 1)", c.TestFraction)
	}
	return nil
}

// Writer persists the four prepared tables under a directory.
type Writer interface {
	Write(dir string, xTrain, xTest, yTrain, yTest Table) error
}

// Prepared is the outcome of a preparation run.
type Prepared struct {
	XTrain Table
	XTest  Table
	YTrain Table
	YTest  Table
	Split  Split
}

// Preparer turns the raw table into persisted train/test features and
// targets.
type Preparer struct {
	cfg    Config
	writer Writer
	logger log.Logger
}

// NewPreparer creates a Preparer. A nil logger falls back to the
// process-wide logger.
func NewPreparer(cfg Config, writer Writer, logger log.Logger) *Preparer {
	if logger == nil {
		logger = log.GetLoggerWithName("dataset")
	}
	return &Preparer{
		cfg:    cfg,
		writer: writer,
		logger: logger.With(log.PhaseKey, log.PhasePreprocessing),
	}
}

// Prepare loads inputPath, drops the configured column, splits the rows and
// writes X_train, X_test, y_train and y_test to outputDir. Column checks run
// before anything is written.
func (p *Preparer) Prepare(inputPath, outputDir string) (*Prepared, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	raw, err := ReadCSVFile(inputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.NewInputNotFoundError(inputPath)
		}
		return nil, err
	}

	p.logger.Info("Loaded raw data",
		log.PathKey, inputPath,
		log.SamplesKey, raw.Nrow(),
		log.FeaturesKey, raw.Ncol(),
		log.MissingKey, raw.MissingCounts(),
	)
	if p.logger.Enabled(context.Background(), log.LevelDebug) {
		p.logger.Debug("Raw data head", "head", raw.Head(headRows))
	}

	for _, col := range []string{p.cfg.TargetColumn, p.cfg.DropColumn} {
		if !raw.HasColumn(col) {
			return nil, errors.NewMissingColumnError("Preparer.Prepare", col, raw.Names())
		}
	}

	data, err := raw.Drop(p.cfg.DropColumn)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Dropped column", "column", p.cfg.DropColumn, log.ColumnsKey, data.Names())

	split, err := TrainTestSplit(data.Nrow(), p.cfg.TestFraction, p.cfg.Seed)
	if err != nil {
		return nil, err
	}
	train, test, err := split.Apply(data)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Split rows",
		log.TrainRowsKey, train.Nrow(),
		log.TestRowsKey, test.Nrow(),
		log.TestFractionKey, p.cfg.TestFraction,
		log.RandomSeedKey, p.cfg.Seed,
	)

	out := &Prepared{Split: split}
	if out.XTrain, out.YTrain, err = SeparateTarget(train, p.cfg.TargetColumn); err != nil {
		return nil, err
	}
	if out.XTest, out.YTest, err = SeparateTarget(test, p.cfg.TargetColumn); err != nil {
		return nil, err
	}

	if err := p.writer.Write(outputDir, out.XTrain, out.XTest, out.YTrain, out.YTest); err != nil {
		return nil, err
	}

	p.logger.Info("Prepared train-test data",
		log.DirectoryKey, outputDir,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// SeparateTarget splits t into its feature columns, in original order, and
// the single target column.
func SeparateTarget(t Table, target string) (features, targets Table, err error) {
	if !t.HasColumn(target) {
		return Table{}, Table{}, errors.NewMissingColumnError("SeparateTarget", target, t.Names())
	}
	names := make([]string, 0, t.Ncol()-1)
	for _, n := range t.Names() {
		if n != target {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return Table{}, Table{}, errors.NewValueError("SeparateTarget", "table has no feature columns")
	}
	if features, err = t.Select(names...); err != nil {
		return Table{}, Table{}, err
	}
	if targets, err = t.Select(target); err != nil {
		return Table{}, Table{}, err
	}
	return features, targets, nil
}
