// Standard attribute keys for pipeline logging.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "ml.operation") so that runs can be filtered and compared.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator, e.g. "LinearRegression".
	ModelNameKey = "model.name"

	// RunIDKey identifies a training run and the artifact it produced.
	RunIDKey = "model.run_id"

	// OperationKey names the ML operation: "fit", "predict", "score".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package emitting the entry.
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline stage.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"

	// ColumnsKey lists column names of a table.
	ColumnsKey = "data.columns"

	// MissingKey maps column names to missing-value counts.
	MissingKey = "data.missing"

	TrainRowsKey = "split.train_rows"
	TestRowsKey  = "split.test_rows"
)

// Filesystem.
const (
	PathKey      = "fs.path"
	DirectoryKey = "fs.dir"
)

// Metrics.
const (
	DurationMsKey = "perf.duration_ms"
	R2ScoreKey    = "metrics.r2_score"
	RankKey       = "model.rank"
)

// Configuration.
const (
	RandomSeedKey   = "config.random_seed"
	TestFractionKey = "config.test_fraction"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationWrite   = "write"
	OperationRead    = "read"

	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseEvaluation    = "evaluation"
)
