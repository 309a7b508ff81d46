package store

import (
	"bufio"
	"os"
	"path/filepath"
	"time"

	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
)

// Store writes and reads the four train/test tables of a processed data
// directory. Every file is written to a temporary name in the same
// directory and renamed into place, so a reader never sees a half written
// table. The four renames are not atomic as a group.
type Store struct {
	logger log.Logger
}

// New creates a Store. A nil logger falls back to the process-wide logger.
func New(logger log.Logger) *Store {
	if logger == nil {
		logger = log.GetLoggerWithName("store")
	}
	return &Store{logger: logger}
}

// Write stores xTrain, xTest, yTrain and yTest under dir, replacing any
// previous contents, followed by the schema descriptor. dir is created if
// its parent exists.
func (s *Store) Write(dir string, xTrain, xTest, yTrain, yTest dataset.Table) error {
	start := time.Now()
	schema, err := NewSchema(xTrain, xTest, yTrain, yTest)
	if err != nil {
		return err
	}

	s.logger.Info("Writing train-test data", log.DirectoryKey, dir, log.OperationKey, log.OperationWrite)
	layout, err := EnsureLayout(dir)
	if err != nil {
		return err
	}

	tables := []dataset.Table{xTrain, xTest, yTrain, yTest}
	for i, path := range layout.dataFiles() {
		t := tables[i]
		if err := writeAtomic(path, func(w *bufio.Writer) error { return t.WriteCSV(w) }); err != nil {
			return err
		}
		s.logger.Debug("Wrote table", log.PathKey, path, log.SamplesKey, t.Nrow(), log.FeaturesKey, t.Ncol())
	}

	raw, err := schema.Marshal()
	if err != nil {
		return err
	}
	if err := writeAtomic(layout.Schema, func(w *bufio.Writer) error {
		_, err := w.Write(raw)
		return err
	}); err != nil {
		return err
	}

	s.logger.Info("Train-test data written",
		log.DirectoryKey, dir,
		log.TrainRowsKey, schema.TrainRows,
		log.TestRowsKey, schema.TestRows,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Read loads the four tables from dir in the order X_train, X_test,
// y_train, y_test. It fails with FileNotFoundError when none of them exist
// and with PartialLayoutError when only some do. When a schema descriptor
// is present the tables are checked against it.
func (s *Store) Read(dir string) (xTrain, xTest, yTrain, yTest dataset.Table, err error) {
	layout := NewLayout(dir)
	s.logger.Info("Reading train-test data", log.DirectoryKey, dir, log.OperationKey, log.OperationRead)

	var present, missing []string
	for _, path := range layout.dataFiles() {
		switch _, statErr := os.Stat(path); {
		case statErr == nil:
			present = append(present, filepath.Base(path))
		case os.IsNotExist(statErr):
			missing = append(missing, filepath.Base(path))
		default:
			return xTrain, xTest, yTrain, yTest, errors.Wrapf(statErr, "stat %s", path)
		}
	}
	if len(present) == 0 {
		return xTrain, xTest, yTrain, yTest, errors.NewFileNotFoundError(dir)
	}
	if len(missing) > 0 {
		return xTrain, xTest, yTrain, yTest, errors.NewPartialLayoutError(dir, present, missing)
	}

	tables := make([]dataset.Table, 4)
	for i, path := range layout.dataFiles() {
		if tables[i], err = dataset.ReadCSVFile(path); err != nil {
			return xTrain, xTest, yTrain, yTest, err
		}
	}

	schema, ok, err := LoadSchema(layout.Schema)
	if err != nil {
		return xTrain, xTest, yTrain, yTest, err
	}
	if ok {
		if err := schema.Check(layout, tables[0], tables[1], tables[2], tables[3]); err != nil {
			return xTrain, xTest, yTrain, yTest, err
		}
	} else {
		s.logger.Warn("No schema descriptor, reading tables unchecked", log.PathKey, layout.Schema)
	}

	s.logger.Info("Train-test data read",
		log.TrainRowsKey, tables[0].Nrow(),
		log.TestRowsKey, tables[1].Nrow(),
		log.FeaturesKey, tables[0].Ncol(),
	)
	return tables[0], tables[1], tables[2], tables[3], nil
}

// writeAtomic writes to a temporary file next to path and renames it over
// path once fully flushed.
func writeAtomic(path string, write func(w *bufio.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", path)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "flush %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "rename into %s", path)
	}
	return nil
}
