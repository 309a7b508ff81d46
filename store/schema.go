package store

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// schemaVersion is bumped when the descriptor layout changes.
const schemaVersion = 1

// Schema describes the four tables of a processed data directory. It is
// written after the tables and checked when they are read back.
type Schema struct {
	Version   int      `yaml:"version"`
	Features  []string `yaml:"features"`
	Target    string   `yaml:"target"`
	TrainRows int      `yaml:"train_rows"`
	TestRows  int      `yaml:"test_rows"`
}

// NewSchema describes the given tables.
func NewSchema(xTrain, xTest, yTrain, yTest dataset.Table) (Schema, error) {
	if !slices.Equal(xTrain.Names(), xTest.Names()) {
		return Schema{}, errors.NewValueError("store.NewSchema",
			fmt.Sprintf("train and test feature columns differ: [%s] vs [%s]",
				strings.Join(xTrain.Names(), ", "), strings.Join(xTest.Names(), ", ")))
	}
	if yTrain.Ncol() != 1 || !slices.Equal(yTrain.Names(), yTest.Names()) {
		return Schema{}, errors.NewValueError("store.NewSchema", "target tables must have the same single column")
	}
	if xTrain.Nrow() != yTrain.Nrow() {
		return Schema{}, errors.NewDimensionError("store.NewSchema", xTrain.Nrow(), yTrain.Nrow(), 0)
	}
	if xTest.Nrow() != yTest.Nrow() {
		return Schema{}, errors.NewDimensionError("store.NewSchema", xTest.Nrow(), yTest.Nrow(), 0)
	}
	return Schema{
		Version:   schemaVersion,
		Features:  xTrain.Names(),
		Target:    yTrain.Names()[0],
		TrainRows: xTrain.Nrow(),
		TestRows:  xTest.Nrow(),
	}, nil
}

// LoadSchema reads a descriptor. ok is false when the file does not exist.
func LoadSchema(path string) (s Schema, ok bool, err error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Schema{}, false, nil
	}
	if err != nil {
		return Schema{}, false, errors.Wrapf(err, "read %s", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Schema{}, false, errors.NewSchemaMismatchError(path, "invalid descriptor: "+err.Error())
	}
	if s.Version != schemaVersion {
		return Schema{}, false, errors.NewSchemaMismatchError(path, fmt.Sprintf("unsupported version %d", s.Version))
	}
	return s, true, nil
}

// Marshal encodes the descriptor as YAML.
func (s Schema) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encode schema")
	}
	return out, nil
}

// Check compares the tables read from l against the descriptor.
func (s Schema) Check(l Layout, xTrain, xTest, yTrain, yTest dataset.Table) error {
	checks := []struct {
		path    string
		table   dataset.Table
		columns []string
		rows    int
	}{
		{l.TrainFeatures, xTrain, s.Features, s.TrainRows},
		{l.TestFeatures, xTest, s.Features, s.TestRows},
		{l.TrainTarget, yTrain, []string{s.Target}, s.TrainRows},
		{l.TestTarget, yTest, []string{s.Target}, s.TestRows},
	}
	for _, c := range checks {
		if !slices.Equal(c.table.Names(), c.columns) {
			return errors.NewSchemaMismatchError(c.path, fmt.Sprintf("expected columns [%s], got [%s]",
				strings.Join(c.columns, ", "), strings.Join(c.table.Names(), ", ")))
		}
		if c.table.Nrow() != c.rows {
			return errors.NewSchemaMismatchError(c.path, fmt.Sprintf("expected %d rows, got %d", c.rows, c.table.Nrow()))
		}
	}
	return nil
}
