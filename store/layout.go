// Package store persists the prepared train/test tables under a directory
// and reads them back for the modeling stage.
package store

import (
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// File names inside a processed data directory.
const (
	TrainFeaturesFile = "X_train.csv"
	TestFeaturesFile  = "X_test.csv"
	TrainTargetFile   = "y_train.csv"
	TestTargetFile    = "y_test.csv"
	SchemaFile        = "schema.yaml"
)

// Layout holds the file paths of one processed data directory.
type Layout struct {
	Dir           string
	TrainFeatures string
	TestFeatures  string
	TrainTarget   string
	TestTarget    string
	Schema        string
}

// NewLayout computes the paths under dir without touching the filesystem.
func NewLayout(dir string) Layout {
	return Layout{
		Dir:           dir,
		TrainFeatures: filepath.Join(dir, TrainFeaturesFile),
		TestFeatures:  filepath.Join(dir, TestFeaturesFile),
		TrainTarget:   filepath.Join(dir, TrainTargetFile),
		TestTarget:    filepath.Join(dir, TestTargetFile),
		Schema:        filepath.Join(dir, SchemaFile),
	}
}

// EnsureLayout creates dir if needed and returns its layout. Only the final
// path element is created; a missing parent is a DirectoryCreateError.
func EnsureLayout(dir string) (Layout, error) {
	if err := EnsureDir(dir); err != nil {
		return Layout{}, err
	}
	return NewLayout(dir), nil
}

// EnsureDir creates exactly one directory level.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return errors.NewDirectoryCreateError(dir, errors.Newf("%s is not a directory", dir))
	case !os.IsNotExist(err):
		return errors.NewDirectoryCreateError(dir, err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil && !os.IsExist(err) {
		return errors.NewDirectoryCreateError(dir, err)
	}
	return nil
}

// dataFiles returns the four table paths in write order.
func (l Layout) dataFiles() []string {
	return []string{l.TrainFeatures, l.TestFeatures, l.TrainTarget, l.TestTarget}
}
