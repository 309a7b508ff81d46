package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
)

func writeProject(t *testing.T) (configPath, root string) {
	t.Helper()
	root = t.TempDir()

	var b strings.Builder
	b.WriteString("median_income,total_bedrooms,housing_median_age,median_house_value\n")
	for i := 0; i < 90; i++ {
		income := 1 + float64(i%13)*0.7
		age := 5 + (i*7)%40
		fmt.Fprintf(&b, "%g,%d,%d,%g\n", income, 100+i, age, 45000*income+800*float64(age)+20000)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "housing.csv"), []byte(b.String()), 0o644))

	configPath = filepath.Join(root, "housereg.yaml")
	cfg := fmt.Sprintf(`paths:
  data_path: %s
  processed_path: %s
  model_path: %s
model:
  plot_file: ""
`, filepath.Join(root, "housing.csv"), filepath.Join(root, "processed"), filepath.Join(root, "models"))
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	return configPath, root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"DATA_PATH", "PROCESSED_PATH", "MODEL_PATH", "LOGGING_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Cleanup(func() {
		log.SetProvider(log.NewZerologProvider(os.Stderr, log.LevelInfo, log.FormatJSON))
		errors.SetZerologWarnFunc(nil)
	})

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRootRunsFullPipeline(t *testing.T) {
	configPath, root := writeProject(t)

	out, err := execute(t, "--config", configPath, "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "MAE "))
	assert.True(t, strings.HasPrefix(lines[3], "Explained Var Score "))

	assert.FileExists(t, filepath.Join(root, "processed", "X_train.csv"))
	assert.FileExists(t, filepath.Join(root, "models", "LinearRegression.gob"))
}

func TestPrepareThenTrain(t *testing.T) {
	configPath, root := writeProject(t)

	out, err := execute(t, "prepare", "--config", configPath)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.FileExists(t, filepath.Join(root, "processed", "y_test.csv"))
	assert.NoFileExists(t, filepath.Join(root, "models", "LinearRegression.gob"))

	out, err = execute(t, "train", "--skip-prepare", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "RMSE ")
}

func TestInvalidLogLevel(t *testing.T) {
	configPath, _ := writeProject(t)

	_, err := execute(t, "--config", configPath, "--log-level", "loud")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr), "got %v", err)
}
