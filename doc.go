// Package housereg predicts California median house values with a
// standardized linear regression.
//
// The job runs in two stages. The preparation stage reads the raw housing
// CSV, drops total_bedrooms, splits the rows into train and test sets with
// a seeded shuffle, separates the median_house_value target and writes
// X_train.csv, X_test.csv, y_train.csv and y_test.csv. The training stage
// reads those four files back, fits an encoder, scaler and linear
// regression pipeline on the training rows and prints MAE, MSE, RMSE and
// the explained variance score for the test rows.
//
// # Packages
//
//   - dataset: tabular loading, column operations, splitting and preparation
//   - store: the on-disk train/test layout and its schema descriptor
//   - preprocessing: one-hot feature encoding and standard scaling
//   - linear: least-squares linear regression
//   - pipeline: the fitted encoder, scaler and regressor, plus the saved artifact
//   - metrics: regression metrics
//   - report: the metric printout and the prediction plot
//   - config: YAML, .env and environment configuration
//   - train: the end-to-end driver
//
// # Usage
//
//	housereg --config housereg.yaml
//	housereg prepare
//	housereg train --skip-prepare
//
// The metrics are printed one per line as "<label> <value>":
//
//	MAE <value>
//	MSE <value>
//	RMSE <value>
//	Explained Var Score <value>
package housereg
