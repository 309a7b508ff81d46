package linear

// Option is a function that configures LinearRegression
type Option func(*LinearRegression)

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.FitIntercept = fit
	}
}

// WithRcond sets the relative cutoff below which singular values are
// treated as zero. A negative value selects machine epsilon times the
// larger matrix dimension.
func WithRcond(rcond float64) Option {
	return func(lr *LinearRegression) {
		lr.Rcond = rcond
	}
}
