package ensemble

import (
	"github.com/yourusername/gridiron/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes features to zero mean and unit variance. It is fitted
// on training data only and applied unchanged to validation and inference
// rows, which keeps validation statistics out of the fit.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit computes per-column mean and standard deviation. A constant column gets
// a standard deviation of 1.0 so scaling maps it to zero instead of NaN.
func (s *Scaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return &models.ValidationError{Component: "scaler", Detail: "empty matrix"}
	}

	cols := len(X[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	col := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = stat.StdDev(col, nil)
		if s.Std[j] == 0 || len(X) < 2 {
			s.Std[j] = 1.0
		}
	}

	return nil
}

// Transform returns a standardized copy of X.
func (s *Scaler) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Mean) {
			return nil, &models.ValidationError{
				Component: "scaler",
				Detail:    "row width does not match fitted columns",
			}
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// Fitted reports whether Fit has run.
func (s *Scaler) Fitted() bool {
	return len(s.Mean) > 0
}
