package filters

// Params carries the decode parameters (/DecodeParms) that the filters
// understand. Zero values mean "not specified" and are replaced with the
// PDF defaults by Defaults.
type Params struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int

	// CCITT only.
	K        int
	Rows     int
	BlackIs1 bool
	hasCols  bool
}

// WithColumns marks Columns as explicitly set. CCITT and the predictors
// use different defaults for a missing /Columns.
func (p Params) WithColumns(columns int) Params {
	p.Columns = columns
	p.hasCols = true
	return p
}

func (p Params) predictorDefaults() Params {
	if p.Predictor == 0 {
		p.Predictor = 1
	}
	if p.Colors <= 0 {
		p.Colors = 1
	}
	if p.BitsPerComponent <= 0 {
		p.BitsPerComponent = 8
	}
	if !p.hasCols || p.Columns <= 0 {
		p.Columns = 1
	}
	return p
}
