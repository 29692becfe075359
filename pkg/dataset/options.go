package dataset

import (
	"golang.org/x/time/rate"

	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/profile"
)

// Options configures a Build.
type Options struct {
	MaxItems    int
	Detail      *profile.Profile
	IDPath      string
	IDVarName   string
	SourceName  string
	Concurrency int
	RateLimit   rate.Limit
}

// Option is a functional option for Build.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		MaxItems:    constants.DefaultMaxItems,
		Concurrency: constants.DefaultDetailConcurrency,
		RateLimit:   rate.Inf,
	}
}

// WithMaxItems keeps at most n list items. Non-positive values keep the default.
func WithMaxItems(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxItems = n
		}
	}
}

// WithDetail fetches detail for every item. The item's id is read at idPath
// and substituted for each "{idVarName}" in the detail profile's path.
func WithDetail(detail profile.Profile, idPath, idVarName string) Option {
	return func(o *Options) {
		d := detail.Clone()
		o.Detail = &d
		o.IDPath = idPath
		o.IDVarName = idVarName
	}
}

// WithSourceName labels the dataset with its originating list profile.
func WithSourceName(name string) Option {
	return func(o *Options) {
		o.SourceName = name
	}
}

// WithConcurrency allows up to n detail calls in flight. Rows keep source
// order regardless. The default of 1 fetches strictly one at a time.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithRateLimit paces detail calls to at most rps per second. Zero or
// negative disables pacing.
func WithRateLimit(rps float64) Option {
	return func(o *Options) {
		if rps > 0 {
			o.RateLimit = rate.Limit(rps)
		} else {
			o.RateLimit = rate.Inf
		}
	}
}
