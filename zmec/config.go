package zmec

import (
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/niceyeti/zmecquotient/internal/diag"
)

// BuildOptions are the construction-time parameters that are not part of
// the mathematical contract of §4.6: logging, diagnostics, and the witness
// recording used internally during strategy lifting. The zero value is a
// valid, fully silent configuration.
type BuildOptions struct {
	// Logger receives structured progress records. A nil Logger is
	// treated as zap.NewNop(), per the "no global state" rule of §5.
	Logger *zap.Logger
	// Diagnostics, if non-nil, receives construction milestone events
	// (see internal/diag) on a strictly non-blocking basis.
	Diagnostics diag.Sink
	// RecordLiftWitnesses, if true, retains the Prob1E witness strategies
	// computed internally during LiftStrategy for inspection via
	// Quotient.LastLiftWitnesses (mainly useful for debugging §4.6 step 4).
	RecordLiftWitnesses bool
}

func (o BuildOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o BuildOptions) sink() diag.Sink {
	if o.Diagnostics == nil {
		return diag.NoopSink{}
	}
	return o.Diagnostics
}

// fileOptions is the on-disk shape of BuildOptions: only the fields that
// make sense to externalize (logging verbosity, witness recording),
// decoded the way the teacher's reinforcement.FromYaml decodes training
// config — an outer viper read into a generic map, then a strict
// yaml.Unmarshal into the typed struct, so the same file can carry
// sibling config blocks viper doesn't need to know the shape of.
type fileOptions struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

type innerOptions struct {
	LogLevel            string `yaml:"logLevel"`
	RecordLiftWitnesses bool   `yaml:"recordLiftWitnesses"`
}

// LoadOptions reads a BuildOptions from a YAML file shaped like:
//
//	kind: zmecBuildOptions
//	def:
//	  logLevel: info
//	  recordLiftWitnesses: false
//
// Diagnostics sinks are never loaded from file — they are always wired by
// the caller in code, since they carry live channels/handles.
func LoadOptions(path string) (BuildOptions, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return BuildOptions{}, err
	}

	outer := &fileOptions{}
	if err := vp.Unmarshal(outer); err != nil {
		return BuildOptions{}, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return BuildOptions{}, err
	}

	inner := &innerOptions{}
	if err := yaml.Unmarshal(spec, inner); err != nil {
		return BuildOptions{}, err
	}

	level, err := zap.ParseAtomicLevel(inner.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	logger, err := cfg.Build()
	if err != nil {
		return BuildOptions{}, err
	}

	return BuildOptions{
		Logger:              logger,
		RecordLiftWitnesses: inner.RecordLiftWitnesses,
	}, nil
}
