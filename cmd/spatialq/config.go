package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/TrevorS/spatial"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Index kinds accepted by --index.
const (
	indexKD    = "kd"
	indexQuad  = "quad"
	indexBrute = "brute"
)

// options is the merged configuration of a spatialq run. Flags that were set
// explicitly win over values from the --config file.
type options struct {
	ConfigFile string `yaml:"-"`
	Index      string `yaml:"index"`
	Dims       int    `yaml:"dims"`
	QuadK      int    `yaml:"quad_k"`
	Bucket     int    `yaml:"bucket"`
	Points     string `yaml:"points"`
	Verbose    bool   `yaml:"verbose"`
}

func defaultOptions() options {
	kd := spatial.DefaultKDTreeConfig()
	quad := spatial.DefaultQuadTreeConfig()
	return options{
		Index:  indexKD,
		Dims:   kd.Dims,
		QuadK:  quad.K,
		Bucket: quad.BucketingParam,
	}
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "YAML file with default option values")
	fs.StringVar(&o.Index, "index", o.Index, "index kind: kd, quad or brute")
	fs.IntVar(&o.Dims, "dims", o.Dims, "point dimensionality (kd and brute; quad is always 2)")
	fs.IntVar(&o.QuadK, "quad-k", o.QuadK, "quadtree universe is [0, 2^K] x [0, 2^K]")
	fs.IntVar(&o.Bucket, "bucket", o.Bucket, "quadtree leaf capacity")
	fs.StringVar(&o.Points, "points", o.Points, "CSV file of points to load")
	fs.BoolVarP(&o.Verbose, "verbose", "v", o.Verbose, "development logging at debug level")
}

// flagFields maps flag names to the yaml keys they override.
var flagFields = map[string]func(dst, src *options){
	"index":   func(dst, src *options) { dst.Index = src.Index },
	"dims":    func(dst, src *options) { dst.Dims = src.Dims },
	"quad-k":  func(dst, src *options) { dst.QuadK = src.QuadK },
	"bucket":  func(dst, src *options) { dst.Bucket = src.Bucket },
	"points":  func(dst, src *options) { dst.Points = src.Points },
	"verbose": func(dst, src *options) { dst.Verbose = src.Verbose },
}

// resolve applies the config file, if any, underneath the flags that were
// explicitly set on the command line.
func (o *options) resolve(fs *pflag.FlagSet) error {
	if o.ConfigFile == "" {
		return nil
	}
	f, err := os.Open(o.ConfigFile)
	if err != nil {
		return fmt.Errorf("spatialq: open config: %w", err)
	}
	defer f.Close()

	merged, err := decodeOptions(f, defaultOptions())
	if err != nil {
		return fmt.Errorf("spatialq: config %s: %w", o.ConfigFile, err)
	}
	fs.Visit(func(fl *pflag.Flag) {
		if set, ok := flagFields[fl.Name]; ok {
			set(&merged, o)
		}
	})
	merged.ConfigFile = o.ConfigFile
	*o = merged
	return nil
}

// decodeOptions reads YAML options over base. Unknown keys are rejected.
func decodeOptions(r io.Reader, base options) (options, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&base); err != nil && !errors.Is(err, io.EOF) {
		return options{}, err
	}
	return base, nil
}

// newIndex builds the empty index described by o.
func (o *options) newIndex() (spatial.Index, error) {
	switch o.Index {
	case indexKD:
		return spatial.NewKDTree(spatial.KDTreeConfig{Dims: o.Dims})
	case indexQuad:
		return spatial.NewPRQuadTree(spatial.QuadTreeConfig{K: o.QuadK, BucketingParam: o.Bucket})
	case indexBrute:
		return spatial.NewBruteForce(o.Dims)
	default:
		return nil, fmt.Errorf("spatialq: unknown index %q (want %s, %s or %s)", o.Index, indexKD, indexQuad, indexBrute)
	}
}
