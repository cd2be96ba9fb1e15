package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/encoding/yaml"

	"github.com/roach88/qaco/internal/ir"
)

// ErrUnsupportedFormat is returned for a file extension the loader does not know.
var ErrUnsupportedFormat = errors.New("unsupported problem file format")

// Load reads a problem from a file or from a CUE package directory.
func Load(path string) (*ir.QACOProblem, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile reads one problem file. .cue and .json files are compiled as CUE;
// .yaml and .yml files go through CUE's YAML decoder.
func LoadFile(path string) (*ir.QACOProblem, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	var v cue.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue", ".json":
		v = ctx.CompileBytes(src, cue.Filename(path))
	case ".yaml", ".yml":
		file, err := yaml.Extract(path, src)
		if err != nil {
			return nil, formatCUEError(err)
		}
		v = ctx.BuildFile(file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return CompileProblem(v)
}

// LoadDir loads every .cue file of the package in dir as one problem.
func LoadDir(dir string) (*ir.QACOProblem, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	v := cuecontext.New().BuildInstance(inst)
	return CompileProblem(v)
}
