package propdef

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/lattice/internal/ir"
)

// LoadDir loads every .cue file under dir as one CUE instance and
// compiles its property definitions. Declaration order follows source
// order, which is what the evaluation-order tie-break keys on.
func LoadDir(dir string) ([]ir.PropertyDecl, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &DefError{
			Field:   "dir",
			Message: fmt.Sprintf("definitions directory not found: %s", dir),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("access definitions directory: %w", err)
	}
	if !info.IsDir() {
		return nil, &DefError{
			Field:   "dir",
			Message: fmt.Sprintf("not a directory: %s", dir),
		}
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scan definitions directory: %w", err)
	}
	if len(files) == 0 {
		return nil, &DefError{
			Field:   "dir",
			Message: fmt.Sprintf("no CUE files found in %s", dir),
		}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &DefError{Field: "cue", Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	root := ctx.BuildInstance(inst)
	if err := root.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	return Compile(ctx, root)
}

// LoadString compiles property definitions from a single CUE source
// string. Used by tests and anywhere a directory layout is overkill.
func LoadString(src string) ([]ir.PropertyDecl, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(src)
	if err := root.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Compile(ctx, root)
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
