// Package loader discovers and parses a Steps project: the .building
// file, every floor directory with its .floor file, and one .step file
// per declared step. It populates the global step registry, loading the
// bundled standard library first so project steps may shadow it.
//
// The loader never executes anything. It returns a partial result even
// when errors were collected; callers must refuse to execute a project
// whose error list is non-empty.
package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/steps-lang/steps/internal/ast"
	"github.com/steps-lang/steps/internal/errors"
	"github.com/steps-lang/steps/internal/interp/builtins"
	"github.com/steps-lang/steps/internal/parser"
	"github.com/steps-lang/steps/pkg/token"
	"github.com/steps-lang/steps/stdlib"
)

// File extensions of the three file kinds.
const (
	BuildingExt = ".building"
	FloorExt    = ".floor"
	StepExt     = ".step"
)

// Project is the result of loading: the building AST and the fully
// populated registries, plus every error collected along the way.
type Project struct {
	Root     string
	Building *ast.Building
	Floors   []*ast.Floor
	Steps    map[string]*ast.Step
	Natives  *builtins.Registry
	Errors   errors.List

	// origin tracks which floor registered each step, for duplicate
	// detection. Standard library entries carry the "stdlib:" prefix and
	// may be overwritten silently.
	origin map[string]string
}

// Load discovers and parses the project rooted at root. The natives
// registry participates in name-collision checking; pass
// builtins.NewRegistry() unless a test needs a custom set.
func Load(root string, natives *builtins.Registry) *Project {
	p := &Project{
		Root:    root,
		Steps:   make(map[string]*ast.Step),
		Natives: natives,
		origin:  make(map[string]string),
	}

	// Standard library first: project entries registered later win.
	p.loadFloors(stdlib.FS, ".", true)

	p.loadBuilding()
	p.loadFloors(os.DirFS(root), ".", false)
	return p
}

// LoadStdlib loads only the bundled standard library, for hosts that
// evaluate fragments without a project directory (the REPL).
func LoadStdlib(natives *builtins.Registry) *Project {
	p := &Project{
		Steps:   make(map[string]*ast.Step),
		Natives: natives,
		origin:  make(map[string]string),
	}
	p.loadFloors(stdlib.FS, ".", true)
	return p
}

// LoadStepFile parses a single .step file outside any project, for the
// run-step command. The step is registered alone alongside the stdlib.
func LoadStepFile(path string) (*ast.Step, *Project) {
	p := &Project{
		Root:    filepath.Dir(path),
		Steps:   make(map[string]*ast.Step),
		Natives: builtins.NewRegistry(),
		origin:  make(map[string]string),
	}
	p.loadFloors(stdlib.FS, ".", true)

	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf(errors.CodeMissingBuilding, token.Position{File: path},
			"cannot read %s: %v", path, err)
		return nil, p
	}
	ps := parser.New(string(data), path)
	step := ps.ParseStep()
	p.Errors = append(p.Errors, ps.Errors()...)
	if step.Name != "" {
		p.registerStep(step, "file:"+path, step.Pos())
	}
	return step, p
}

// loadBuilding locates and parses <root>/<root>.building. The building
// file name and the declared building name must both match the directory.
func (p *Project) loadBuilding() {
	base := filepath.Base(filepath.Clean(p.Root))
	path := filepath.Join(p.Root, base+BuildingExt)

	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf(errors.CodeMissingBuilding, token.Position{File: path},
			"project %q has no %s%s file", base, base, BuildingExt).
			WithHint("a project directory needs a building file named after it")
		return
	}

	ps := parser.New(string(data), path)
	b := ps.ParseBuilding()
	p.Errors = append(p.Errors, ps.Errors()...)
	p.Building = b

	if b.Name != "" && b.Name != base {
		p.errorf(errors.CodeNameMismatch, b.Pos(),
			"building is named %q but its directory is %q", b.Name, base).
			WithHint("the building name must match the directory name exactly")
	}
}

// loadFloors walks the subdirectories of dir in fsys, loading every one
// that carries a <dir>/<dir>.floor file. Directories without a floor file
// are ignored (assets, notes).
func (p *Project) loadFloors(fsys fs.FS, dir string, isStdlib bool) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if !isStdlib {
			p.errorf(errors.CodeMissingBuilding, token.Position{File: p.Root},
				"cannot read project directory: %v", err)
		}
		return
	}

	// Deterministic load order regardless of filesystem.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		floorPath := name + "/" + name + FloorExt
		data, err := fs.ReadFile(fsys, floorPath)
		if err != nil {
			continue
		}
		p.loadFloor(fsys, name, string(data), floorPath, isStdlib)
	}
}

// loadFloor parses one floor file and every step it declares.
func (p *Project) loadFloor(fsys fs.FS, dirName, source, floorPath string, isStdlib bool) {
	ps := parser.New(source, p.displayPath(floorPath, isStdlib))
	floor := ps.ParseFloor()
	p.Errors = append(p.Errors, ps.Errors()...)

	if floor.Name != "" && floor.Name != dirName {
		p.errorf(errors.CodeNameMismatch, floor.Pos(),
			"floor is named %q but its directory is %q", floor.Name, dirName).
			WithHint("the floor name must match the directory name exactly")
	}
	if !isStdlib {
		p.Floors = append(p.Floors, floor)
	}

	origin := dirName
	if isStdlib {
		origin = "stdlib:" + dirName
	}

	for _, decl := range floor.Steps {
		stepPath := dirName + "/" + decl.Name + StepExt
		data, err := fs.ReadFile(fsys, stepPath)
		if err != nil {
			p.errorf(errors.CodeMissingBuilding, decl.Pos(),
				"floor %q declares step %q but %s does not exist", dirName, decl.Name, stepPath)
			continue
		}

		sp := parser.New(string(data), p.displayPath(stepPath, isStdlib))
		step := sp.ParseStep()
		p.Errors = append(p.Errors, sp.Errors()...)

		if step.Name != "" && step.Name != decl.Name {
			p.errorf(errors.CodeNameMismatch, step.Pos(),
				"file %s contains step %q, expected %q", stepPath, step.Name, decl.Name)
			continue
		}
		if step.FloorName != "" && step.FloorName != dirName {
			p.errorf(errors.CodeNameMismatch, step.FloorPos,
				"step %q says it belongs to %q but lives on floor %q", step.Name, step.FloorName, dirName)
			continue
		}
		p.registerStep(step, origin, decl.Pos())
	}
}

// registerStep adds a parsed step to the global registry, enforcing the
// collision rules: native names are off limits, duplicate names across
// project floors are an error, and project steps silently replace
// same-named standard library steps.
func (p *Project) registerStep(step *ast.Step, origin string, pos token.Position) {
	if step.Name == "" {
		return
	}
	if p.Natives.Has(step.Name) {
		p.errorf(errors.CodeNativeCollision, pos,
			"step %q collides with the built-in native function of the same name", step.Name).
			WithHint("pick a different step name")
		return
	}
	if prev, exists := p.origin[step.Name]; exists {
		if !strings.HasPrefix(prev, "stdlib:") {
			p.errorf(errors.CodeDuplicateStep, pos,
				"step %q is already declared on floor %q", step.Name, prev).
				WithHint("step names are global; rename one of them")
			return
		}
		// Project step shadows the standard library entry.
	}
	p.Steps[step.Name] = step
	p.origin[step.Name] = origin
}

// displayPath renders a file path for error messages, marking stdlib
// files so users don't hunt for them on disk.
func (p *Project) displayPath(rel string, isStdlib bool) string {
	if isStdlib {
		return "<stdlib>/" + rel
	}
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

func (p *Project) errorf(code string, pos token.Position, format string, args ...any) *errors.Error {
	e := errors.New(errors.Structure, code, pos, format, args...)
	p.Errors = append(p.Errors, e)
	return e
}
