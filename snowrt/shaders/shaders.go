// Package shaders holds the WGSL programs. Scene programs are compiled with
// common.wgsl prepended; the text overlay is standalone.
package shaders

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed common.wgsl
var CommonWGSL string

//go:embed lit.wgsl
var LitWGSL string

//go:embed unlit.wgsl
var UnlitWGSL string

//go:embed raytrace.wgsl
var RaytraceWGSL string

//go:embed particles.wgsl
var ParticlesWGSL string

//go:embed text.wgsl
var TextWGSL string

// File names looked up by Load.
const (
	CommonFile    = "common.wgsl"
	LitFile       = "lit.wgsl"
	UnlitFile     = "unlit.wgsl"
	RaytraceFile  = "raytrace.wgsl"
	ParticlesFile = "particles.wgsl"
	TextFile      = "text.wgsl"
)

// Sources is one complete set of program texts.
type Sources struct {
	Common    string
	Lit       string
	Unlit     string
	Raytrace  string
	Particles string
	Text      string
}

func Embedded() Sources {
	return Sources{
		Common:    CommonWGSL,
		Lit:       LitWGSL,
		Unlit:     UnlitWGSL,
		Raytrace:  RaytraceWGSL,
		Particles: ParticlesWGSL,
		Text:      TextWGSL,
	}
}

// Load starts from the embedded set and replaces every program found in dir.
// An empty dir returns the embedded set.
func Load(dir string) (Sources, error) {
	src := Embedded()
	if dir == "" {
		return src, nil
	}
	slots := map[string]*string{
		CommonFile:    &src.Common,
		LitFile:       &src.Lit,
		UnlitFile:     &src.Unlit,
		RaytraceFile:  &src.Raytrace,
		ParticlesFile: &src.Particles,
		TextFile:      &src.Text,
	}
	for name, slot := range slots {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Sources{}, fmt.Errorf("read shader %s: %w", name, err)
		}
		*slot = string(data)
	}
	return src, nil
}

func (s Sources) LitProgram() string       { return s.Common + "\n" + s.Lit }
func (s Sources) UnlitProgram() string     { return s.Common + "\n" + s.Unlit }
func (s Sources) RaytraceProgram() string  { return s.Common + "\n" + s.Raytrace }
func (s Sources) ParticlesProgram() string { return s.Common + "\n" + s.Particles }
func (s Sources) TextProgram() string      { return s.Text }

// IsShaderFile reports whether name is one of the program files Load reads.
func IsShaderFile(name string) bool {
	switch filepath.Base(name) {
	case CommonFile, LitFile, UnlitFile, RaytraceFile, ParticlesFile, TextFile:
		return true
	}
	return false
}
