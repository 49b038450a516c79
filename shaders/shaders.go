package shaders

//
// Embedded GLSL shader sources
//

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Program sources are Go templates: {{.Uniforms}} is replaced with the
// uniform declarations of the material they are compiled for.
//
//go:embed *.vert *.frag
var programs embed.FS

//go:embed overlay.vert
var OverlayVert string

//go:embed overlay.frag
var OverlayFrag string

const (
	VertExt = ".vert"
	FragExt = ".frag"
)

// Program returns the embedded vertex and fragment sources named name.
func Program(name string) (vert, frag string, err error) {
	return load(programs, name)
}

// Load reads name from dir, falling back to the embedded copy of each file
// missing there. An empty dir means embedded only.
func Load(dir, name string) (vert, frag string, err error) {
	if dir == "" {
		return Program(name)
	}
	vert, err = readWithFallback(os.DirFS(dir), name+VertExt)
	if err != nil {
		return "", "", err
	}
	frag, err = readWithFallback(os.DirFS(dir), name+FragExt)
	if err != nil {
		return "", "", err
	}
	return vert, frag, nil
}

// ProgramName maps a shader file name to the program it belongs to, or ""
// if it is not a shader file.
func ProgramName(file string) string {
	base := filepath.Base(file)
	switch ext := filepath.Ext(base); ext {
	case VertExt, FragExt:
		return base[:len(base)-len(ext)]
	}
	return ""
}

func readWithFallback(fsys fs.FS, file string) (string, error) {
	data, err := fs.ReadFile(fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = fs.ReadFile(programs, file)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

func load(fsys fs.FS, name string) (vert, frag string, err error) {
	v, err := fs.ReadFile(fsys, name+VertExt)
	if err != nil {
		return "", "", fmt.Errorf("program %q: %w", name, err)
	}
	f, err := fs.ReadFile(fsys, name+FragExt)
	if err != nil {
		return "", "", fmt.Errorf("program %q: %w", name, err)
	}
	return string(v), string(f), nil
}
