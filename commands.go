package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PixPMusic/nocturn-studio/internal/midi"
	"github.com/PixPMusic/nocturn-studio/internal/script"
	"github.com/PixPMusic/nocturn-studio/internal/surface"
)

// loadVariants returns the built-in variants followed by those in path,
// if given
func loadVariants(path string) ([]surface.Variant, error) {
	variants := surface.Variants()
	if path == "" {
		return variants, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	extra, err := surface.LoadVariants(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return append(variants, extra...), nil
}

// selectVariants narrows variants to the one called name; an empty name
// keeps them all
func selectVariants(variants []surface.Variant, name string) ([]surface.Variant, error) {
	if name == "" {
		return variants, nil
	}
	for _, v := range variants {
		if v.Name == name {
			return []surface.Variant{v}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", surface.ErrUnknownVariant, name)
}

// generateScripts validates and writes one host script per variant
func generateScripts(w io.Writer, root string, variants []surface.Variant) error {
	for _, v := range variants {
		d := surface.BuildVariant(v)
		if err := surface.Validate(d); err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}
		path, err := script.WriteFile(root, d)
		if err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}
		fmt.Fprintf(w, "%s: wrote %s\n", v.Name, path)
	}
	return nil
}

// validateVariants reports every problem of every variant
func validateVariants(w io.Writer, variants []surface.Variant) error {
	var errs []error
	for _, v := range variants {
		d := surface.BuildVariant(v)
		if err := surface.Validate(d); err != nil {
			fmt.Fprintf(w, "%s: %v\n", v.Name, err)
			errs = append(errs, fmt.Errorf("variant %s: %w", v.Name, err))
			continue
		}
		cols, rows := d.GridSize()
		fmt.Fprintf(w, "%s: ok (%d controls, %dx%d grid, %d host bindings)\n",
			v.Name, len(d.Controls), cols, rows, len(d.HostBindings()))
	}
	return errors.Join(errs...)
}

func runGenerate(args []string, defaultDir string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	out := fs.String("out", defaultDir, "directory the scripts are written under")
	file := fs.String("variants", "", "YAML file with additional variants")
	name := fs.String("variant", "", "only generate this variant")
	if err := fs.Parse(args); err != nil {
		return err
	}

	variants, err := loadVariants(*file)
	if err != nil {
		return err
	}
	variants, err = selectVariants(variants, *name)
	if err != nil {
		return err
	}
	return generateScripts(os.Stdout, *out, variants)
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	file := fs.String("variants", "", "YAML file with additional variants")
	if err := fs.Parse(args); err != nil {
		return err
	}

	variants, err := loadVariants(*file)
	if err != nil {
		return err
	}
	return validateVariants(os.Stdout, variants)
}

func runPorts(w io.Writer) {
	m := midi.NewManager()
	defer m.Close()

	fmt.Fprintln(w, "Inputs:")
	for _, name := range m.ListInPorts() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w, "Outputs:")
	for _, name := range m.ListOutPorts() {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
