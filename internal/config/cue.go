// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
)

// loadCUEIntoViper validates the file at path against #Config and merges it
// over the defaults already in v.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := checkFileSize(data, maxConfigFileBytes, path); err != nil {
		return err
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling embedded schema: %w", err)
	}

	file := cctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return formatCUEError(err, path)
	}

	merged := schema.Unify(file)
	if err := merged.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var values map[string]any
	if err := merged.Decode(&values); err != nil {
		return formatCUEError(err, path)
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("merging %s: %w", path, err)
	}
	return nil
}

// formatCUEError prefixes every CUE problem with the key it concerns:
//
//	config.cue: generate.length: invalid value 4 (out of bound >=8)
//
// Several problems are listed one per line.
func formatCUEError(err error, path string) error {
	problems := cueerrors.Errors(err)
	if len(problems) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}

	lines := make([]string, len(problems))
	for i, p := range problems {
		key, msg := formatPath(cueerrors.Path(p)), p.Error()
		if key == "" {
			lines[i] = msg
			continue
		}
		// Some messages already start with the key.
		msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, key), ":"))
		lines[i] = key + ": " + msg
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", path, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", path, strings.Join(lines, "\n  "))
}

// formatPath joins a CUE path with dots and writes list indices in brackets:
// ["items", "0", "name"] becomes items[0].name.
func formatPath(path []string) string {
	var b strings.Builder
	for i, elem := range path {
		switch {
		case i > 0 && isIndex(elem):
			b.WriteString("[" + elem + "]")
		case i > 0:
			b.WriteString("." + elem)
		default:
			b.WriteString(elem)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	return s != "" && strings.Trim(s, "0123456789") == ""
}

func checkFileSize(data []byte, limit int64, path string) error {
	if n := int64(len(data)); n > limit {
		return fmt.Errorf("%s is %d bytes, larger than the %d byte limit", path, n, limit)
	}
	return nil
}
