// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package knowledge

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Load reads a knowledge base from a YAML file layered over the
// documented defaults, validates it, normalizes the weight schedule,
// and compiles the pattern tables. The returned base is ready for
// scoring and must be treated as immutable.
func Load(path string) (*Base, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading knowledge defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading knowledge file %s: %w", path, err)
	}

	var base Base
	if err := k.Unmarshal("", &base); err != nil {
		return nil, fmt.Errorf("parsing knowledge file %s: %w", path, err)
	}
	return Finish(&base)
}

// Finish validates and finalizes a base built in memory. Load calls
// this internally; tests and embedders building a Base directly call
// it themselves.
func Finish(base *Base) (*Base, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if err := base.finalize(); err != nil {
		return nil, err
	}
	return base, nil
}
