package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"discsub/internal/config"
	"discsub/internal/pipeline"
	"discsub/internal/submission"
	"discsub/internal/textutil"
)

type inputFlags struct {
	record   string
	seed     string
	dat      string
	cue      string
	name     string
	discRoot string
}

// loadInput reads the record and optional side files. Without --seed a
// sibling <base>.seed.json is applied when present.
func loadInput(flags inputFlags) (pipeline.Input, error) {
	if strings.TrimSpace(flags.record) == "" {
		return pipeline.Input{}, errors.New("--input is required")
	}
	recordPath, err := config.ExpandPath(flags.record)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("resolve input: %w", err)
	}
	rec, err := submission.ReadFile(recordPath)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("load %s: %w", recordPath, err)
	}
	in := pipeline.Input{
		BaseName:   strings.TrimSpace(flags.name),
		SourcePath: recordPath,
		Record:     rec,
	}

	seedPath := strings.TrimSpace(flags.seed)
	if seedPath == "" {
		sibling := siblingSeedPath(recordPath)
		if _, err := os.Stat(sibling); err == nil {
			seedPath = sibling
		}
	}
	if seedPath != "" {
		seed, err := submission.ReadFile(seedPath)
		if err != nil {
			return pipeline.Input{}, fmt.Errorf("load seed %s: %w", seedPath, err)
		}
		in.Seed = seed
	}

	if in.DAT, err = readOptional(flags.dat); err != nil {
		return pipeline.Input{}, fmt.Errorf("load dat: %w", err)
	}
	if in.Cuesheet, err = readOptional(flags.cue); err != nil {
		return pipeline.Input{}, fmt.Errorf("load cuesheet: %w", err)
	}
	return in, nil
}

func siblingSeedPath(recordPath string) string {
	return filepath.Join(filepath.Dir(recordPath), textutil.BaseName(recordPath)+".seed.json")
}

func readOptional(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
