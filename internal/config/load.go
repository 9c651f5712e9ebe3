package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// fileVariants are tried, in order, in each search directory.
var fileVariants = []string{
	"config",
	"config.toml",
	"pimrc",
	"pimrc.toml",
	"config.json",
	"pimrc.json",
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	ConfigPath  string            // -c/--config flag value; must exist when set
	RuntimePath string            // -r/--rtp flag value
	Env         map[string]string // environment variables
}

// RuntimePath resolves the runtime directory: the flag value, then
// $PIM_RTP, then $HOME/.pim. Empty when none is available.
func RuntimePath(flag string, env map[string]string) string {
	if flag != "" {
		return flag
	}

	if rtp := env["PIM_RTP"]; rtp != "" {
		return rtp
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".pim")
	}

	return ""
}

// SearchPaths lists the candidate config files in priority order: the
// runtime path, then $HOME, then $XDG_DATA_HOME (default ~/.local/share),
// each with every file variant.
func SearchPaths(rtp string, env map[string]string) []string {
	var dirs []string

	if rtp != "" {
		dirs = append(dirs, rtp)
	}

	home := env["HOME"]
	if home != "" {
		dirs = append(dirs, home)
	}

	if xdg := env["XDG_DATA_HOME"]; xdg != "" {
		dirs = append(dirs, xdg)
	} else if home != "" {
		dirs = append(dirs, filepath.Join(home, ".local", "share"))
	}

	paths := make([]string, 0, len(dirs)*len(fileVariants))

	for _, dir := range dirs {
		for _, variant := range fileVariants {
			paths = append(paths, filepath.Join(dir, variant))
		}
	}

	return paths
}

// Load finds and parses the configuration.
//
// An explicit ConfigPath must exist. Otherwise the first existing file from
// [SearchPaths] wins; when none exists the defaults from [Default] are used.
// A file that exists but does not parse is [ErrInvalid].
func Load(in LoadInput) (*Config, error) {
	if in.ConfigPath != "" {
		_, err := os.Stat(in.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, in.ConfigPath)
		}

		return loadFile(in.ConfigPath)
	}

	for _, path := range SearchPaths(RuntimePath(in.RuntimePath, in.Env), in.Env) {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		return loadFile(path)
	}

	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	cfg.Source = path

	return cfg, nil
}

// Parse decodes a configuration file. Names ending in .json or .jsonc are
// JSON with comments and trailing commas; everything else is TOML.
func Parse(name string, data []byte) (*Config, error) {
	var (
		doc *header.Node
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonc":
		doc, err = parseJSONC(data)
	default:
		doc, err = header.Unmarshal(data)
	}

	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalid, name, err)
	}

	return New(doc), nil
}

func parseJSONC(data []byte) (*header.Node, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.UseNumber()

	var raw map[string]any

	err = dec.Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if raw == nil {
		return nil, errors.New("top level must be an object")
	}

	return header.FromValue(raw)
}
