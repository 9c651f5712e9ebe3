// Package config loads the configuration document and applies "key=value"
// overrides to it.
//
// The configuration is a header document ([header.Node] table), so it is
// addressed with the same dotted paths as entry headers.
package config

import (
	"errors"

	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Load errors.
var (
	ErrNotFound = errors.New("config file not found")
	ErrRead     = errors.New("cannot read config file")
	ErrInvalid  = errors.New("invalid config file")
)

// Known configuration paths.
const (
	KeyVerbose      = "verbose"
	KeyEditor       = "editor"
	KeyEditorOpts   = "editor-opts"
	KeyStorePath    = "store.path"
	KeyLogs         = "log.logs"
	KeyDefaultLog   = "log.default"
	KeyDefaultDiary = "diary.default_diary"
)

// DefaultTOML is written by "pim init".
const DefaultTOML = `# pim configuration

verbose = false
editor = "vi"
editor-opts = ""

[store]
# Store root. Empty means <runtime path>/store.
path = ""

[log]
logs = ["default"]
default = "default"

[diary]
default_diary = "default"
`

// Config is a loaded configuration document.
type Config struct {
	doc *header.Node

	// Source is the file the document was loaded from, empty for defaults.
	Source string
}

// New wraps doc. A nil doc is an empty table.
func New(doc *header.Node) *Config {
	if doc == nil {
		doc = header.NewTable()
	}

	return &Config{doc: doc}
}

// Default returns the built-in configuration.
func Default() *Config {
	doc, err := header.Unmarshal([]byte(DefaultTOML))
	if err != nil {
		panic("config: default document invalid: " + err.Error())
	}

	return New(doc)
}

// Doc returns the live document.
func (c *Config) Doc() *header.Node { return c.doc }

// Get reads path from the document. Absent and mistyped paths are nil.
func (c *Config) Get(path string) *header.Node {
	n, err := header.Read(c.doc, path)
	if err != nil {
		return nil
	}

	return n
}

// Verbose reports the "verbose" flag.
func (c *Config) Verbose() bool {
	v, _, _ := header.ReadBool(c.doc, KeyVerbose)

	return v
}

// Editor returns the configured editor command.
func (c *Config) Editor() string { return c.str(KeyEditor) }

// EditorOpts returns extra editor arguments.
func (c *Config) EditorOpts() string { return c.str(KeyEditorOpts) }

// StorePath returns the configured store root, empty when unset.
func (c *Config) StorePath() string { return c.str(KeyStorePath) }

// Logs returns the names of the diaries usable as logs.
func (c *Config) Logs() []string {
	logs, _, err := header.ReadStrings(c.doc, KeyLogs)
	if err != nil {
		return nil
	}

	return logs
}

// DefaultLog returns "log.default".
func (c *Config) DefaultLog() string { return c.str(KeyDefaultLog) }

// DefaultDiary returns "diary.default_diary".
func (c *Config) DefaultDiary() string { return c.str(KeyDefaultDiary) }

func (c *Config) str(path string) string {
	s, _, _ := header.ReadString(c.doc, path)

	return s
}
