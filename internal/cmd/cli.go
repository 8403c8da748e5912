// Package cmd holds one struct per nautilus subcommand. Kong calls each
// struct's Run method with the logger, printer and stdout bound in main.
package cmd

import (
	"github.com/alecthomas/kong"
)

// CLI is the root command.
type CLI struct {
	ConfigFile string           `name:"config" help:"Path to a CLI configuration file (json, yaml or toml)" type:"path" env:"NAUTILUS_CONFIG"`
	Log        LogConfig        `embed:"" prefix:"log."`
	NoColor    bool             `help:"Disable colored output" env:"NAUTILUS_NO_COLOR"`
	Version    kong.VersionFlag `help:"Print the nautilus version and exit"`

	Build   Build         `cmd:"" help:"Generate the instruction dispatcher and the IDL"`
	IDL     IDL           `cmd:"" name:"idl" help:"Generate the IDL only"`
	Inspect Inspect       `cmd:"" help:"Show discovered objects, instructions and their accounts"`
	Init    Init          `cmd:"" help:"Create a Nautilus.toml manifest"`
	Config  ConfigCommand `cmd:"" help:"Manage CLI configuration files"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"NAUTILUS_LOG_LEVEL"`
	File  string `help:"Also write logs to this file" env:"NAUTILUS_LOG_FILE"`
}
