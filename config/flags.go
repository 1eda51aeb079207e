package config

import (
	"github.com/spf13/pflag"
)

// CliConfig holds the command line flags of the server.
type CliConfig struct {
	ConfigFile string
	Debug      bool
	Version    bool
}

// ParseArgs parses the server flags. It returns pflag.ErrHelp for -h.
func ParseArgs(name string, args []string) (*CliConfig, error) {
	cli := &CliConfig{}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&cli.ConfigFile, "config", "", "Path to the config file")
	fs.BoolVarP(&cli.Debug, "debug", "d", false, "Enable debug mode")
	fs.BoolVarP(&cli.Version, "version", "v", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cli, nil
}
