package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// commandLineFlag describes a flag. Flags with bindViper set override the
// configuration key of that name.
type commandLineFlag struct {
	name, shorthand, defaultValue, usage string
	isBool                               bool
	bindViper                            string
}

var (
	configFlag = commandLineFlag{
		name:      "config",
		shorthand: "c",
		usage:     "config file (default is $XDG_CONFIG_HOME/ringbuf/config.yaml)",
	}
	quietFlag = commandLineFlag{
		name:      "quiet",
		shorthand: "q",
		usage:     "suppress log output",
		isBool:    true,
	}
	debugFlag = commandLineFlag{
		name:      "debug",
		usage:     "enable debug logging",
		isBool:    true,
		bindViper: "debug",
	}
	logFormatFlag = commandLineFlag{
		name:      "log-format",
		usage:     "log format (text or json)",
		bindViper: "log_format",
	}
	linesFlag = commandLineFlag{
		name:      "lines",
		shorthand: "n",
		usage:     "number of lines to keep",
		bindViper: "capacity",
	}
	capacityFlag = commandLineFlag{
		name:      "capacity",
		usage:     "capacity of the window",
		bindViper: "capacity",
	}
	followFlag = commandLineFlag{
		name:      "follow",
		shorthand: "f",
		usage:     "keep printing lines as the file grows",
		isBool:    true,
	}
	encodingFlag = commandLineFlag{
		name:      "encoding",
		shorthand: "e",
		usage:     "character encoding of the input (e.g. utf-8, shift_jis)",
		bindViper: "encoding",
	}
	formatFlag = commandLineFlag{
		name:      "format",
		shorthand: "o",
		usage:     "output format (plain, json, yaml or table)",
		bindViper: "format",
	}
	popFlag = commandLineFlag{
		name:         "pop",
		defaultValue: "0",
		usage:        "number of elements to pop from the front before printing",
	}
	metricsFlag = commandLineFlag{
		name:   "metrics",
		usage:  "print buffer metrics after the window",
		isBool: true,
	}
)

// commonFlags are registered on every command.
var commonFlags = []commandLineFlag{configFlag, quietFlag, debugFlag, logFormatFlag}

func initFlags(cmd *cobra.Command, flags ...commandLineFlag) {
	for _, flag := range append(commonFlags, flags...) {
		if flag.isBool {
			cmd.Flags().BoolP(flag.name, flag.shorthand, flag.defaultValue == "true", flag.usage)
			continue
		}
		cmd.Flags().StringP(flag.name, flag.shorthand, flag.defaultValue, flag.usage)
	}
}

// bindFlags binds flags that override configuration keys to v. Only flags
// set on the command line take precedence over the config file and env.
func bindFlags(v *viper.Viper, cmd *cobra.Command, flags ...commandLineFlag) error {
	for _, flag := range append(commonFlags, flags...) {
		if flag.bindViper == "" {
			continue
		}
		if err := v.BindPFlag(flag.bindViper, cmd.Flags().Lookup(flag.name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag.name, err)
		}
	}
	return nil
}

func intFlag(cmd *cobra.Command, name string) (int, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return 0, fmt.Errorf("failed to get flag %s: %w", name, err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for --%s: %q", name, raw)
	}
	return n, nil
}
