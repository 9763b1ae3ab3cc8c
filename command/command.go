package command

import (
	"strings"

	"github.com/janelia-flyem/pgraph/pgraph"
)

// Keys for setting various parameters within the command line via "key=value" arguments.
const (
	KeyConfig = "config"
	KeyEngine = "engine"
	KeyTo     = "to"
	KeyPath   = "path"
)

// Command is a command name followed by its arguments, e.g., from os.Args.
type Command []string

func (cmd Command) String() string {
	return strings.Join([]string(cmd), " ")
}

// Name returns the first argument which is assumed to be the name of the command.
func (cmd Command) Name() string {
	if len(cmd) == 0 {
		return ""
	}
	return cmd[0]
}

func isSetting(arg string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(arg, "=")
	if !ok || key == "" {
		return "", "", false
	}
	return
}

// Setting scans a command for a "key=value" argument and returns the value of
// the passed key.  Keys are case-insensitive.
func (cmd Command) Setting(key string) (value string, found bool) {
	if len(cmd) > 1 {
		for _, arg := range cmd[1:] {
			k, v, ok := isSetting(arg)
			if ok && strings.EqualFold(k, key) {
				return v, true
			}
		}
	}
	return
}

// Settings returns every "key=value" argument as a configuration.
func (cmd Command) Settings() pgraph.Config {
	config := pgraph.NewConfig()
	if len(cmd) > 1 {
		for _, arg := range cmd[1:] {
			if k, v, ok := isSetting(arg); ok {
				config.Set(k, v)
			}
		}
	}
	return config
}

// Argument returns the n-th argument that is not a setting, where the command
// name is argument 0.  It returns the empty string if there is no such argument.
func (cmd Command) Argument(n int) string {
	if n == 0 {
		return cmd.Name()
	}
	var pos int
	if len(cmd) > 1 {
		for _, arg := range cmd[1:] {
			if _, _, ok := isSetting(arg); ok {
				continue
			}
			pos++
			if pos == n {
				return arg
			}
		}
	}
	return ""
}

// CommandArgs sets a variadic argument set of string pointers to command
// arguments, ignoring setting arguments of the form "<key>=<value>".  If there
// aren't enough arguments to set a target, the target is set to the empty
// string.  It returns an 'overflow' slice that has all arguments beyond those
// needed for targets.
func (cmd Command) CommandArgs(targets ...*string) (overflow []string) {
	for _, target := range targets {
		*target = ""
	}
	var curTarget int
	if len(cmd) > 1 {
		for _, arg := range cmd[1:] {
			if _, _, ok := isSetting(arg); ok {
				continue
			}
			if curTarget < len(targets) {
				*(targets[curTarget]) = arg
			} else {
				overflow = append(overflow, arg)
			}
			curTarget++
		}
	}
	return
}
