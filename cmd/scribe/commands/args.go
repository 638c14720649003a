package commands

import (
	"fmt"
	"strings"

	"github.com/spherical-ai/scribe/internal/domain"
)

// Options is the parsed converter command line.
type Options struct {
	Jobs    []domain.Job
	Silent  bool
	Verbose bool
	NoColor bool
	Config  string
	Help    bool
	Version bool
}

// ParseArgs groups argv into conversion jobs. The grammar is positional:
// input tokens accumulate into the current job, output flags declare that
// job's destinations, and the next input after an output flag starts a new
// job. Global flags may appear anywhere.
func ParseArgs(args []string) (*Options, error) {
	opts := &Options{}
	var (
		current     domain.Job
		haveOutputs bool
	)
	seal := func() {
		if len(current.Items) > 0 {
			opts.Jobs = append(opts.Jobs, current)
		}
		current = domain.Job{}
		haveOutputs = false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			if haveOutputs {
				seal()
			}
			item, err := domain.NewSourceItem(arg)
			if err != nil {
				return nil, err
			}
			current.Items = append(current.Items, item)
			continue
		}

		name, inline, hasInline := strings.Cut(arg, "=")
		value := func() (string, error) {
			if hasInline {
				return inline, nil
			}
			if i+1 >= len(args) {
				return "", domain.ValidationError(fmt.Sprintf("flag %s needs a value", name), nil)
			}
			i++
			return args[i], nil
		}
		needItems := func() error {
			if len(current.Items) == 0 {
				return domain.ValidationError(fmt.Sprintf("output flag %s before any input", name), nil)
			}
			return nil
		}

		switch name {
		case "-x", "--stdout":
			if err := needItems(); err != nil {
				return nil, err
			}
			current.Out.Stdout = true
			haveOutputs = true
		case "-o", "--text":
			if err := needItems(); err != nil {
				return nil, err
			}
			v, err := value()
			if err != nil {
				return nil, err
			}
			current.Out.TextPaths = append(current.Out.TextPaths, v)
			haveOutputs = true
		case "-t", "--page-text":
			if err := needItems(); err != nil {
				return nil, err
			}
			v, err := value()
			if err != nil {
				return nil, err
			}
			current.Out.PageTextPatterns = append(current.Out.PageTextPatterns, v)
			haveOutputs = true
		case "-p", "--positions":
			if err := needItems(); err != nil {
				return nil, err
			}
			v, err := value()
			if err != nil {
				return nil, err
			}
			current.Out.PositionPatterns = append(current.Out.PositionPatterns, v)
			haveOutputs = true
		case "-s", "--silent":
			opts.Silent = true
		case "--verbose":
			opts.Verbose = true
		case "--no-color":
			opts.NoColor = true
		case "--config":
			v, err := value()
			if err != nil {
				return nil, err
			}
			opts.Config = v
		case "-h", "--help":
			opts.Help = true
		case "--version":
			opts.Version = true
		default:
			return nil, domain.ValidationError(fmt.Sprintf("unknown flag: %s", arg), nil)
		}
	}
	seal()
	return opts, nil
}
