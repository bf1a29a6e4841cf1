package main

import (
	"fmt"

	"github.com/crimson-sun/orderflow/internal/config"
	"github.com/crimson-sun/orderflow/internal/output"
	"github.com/crimson-sun/orderflow/internal/output/file"
	"github.com/crimson-sun/orderflow/internal/output/multi"
	"github.com/crimson-sun/orderflow/internal/output/stdout"
	"github.com/crimson-sun/orderflow/internal/output/webhook"
)

// openRejects builds the configured reject sinks behind one fan-out.
func openRejects(cfg config.OutputConfig) (output.Output, error) {
	verbosity, err := output.ParseVerbosity(cfg.Verbosity)
	if err != nil {
		return nil, err
	}

	var outs []output.Output
	for _, sink := range cfg.Rejects {
		switch sink {
		case "stdout":
			outs = append(outs, stdout.New(verbosity, cfg.Pretty))
		case "file":
			f, err := file.New(cfg.RejectsFile, verbosity, file.WithMaxSize(cfg.MaxBytes))
			if err != nil {
				multi.New(outs...).Close()
				return nil, err
			}
			outs = append(outs, f)
		case "webhook":
			outs = append(outs, webhook.New(cfg.WebhookURL, verbosity))
		case "none", "":
		default:
			multi.New(outs...).Close()
			return nil, fmt.Errorf("unknown reject sink %q", sink)
		}
	}
	return multi.New(outs...), nil
}
