package main

import (
	"github.com/goliatone/go-authform/cmd/horizon/config"
	"github.com/jessevdk/go-flags"
)

// Options override values loaded from config/app.json
type Options struct {
	Addr  string `short:"a" long:"addr" description:"http listen address"`
	DSN   string `short:"d" long:"dsn" description:"sqlite data source name"`
	Debug bool   `long:"debug" description:"dump config and payloads, reload templates"`
}

func ParseOptions(args []string) (*Options, error) {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return nil, err
	}
	return options, nil
}

func (o *Options) Apply(cfg *config.BaseConfig) {
	if o == nil || cfg == nil {
		return
	}
	if o.Addr != "" {
		cfg.App.Addr = o.Addr
	}
	if o.DSN != "" {
		cfg.Persistence.DSN = o.DSN
	}
	if o.Debug {
		cfg.App.Debug = true
	}
}
