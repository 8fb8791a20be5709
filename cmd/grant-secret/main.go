package main

import (
	"flag"
	"os"

	"github.com/squadhq/squadron/internal/platform/config"
	"github.com/squadhq/squadron/internal/tools/grantsecret"
)

func main() {
	cfg, err := grantsecret.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := grantsecret.Run(cfg, os.Stdout, nil); err != nil {
		config.Exitf("generate secret: %v", err)
	}
}
