package main

import (
	"os"

	"github.com/bulbd/bulbd/cmd"
	"github.com/jessevdk/go-flags"
)

func main() {
	options := &cmd.Options{}
	parser := flags.NewParser(options, flags.Default)
	if err := cmd.Register(parser, options); err != nil {
		panic(err)
	}

	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && flags.ErrHelp == fe.Type {
			os.Exit(0)
		}

		os.Exit(1)
	}
}
