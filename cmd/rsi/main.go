// Command rsi creates, converts and inspects RSI sprite packages.
//
//	rsi [flags] from_dmi <input.dmi|url> <output.rsi>
//	rsi [flags] new <output.rsi> <width>x<height>
//	rsi [flags] diff <source.png> <target.png> <output.png>
//	rsi [flags] split <input.rsi> <outdir>
//	rsi [flags] show <input.rsi> [state]
//	rsi [flags] gif <input.rsi> <state> <dir> <output.gif>
//	rsi [flags] info <input.rsi>
//	rsi [flags] config
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-rsi/config"
)

var (
	scale = flag.Int("scale", 1, "Upscaling factor of gif output")
)

func main() {
	cf := config.RegisterFlags(flag.CommandLine)
	flag.Usage = usage
	flagutil.Parse()
	flag.Set("logtostderr", "true")
	defer glog.Flush()

	cfg, err := config.Load(cf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	c := &cli{cfg: cfg, out: os.Stdout, scale: *scale}
	err = c.run(context.Background(), flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "rsi: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: rsi [flags] <command> args...

commands:
  from_dmi <input.dmi|url> <output.rsi>   convert a BYOND DMI file
  new <output.rsi> <width>x<height>       create an empty package
  diff <source.png> <target.png> <out>    pixel diff of two sheets
  split <input.rsi> <outdir>              split a package into several
  show <input.rsi> [state]                print sheets on the terminal
  gif <input.rsi> <state> <dir> <out>     write an animated preview
  info <input.rsi>                        summarize a package
  config                                  print the effective configuration

flags:
`)
	flag.PrintDefaults()
}
