package main

import (
	"flag"
	"log"
	"os"
	"time"
)

func main() {
	var config string
	var delay time.Duration
	var verbose bool

	flag.StringVar(&config, "c", "", "configuration .toml file")
	flag.DurationVar(&delay, "d", 0, "delay between instructions (e.g. 10ms)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [options] <program.uc>", os.Args[0])
	}
	path := flag.Arg(0)

	cfg := DefaultConfig()
	if len(config) != 0 {
		err := cfg.Load(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}
	if delay > 0 {
		cfg.CycleDelayMS = int(delay / time.Millisecond)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	err = run(cfg, verbose, string(source))
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
}
