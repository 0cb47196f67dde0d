package main

import (
	"flag"
	"fmt"
	"fortsync/pkg/fortlog"
	"log"
	"time"
)

func main() {
	if err := mainErr(); err != nil {
		log.Print(err)
	}
}

type Config struct {
	rate       float64
	maxSamples int
	maxSpread  float64
	ep         string
	mode       string
	network    string
	usePoll    bool
	streamTTL  time.Duration
	start      uint
	user       string
}

func mainErr() error {
	conf := Config{
		network: "udp",
	}
	var (
		serve      bool
		configPath string
	)
	flag.BoolVar(&serve, "serve", false, "receive relayed device frames (default: simulate a device and send frames to -ep)")
	flag.StringVar(&configPath, "config", "", "YAML file with settings; flags given on the command line take precedence")
	flag.Float64Var(&conf.rate, "rate", 1000.0/fortlog.DefaultSampleRate, "simulated frame interval (ms)")
	flag.IntVar(&conf.maxSamples, "max-samples", 1000, "maximum number of residual samples per stream")
	flag.StringVar(&conf.ep, "ep", ":12520", "endpoint to send to or local endpoint in server mode")
	flag.StringVar(&conf.mode, "mode", "record", "output mode: record, raw, sync or fusion")
	flag.Float64Var(&conf.maxSpread, "max-spread", 3, "max spread of residuals to be considered valid (after max-samples), as a factor of the standard deviation")
	flag.BoolVar(&conf.usePoll, "wait-tx-timestamps", false, "use ppoll to wait for TX timestamps")
	flag.DurationVar(&conf.streamTTL, "stream-ttl", 5*time.Second, "silence after which a device stream is dropped and restarts from scratch")
	flag.UintVar(&conf.start, "start", 0xFFFFFFFF-10_000_000, "initial value of the simulated 32-bit device counter (µs)")
	flag.StringVar(&conf.user, "user", "walker", "user name used for fusion channels")

	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if configPath != "" {
		set := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) {
			set[f.Name] = true
		})
		fc, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if err = fc.apply(&conf, set); err != nil {
			return err
		}
	}

	if err := checkStart(conf.start); err != nil {
		return fmt.Errorf("-start: %w", err)
	}

	if serve {
		return Server(conf)
	}

	return Client(conf)
}
