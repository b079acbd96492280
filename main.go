package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KEniuniu/DeepRL/agent/a2c"
	"github.com/KEniuniu/DeepRL/environment/envconfig"
	"github.com/KEniuniu/DeepRL/experiment/reporter"
	"github.com/KEniuniu/DeepRL/experiment/tracker"
)

var seed = flag.Uint64("seed", 192382, "seed of the environment and agent")
var configPath = flag.String("config", "", "path to a JSON agent "+
	"configuration file; unset fields keep their defaults")

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"usage: %s [flags] environment monitorDir\n\n"+
			"Trains an A2C agent on the named environment (Cartpole or "+
			"Pendulum),\nwriting per-iteration summaries to monitorDir.\n\n",
		os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	envName := flag.Arg(0)
	monitorDir := flag.Arg(1)

	if err := os.MkdirAll(monitorDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "could not create monitor directory: %v\n",
			err)
		os.Exit(1)
	}

	// Zero-valued Config fields, including those left unset by a
	// configuration file, are filled with their defaults by a2c.New
	config := a2c.Config{}
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read configuration file: %v\n",
				err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &config); err != nil {
			fmt.Fprintf(os.Stderr, "could not parse configuration file: "+
				"%v\n", err)
			os.Exit(1)
		}
	}

	gamma := config.Gamma
	if gamma == 0 {
		gamma = a2c.DefaultConfig().Gamma
	}

	envConf := envconfig.NewConfig(envconfig.EnvName(envName), 0, gamma)
	env, _, err := envConf.Create(*seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create environment: %v\n", err)
		os.Exit(1)
	}

	agent, err := a2c.New(env, config, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create agent: %v\n", err)
		os.Exit(1)
	}

	summaries, err := tracker.NewSummaries(monitorDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create summary tracker: %v\n", err)
		os.Exit(1)
	}
	report := reporter.New(os.Stdout)

	// An interrupt stops learning cleanly between iterations
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	err = agent.Learn(ctx, summaries, report)
	if errors.Is(err, context.Canceled) {
		fmt.Println("learning interrupted")
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "could not finish learning: %v\n", err)
		os.Exit(1)
	}

	if err := summaries.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "could not save summaries: %v\n", err)
		os.Exit(1)
	}
}
