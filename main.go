package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerline/ledgerline/internal/csvimport"
	"github.com/ledgerline/ledgerline/internal/server"
	"github.com/ledgerline/ledgerline/pkg/config"
)

type Runner interface {
	Run() error
}

func main() {
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.json", "secrets file")
	help := flag.Bool("help", false, "show command help")

	flag.Parse()

	if *help {
		fmt.Println("ledgerline personal finance tracker")
		fmt.Println("ledgerline [options] task")
		fmt.Println("tasks: serve, import <file.csv>")
		flag.PrintDefaults()
		return
	}

	err := config.ReadConfig(*configFile, *secretsFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("No task passed in")
		os.Exit(1)
	}

	var runner Runner

	switch args[0] {
	case "serve":
		runner = server.NewServeRunner(log)
	case "import":
		if len(args) < 2 {
			fmt.Println("import requires a csv file argument")
			os.Exit(1)
		}

		runner = csvimport.NewImportCSVRunner(args[1], log)
	default:
		fmt.Printf("Unknown task %q\n", args[0])
		os.Exit(1)
	}

	if err := runner.Run(); err != nil {
		log.Error().Err(err).Msg("Task failed")
		os.Exit(1)
	}
}
