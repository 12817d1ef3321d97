// Command carpark polls parking slot sensors, drives the lot indicators
// and barrier, and publishes occupancy events to MQTT.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sweeney/carpark-controller/internal/config"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "carpark",
	Short: "Parking lot occupancy controller",
	Long:  "carpark polls binary occupancy sensors, maintains the lot occupancy model, drives the indicator LEDs and barrier, and exposes status over HTTP and MQTT.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the control loop daemon",
	RunE:  runServe,
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Read all sensors once and print their state",
	RunE:  runState,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to lot config file (YAML); defaults apply when omitted")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Logger().Level(level)
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}
