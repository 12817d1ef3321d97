package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweeney/carpark-controller/internal/gpio"
)

// runState reads every input line once and prints the raw logical levels.
// Useful when wiring up a new deployment.
func runState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	io, err := gpio.NewRealIO(gpioParams(cfg))
	if err != nil {
		return err
	}
	defer io.Close()

	slots, button, err := io.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}

	for i, occupied := range slots {
		fmt.Printf("%s: %s\n", cfg.Slots[i].Name, occupancyString(occupied))
	}
	fmt.Printf("button: %s\n", pressedString(button))
	return nil
}

func occupancyString(occupied bool) string {
	if occupied {
		return "OCCUPIED"
	}
	return "VACANT"
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
