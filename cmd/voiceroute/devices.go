package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voiceroute/voiceroute-go/audio"
)

func devicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the available capture and playback devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, dir := range []audio.Direction{audio.Capture, audio.Playback} {
				devices, err := audio.ListDevices(dir)
				if err != nil {
					return fmt.Errorf("listing %s devices: %w", dir, err)
				}
				fmt.Printf("%s devices:\n", dir)
				for _, d := range devices {
					line := fmt.Sprintf("  %d: %s", d.Index, d.Name)
					if d.ID != "" && d.ID != d.Name {
						line = fmt.Sprintf("%s, %s", line, d.ID)
					}
					if d.Default {
						line += " (default)"
					}
					fmt.Println(line)
				}
			}
			return nil
		},
	}
}
