package main

import (
	"fmt"

	"github.com/andresmejia3/pixelvault/pkg/imageio"
	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <image> [key]",
	Short: "Inspect a stego image and display its header",
	Long:  `Reads the header of a steganographic image to report the embedding mode and payload size without extracting the payload.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath := args[0]

		buf, _, err := imageio.Load(imagePath)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", imagePath, err)
		}
		key, err := loadKey(optionalArg(args, 1))
		if err != nil {
			return err
		}
		dec, err := stego.NewDecoder(engineConfig(nil))
		if err != nil {
			return err
		}
		info, err := dec.Inspect(buf, key)
		if err != nil {
			return fmt.Errorf("failed to get info from %s: %w", imagePath, err)
		}

		fmt.Println("Stego Header Information:")
		fmt.Println("-------------------------")
		fmt.Printf("Payload Found:    %t\n", info.Found)
		fmt.Printf("Mode Flag:        %s\n", info.Mode)
		fmt.Printf("Usable Bytes:     %d\n", info.UsableBytes)
		fmt.Printf("Capacity:         %s\n", humanize.IBytes(uint64(info.MaxPayload)))
		if !info.Found {
			return nil
		}
		fmt.Printf("Encrypted:        %t\n", info.Encrypted)
		fmt.Printf("Payload Size:     %d bytes\n", info.Length)
		if info.Extension != "" {
			fmt.Printf("Extension:        %s\n", info.Extension)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
