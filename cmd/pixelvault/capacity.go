package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/andresmejia3/pixelvault/pkg/imageio"
	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity <image>",
	Short: "Calculate the storage capacity of an image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		buf, format, err := imageio.Load(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load image")
		}
		one, two := stego.Capacity(buf)

		fmt.Printf("Image:        %dx%d, %d channels (%s)\n", buf.Width, buf.Height, buf.Channels, format)
		fmt.Printf("Usable bytes: %d\n\n", buf.UsableBytes())

		wtr := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(wtr, "Mode\tBits/Channel\tCapacity (Bytes)\tCapacity")
		fmt.Fprintln(wtr, "----\t------------\t----------------\t--------")
		printCap(wtr, stego.ModeOne, one)
		printCap(wtr, stego.ModeTwo, two)
		wtr.Flush()
	},
}

func printCap(wtr *tabwriter.Writer, mode stego.Mode, bytes int) {
	fmt.Fprintf(wtr, "%s\t%d\t%d\t%s\n", mode, mode, bytes, humanize.IBytes(uint64(bytes)))
}

func init() {
	rootCmd.AddCommand(capacityCmd)
}
