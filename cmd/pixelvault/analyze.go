package main

import (
	"fmt"

	"github.com/andresmejia3/pixelvault/pkg/imageio"
	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	analyzeFlags struct {
		Original string
		Stego    string
		Heatmap  string
	}
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the difference between an original and a stego image",
	Long:  `Calculates PSNR (Peak Signal-to-Noise Ratio) and generates a heatmap image highlighting modified pixels.`,
	Run: func(cmd *cobra.Command, args []string) {
		if analyzeFlags.Heatmap == "" {
			analyzeFlags.Heatmap = "heatmap.png"
		}

		orig, _, err := imageio.Load(analyzeFlags.Original)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load original image")
		}
		modified, _, err := imageio.Load(analyzeFlags.Stego)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load stego image")
		}

		result, err := stego.Compare(orig, modified)
		if err != nil {
			log.Fatal().Err(err).Msg("Analysis failed")
		}
		heatmap, err := imageio.Heatmap(orig, modified)
		if err != nil {
			log.Fatal().Err(err).Msg("Analysis failed")
		}
		if err := ensureDir(analyzeFlags.Heatmap); err != nil {
			log.Fatal().Err(err).Msg("Failed to create heatmap directory")
		}
		if err := imageio.SaveImage(analyzeFlags.Heatmap, heatmap); err != nil {
			log.Fatal().Err(err).Msg("Failed to save heatmap")
		}

		fmt.Printf("Analysis Complete:\n")
		fmt.Printf("------------------\n")
		fmt.Printf("MSE (Mean Squared Error):       %.4f\n", result.MSE)
		fmt.Printf("PSNR (Peak Signal-to-Noise):    %.2f dB\n", result.PSNR)
		fmt.Printf("Changed channel bytes:          %d\n", result.ChangedBytes)
		fmt.Printf("Alpha preserved:                %t\n", result.AlphaPreserved)
		fmt.Printf("Heatmap saved to:               %s\n", analyzeFlags.Heatmap)
		fmt.Printf("\nInterpretation:\n")
		fmt.Printf(" > 30dB: Good quality (hard to detect visually)\n")
		fmt.Printf(" > 40dB: Excellent quality\n")
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.Original, "original", "o", "", "Path to original image (required)")
	analyzeCmd.MarkFlagRequired("original")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.Stego, "stego", "s", "", "Path to stego image (required)")
	analyzeCmd.MarkFlagRequired("stego")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.Heatmap, "heatmap", "d", "heatmap.png", "Output path for the difference heatmap image")
}
