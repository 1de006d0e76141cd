package main

import (
	"os"

	"github.com/klauspost/cpuid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Global flags
var (
	verbose bool

	engineFlags struct {
		Marker  string
		Workers int
		Legacy  bool
	}

	// The original single-command surface.
	rootFlags struct {
		Insert   bool
		Retrieve bool
		Key      string
	}
)

var rootCmd = &cobra.Command{
	Use:   "pixelvault",
	Short: "Hide files in images",
	Long: `Hides a file in the least significant bits of an image, optionally encrypted with AES.

  pixelvault --insert <image> <file> [key]
  pixelvault --retrieve <image> [key]
  pixelvault --key <filename>`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		if err := checkEngineFlags(); err != nil {
			log.Fatal().Msg(err.Error())
		}
		log.Debug().
			Str("cpu", cpuid.CPU.BrandName).
			Int("cores", cpuid.CPU.PhysicalCores).
			Int("threads", cpuid.CPU.LogicalCores).
			Bool("aesni", cpuid.CPU.Supports(cpuid.AESNI)).
			Msg("Host")
	},
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		switch {
		case rootFlags.Insert:
			if len(args) < 2 || len(args) > 3 {
				log.Fatal().Msg("usage: --insert <image> <file> [key]")
			}
			err = runInsert(args[0], args[1], optionalArg(args, 2))
		case rootFlags.Retrieve:
			if len(args) < 1 || len(args) > 2 {
				log.Fatal().Msg("usage: --retrieve <image> [key]")
			}
			err = runRetrieve(args[0], optionalArg(args, 1))
		case rootFlags.Key != "":
			err = runKey(rootFlags.Key)
		default:
			cmd.Help()
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Operation failed")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&engineFlags.Marker, "marker", "MSGSTART", "8-byte marker identifying a payload")
	rootCmd.PersistentFlags().IntVarP(&engineFlags.Workers, "workers", "w", 0, "Number of workers to use for concurrency (default: number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&engineFlags.Legacy, "legacy", false, "Store the file extension in the image (unencrypted only)")

	rootCmd.Flags().BoolVarP(&rootFlags.Insert, "insert", "i", false, "Insert <file> into <image>")
	rootCmd.Flags().BoolVarP(&rootFlags.Retrieve, "retrieve", "r", false, "Retrieve the file hidden in <image>")
	rootCmd.Flags().StringVarP(&rootFlags.Key, "key", "k", "", "Generate a key file called <filename> under keys/")
	rootCmd.MarkFlagsMutuallyExclusive("insert", "retrieve", "key")

	addEnvelopeFlags(rootCmd)
}
