package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/oh-sh/oh/pkg/cache"
	"github.com/oh-sh/oh/pkg/oh"
)

const version = "1.1.0"

func main() {
	cfg, err := oh.LoadDefaults()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	var (
		input      string
		output     string
		fontWidth  float64
		fontHeight float64
		height     int
		debug      bool
		clearCache bool
	)

	rootCmd := &cobra.Command{
		Use:   "oh [flags]",
		Short: "Convert ANSI terminal output to SVG",
		Long: `Oh renders a block of ANSI-colored terminal output as an SVG image with
selectable text on a fixed character grid. Parsed lines and rendered
fragments are cached per user, so re-rendering mostly unchanged input is
cheap.

Supported fonts: Consolas, Monaco, Courier New (system fonts);
Inconsolata, JetBrains Mono, Source Code Pro, Fira Code, Roboto Mono
(Google Fonts, imported automatically).`,
		Example: `  # Render the colored output of a command
  ls --color=always -l | oh > listing.svg

  # Pick a font and size, write to a file
  git diff --color | oh --font "JetBrains Mono" --font-size 16 -o diff.svg

  # Wrap long lines at 60 columns
  oh --font Inconsolata --width 60 --wrap -i terminal-output.txt -o styled.svg`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.TimeOnly,
			}))
			slog.SetDefault(logger)

			store, err := cache.Open(cache.DefaultDir(), logger)
			if err != nil {
				return err
			}

			if clearCache {
				if err := store.Clear(); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
				fmt.Fprintln(os.Stderr, "Cache cleared")
				return nil
			}

			if fontWidth != 0 {
				cfg.FontWidth = int64(math.Round(fontWidth * 100))
			}
			if fontHeight != 0 {
				cfg.FontHeight = int64(math.Round(fontHeight * 100))
			}
			cfg.Height = height
			cfg.HeightSet = cmd.Flags().Changed("height")
			if err := cfg.Validate(); err != nil {
				return err
			}

			in := io.Reader(os.Stdin)
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("input file %s: %w", input, err)
				}
				defer f.Close()
				in = f
			}

			doc, err := oh.Run(cfg, in, store, logger)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("write output file %s: %w", output, err)
				}
				logger.Info("wrote document", "path", output)
			} else {
				if _, err := io.WriteString(os.Stdout, doc); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			printStats(store.Stats())
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "Input file (default: stdin)")
	flags.StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	flags.StringVar(&cfg.FontFamily, "font", cfg.FontFamily, "Font family")
	flags.IntVar(&cfg.FontSize, "font-size", cfg.FontSize, "Font size in pixels (8-72)")
	flags.Float64Var(&fontWidth, "font-width", 0, "Character width in pixels (default: 0.6 * font-size)")
	flags.Float64Var(&fontHeight, "font-height", 0, "Line height in pixels (default: 1.2 * font-size)")
	flags.IntVar(&cfg.FontWeight, "font-weight", cfg.FontWeight, "Font weight (100-900)")
	flags.IntVar(&cfg.Width, "width", cfg.Width, "Grid width in characters")
	flags.IntVar(&height, "height", 0, "Grid height in lines (default: input line count)")
	flags.BoolVar(&cfg.Wrap, "wrap", cfg.Wrap, "Wrap lines at width instead of clipping")
	flags.IntVar(&cfg.TabSize, "tab-size", cfg.TabSize, "Tab stop size (1-16)")
	flags.IntVar(&cfg.AutoWidthCap, "auto-width-cap", cfg.AutoWidthCap, "Ceiling for auto-detected grid width")
	flags.BoolVar(&debug, "debug", false, "Enable debug output")
	flags.BoolVar(&clearCache, "clear-cache", false, "Clear cached lines and fragments, then exit")

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion(version),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

// printStats writes the end-of-run cache summary to stderr.
func printStats(stats cache.Stats) {
	label := lipgloss.NewStyle().Bold(true)
	hits := lipgloss.NewStyle().Foreground(lipgloss.Color("35"))

	fmt.Fprintf(os.Stderr, "%s lines %s, fragments %s\n",
		label.Render("Cache statistics:"),
		hits.Render(fmt.Sprintf("%d/%d hits", stats.LineHits, stats.LineHits+stats.LineMisses)),
		hits.Render(fmt.Sprintf("%d/%d hits", stats.FragmentHits, stats.FragmentHits+stats.FragmentMisses)))
}
