package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arm-software/astcenc-bridge/astc"
	"github.com/arm-software/astcenc-bridge/astc/assembly"
	"github.com/arm-software/astcenc-bridge/astc/bridge"
	"github.com/arm-software/astcenc-bridge/internal/config"
	"github.com/arm-software/astcenc-bridge/internal/logging"
)

type encodeFlags struct {
	block    int
	quality  string
	channels int
	threads  int
	output   string
	binding  string
}

func (f encodeFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("block") {
		cfg.Encode.BlockSize = f.block
	}
	if flags.Changed("quality") {
		cfg.Encode.Quality = strings.ToLower(strings.TrimSpace(f.quality))
	}
	if flags.Changed("channels") {
		cfg.Encode.Channels = f.channels
	}
	if flags.Changed("threads") {
		cfg.Encode.Threads = f.threads
	}
	if flags.Changed("binding") {
		cfg.Binding.Kind = strings.ToLower(strings.TrimSpace(f.binding))
	}
	if flags.Changed("output") {
		dir, err := filepath.Abs(f.output)
		if err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}
		cfg.Output.Dir = dir
	}
	return cfg.Validate()
}

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var flags encodeFlags

	cmd := &cobra.Command{
		Use:   "encode [flags] <image>...",
		Short: "Encode images to .astc files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			logger, err := ctx.logger(&cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			rt, err := ctx.startRuntime(&cfg, logger)
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			jobs := runEncode(runCtx, rt, &cfg, args)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := rt.close(shutdownCtx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderEncodeSummary(jobs))
			for _, j := range jobs {
				if j.err != nil {
					return errRequestsFailed
				}
			}
			return nil
		},
	}

	def := config.Default()
	cmd.Flags().IntVarP(&flags.block, "block", "b", def.Encode.BlockSize, "Square block size (4, 5, 6, 8, 10, 12)")
	cmd.Flags().StringVarP(&flags.quality, "quality", "q", def.Encode.Quality, "Quality preset: fastest|fast|medium|thorough|verythorough|exhaustive")
	cmd.Flags().IntVar(&flags.channels, "channels", def.Encode.Channels, "Source channels to encode (1-4)")
	cmd.Flags().IntVarP(&flags.threads, "threads", "j", def.Encode.Threads, "Encoder threads per request")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&flags.binding, "binding", def.Binding.Kind, "Encoder binding: auto|native|exec")
	return cmd
}

type encodeJob struct {
	src     string
	out     string
	width   int32
	height  int32
	format  string
	pending *bridge.PendingEncode
	written int
	err     error
}

// runEncode submits every image before awaiting any of them, so the encodes
// overlap on the pool. Results are collected in argument order.
func runEncode(ctx context.Context, rt *bridgeRuntime, cfg *config.Config, sources []string) []*encodeJob {
	jobs := make([]*encodeJob, 0, len(sources))
	names := make(map[string]bool)
	for _, src := range sources {
		j := &encodeJob{src: src, out: outputPath(cfg.Output.Dir, src, names)}
		jobs = append(jobs, j)

		j.width, j.height, j.format, j.err = probeImage(src)
		if j.err != nil {
			rt.logger.Error("probe failed", logging.FieldSource, src, logging.FieldError, j.err)
			continue
		}
		j.pending = rt.dispatcher.Submit(cfg.Request(src))
	}

	fp := astc.Square(cfg.Encode.BlockSize)
	for _, j := range jobs {
		if j.pending == nil {
			continue
		}
		pipe := assembly.NewPipeline[string](assembly.FileConsumer{Path: j.out}, assembly.WithLogger(rt.logger))
		var path string
		path, j.err = pipe.Assemble(ctx, j.pending, assembly.Target{Width: j.width, Height: j.height, Footprint: fp})
		if j.err == nil {
			if info, err := os.Stat(path); err == nil {
				j.written = int(info.Size())
			}
		}
	}
	return jobs
}

// outputPath names the .astc file for src, suffixing -N until the name is not
// in used.
func outputPath(dir, src string, used map[string]bool) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := base
	for n := 1; used[name]; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}
	used[name] = true
	return filepath.Join(dir, name+".astc")
}

func renderEncodeSummary(jobs []*encodeJob) string {
	headers := []string{"Source", "Size", "Outcome", "Bytes", "Output"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft}
	rows := make([][]string, 0, len(jobs))
	var ok, total int
	for _, j := range jobs {
		size := ""
		if j.width > 0 {
			size = fmt.Sprintf("%dx%d", j.width, j.height)
		}
		if j.err != nil {
			rows = append(rows, []string{j.src, size, outcomeLabel(j.err), "", j.err.Error()})
			continue
		}
		ok++
		total += j.written
		rows = append(rows, []string{j.src, size, "ok", formatBytes(j.written), j.out})
	}
	footer := []string{fmt.Sprintf("%d/%d encoded", ok, len(jobs)), "", "", formatBytes(total), ""}
	return renderTable(headers, rows, aligns, footer)
}

func outcomeLabel(err error) string {
	kind := bridge.KindOf(err)
	if kind == bridge.KindOther {
		return "error"
	}
	return kind.String()
}
