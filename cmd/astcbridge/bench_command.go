package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arm-software/astcenc-bridge/astc"
	"github.com/arm-software/astcenc-bridge/astc/assembly"
	"github.com/arm-software/astcenc-bridge/astc/bridge"
	"github.com/arm-software/astcenc-bridge/internal/config"
)

type benchFlags struct {
	encodeFlags
	iters       int
	window      int
	checksumOpt string
	cpuprofile  string
}

func newBenchCommand(ctx *commandContext) *cobra.Command {
	var flags benchFlags

	cmd := &cobra.Command{
		Use:   "bench [flags] <image>",
		Short: "Encode one image repeatedly and report throughput",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}
			if flags.iters <= 0 {
				return errors.New("--iters must be > 0")
			}
			window := flags.window
			if window <= 0 {
				window = cfg.Pool.Workers
			}
			logger, err := ctx.logger(&cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			src := args[0]
			width, height, _, err := probeImage(src)
			if err != nil {
				return err
			}

			if flags.cpuprofile != "" {
				f, err := os.Create(flags.cpuprofile)
				if err != nil {
					return err
				}
				if err := pprof.StartCPUProfile(f); err != nil {
					_ = f.Close()
					return err
				}
				defer func() {
					pprof.StopCPUProfile()
					_ = f.Close()
				}()
			}

			rt, err := ctx.startRuntime(&cfg, logger)
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}

			var sum hash.Hash64
			if strings.ToLower(strings.TrimSpace(flags.checksumOpt)) != "none" {
				sum = fnv.New64a()
			}
			start := time.Now()
			stats := runBench(runCtx, rt, &cfg, src, assembly.Target{
				Width:     width,
				Height:    height,
				Footprint: astc.Square(cfg.Encode.BlockSize),
			}, flags.iters, window, sum)
			dur := time.Since(start)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := rt.close(shutdownCtx); err != nil {
				return err
			}

			checksum := "none"
			if sum != nil {
				checksum = hex.EncodeToString(sum.Sum(nil))
			}
			texels := float64(width) * float64(height) * float64(stats.ok)
			fmt.Fprintf(cmd.OutOrStdout(), "RESULT binding=%s block=%s quality=%s size=%dx%d iters=%d ok=%d failed=%d seconds=%.6f mpix/s=%.3f checksum=%s\n",
				rt.binding,
				astc.Square(cfg.Encode.BlockSize),
				cfg.Quality(),
				width, height,
				flags.iters,
				stats.ok,
				stats.failed,
				dur.Seconds(),
				texels/dur.Seconds()/1e6,
				checksum,
			)
			if stats.firstErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "first failure: %v\n", stats.firstErr)
				return errRequestsFailed
			}
			return nil
		},
	}

	def := config.Default()
	cmd.Flags().IntVarP(&flags.block, "block", "b", def.Encode.BlockSize, "Square block size (4, 5, 6, 8, 10, 12)")
	cmd.Flags().StringVarP(&flags.quality, "quality", "q", def.Encode.Quality, "Quality preset: fastest|fast|medium|thorough|verythorough|exhaustive")
	cmd.Flags().IntVar(&flags.channels, "channels", def.Encode.Channels, "Source channels to encode (1-4)")
	cmd.Flags().IntVarP(&flags.threads, "threads", "j", def.Encode.Threads, "Encoder threads per request")
	cmd.Flags().StringVar(&flags.binding, "binding", def.Binding.Kind, "Encoder binding: auto|native|exec")
	cmd.Flags().IntVar(&flags.iters, "iters", 20, "Iterations")
	cmd.Flags().IntVar(&flags.window, "window", 0, "Requests in flight at once (default pool.workers)")
	cmd.Flags().StringVar(&flags.checksumOpt, "checksum", "fnv", "Checksum over encoded payloads: fnv|none")
	cmd.Flags().StringVar(&flags.cpuprofile, "cpuprofile", "", "Optional CPU profile output path")
	return cmd
}

type benchStats struct {
	ok       int
	failed   int
	firstErr error
}

// checksumConsumer folds each payload into a running hash instead of keeping
// it.
type checksumConsumer struct {
	sum hash.Hash64
}

func (c checksumConsumer) CreateTexture(_, _ int32, _ astc.Format, raw []byte, length int32) (int, error) {
	if int(length) != len(raw) {
		return 0, fmt.Errorf("length %d for %d bytes", length, len(raw))
	}
	if c.sum != nil {
		_, _ = c.sum.Write(raw)
	}
	return len(raw), nil
}

// runBench keeps up to window requests in flight and assembles them in
// submission order, so the checksum is stable across runs.
func runBench(ctx context.Context, rt *bridgeRuntime, cfg *config.Config, src string, target assembly.Target, iters, window int, sum hash.Hash64) benchStats {
	var stats benchStats
	pipe := assembly.NewPipeline[int](checksumConsumer{sum: sum}, assembly.WithLogger(rt.logger))

	inflight := make([]*bridge.PendingEncode, 0, window)
	drain := func() {
		for _, p := range inflight {
			if _, err := pipe.Assemble(ctx, p, target); err != nil {
				stats.failed++
				if stats.firstErr == nil {
					stats.firstErr = err
				}
				continue
			}
			stats.ok++
		}
		inflight = inflight[:0]
	}
	for i := 0; i < iters; i++ {
		inflight = append(inflight, rt.dispatcher.Submit(cfg.Request(src)))
		if len(inflight) == window {
			drain()
		}
	}
	drain()
	return stats
}
