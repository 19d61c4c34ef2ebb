package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"rp-optimizer/internal/config"
	"rp-optimizer/internal/logger"
	"rp-optimizer/internal/optimizer"
	"rp-optimizer/internal/resource"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Also log to this file (rotated)")
	dryRun := flag.Bool("dry-run", false, "Pack and report without writing anything")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <inputPack> <outputPack>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	input, output := flag.Arg(0), flag.Arg(1)

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Workers:  *workers,
		LogLevel: *logLevel,
		LogFile:  *logFile,
		DryRun:   *dryRun,
	})

	logger.Init(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	startAll := time.Now()
	var deleteDur, copyDur, optimizeDur time.Duration

	if !cfg.DryRun {
		logger.Sugar.Info("Copying pack...")
		if _, err := os.Stat(output); err == nil {
			t0 := time.Now()
			if err := os.RemoveAll(output); err != nil {
				logger.Sugar.Errorf("Removing old output: %v", err)
				os.Exit(1)
			}
			deleteDur = time.Since(t0)
		}

		t1 := time.Now()
		if err := copyTree(input, output); err != nil {
			logger.Sugar.Errorf("Copying pack: %v", err)
			os.Exit(1)
		}
		copyDur = time.Since(t1)
	}

	pack := resource.Open(input)
	opt := optimizer.New(pack, output, cfg)

	t2 := time.Now()
	summary, err := opt.Run()
	optimizeDur = time.Since(t2)

	logger.Sugar.Info("Timings:")
	if deleteDur > 0 {
		logger.Sugar.Infof("  delete:   %dms", deleteDur.Milliseconds())
	} else {
		logger.Sugar.Info("  delete:   skipped")
	}
	logger.Sugar.Infof("  copy:     %dms", copyDur.Milliseconds())
	logger.Sugar.Infof("  optimize: %dms", optimizeDur.Milliseconds())
	logger.Sugar.Infof("  total:    %dms", time.Since(startAll).Milliseconds())

	if err != nil {
		logger.Sugar.Errorf("Optimization failed: %v", err)
		os.Exit(1)
	}

	failed := 0
	for _, g := range summary.Groups {
		if g.Err != nil {
			failed++
		}
	}
	logger.Sugar.Infof("Optimized %d of %d textures (%d groups failed)",
		summary.Optimized, len(summary.Groups), failed)
	logger.Sugar.Infof("Output at: %s", output)
}

// copyTree copies the directory tree at src to dst, preserving layout.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
