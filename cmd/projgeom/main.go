package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/lukaszgryglicki/projgeom/internal/jobs"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		jobs.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	jobs.OutPath = os.Getenv("OUT")
	jobs.Pretty = os.Getenv("PRETTY") != ""
	jobs.AlwaysBVH = os.Getenv("ALWAYS_BVH") != ""
	jobs.NeverBVH = os.Getenv("NEVER_BVH") != ""
	if w := os.Getenv("WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			fmt.Printf("Error: WORKERS=%q: %v\n", w, err)
			os.Exit(1)
		}
		jobs.Workers = n
	}
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "jobs/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := jobs.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
