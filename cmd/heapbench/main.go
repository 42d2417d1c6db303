// heapbench drives the allocator through mixed allocate/release workloads
// and reports wall time and throughput. It exercises the engine from the
// outside only; nothing here is part of the allocator contract.
package main

import (
	"math/rand"
	"os"
	"time"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/joshuapare/heapkit/alloc"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	app := cli.NewApp()
	app.Name = "heapbench"
	app.Usage = "workload driver for the heapkit allocator"
	app.Version = "0.1.0"

	churnFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "iterations,i",
			Usage: "number of coin-flip steps",
			Value: 1000000,
		},
		cli.IntFlag{
			Name:  "max-size,m",
			Usage: "exclusive upper bound on request sizes",
			Value: 0x10000,
		},
		cli.Int64Flag{
			Name:  "seed,s",
			Usage: "workload seed (0 means time-based)",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:    "churn",
			Aliases: []string{"c"},
			Usage:   "coin-flip allocate/release workload, then a full drain",
			Flags:   churnFlags,
			Action: func(c *cli.Context) error {
				return churn(c.Int("iterations"), c.Int("max-size"), c.Int64("seed"))
			},
		},
		{
			Name:    "table",
			Aliases: []string{"t"},
			Usage:   "one pointer table plus a small allocation per slot",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "slots,n",
					Usage: "number of table slots",
					Value: 1000000,
				},
			},
			Action: func(c *cli.Context) error {
				return table(c.Int("slots"))
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("heapbench failed")
	}
}

// churn mirrors the classic mixed workload: with probability one half
// allocate a random size and push it, otherwise pop and release, then
// drain everything still live.
func churn(iterations, maxSize int, seed int64) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log.Info().Int("iterations", iterations).Int("max_size", maxSize).
		Int64("seed", seed).Msg("starting churn")

	h, err := alloc.New()
	if err != nil {
		return err
	}

	var (
		live      []unsafe.Pointer
		allocs    int
		requested uint64
	)
	start := time.Now()
	for range iterations {
		if rng.Intn(2) == 0 {
			n := uint64(rng.Intn(maxSize))
			p := h.Alloc(n)
			if p == nil {
				log.Error().Uint64("size", n).Msg("out of memory")
				break
			}
			live = append(live, p)
			allocs++
			requested += n
		} else if len(live) > 0 {
			h.Free(live[len(live)-1])
			live = live[:len(live)-1]
		}
	}
	for _, p := range live {
		h.Free(p)
	}
	elapsed := time.Since(start)

	log.Info().
		Str("elapsed", elapsed.String()).
		Str("requested", humanize.IBytes(requested)).
		Str("rate", rate(allocs, elapsed)).
		Int("allocations", allocs).
		Msg("churn done")
	return nil
}

// table is the pointer-table workload: one big buffer holding n pointers,
// one word-sized allocation per slot, then release everything.
func table(slots int) error {
	h, err := alloc.New()
	if err != nil {
		return err
	}
	log.Info().Int("slots", slots).Msg("starting table")

	start := time.Now()
	buf := h.AllocBytes(uint64(slots) * 8)
	if buf == nil {
		log.Error().Msg("out of memory")
		return nil
	}
	ptrs := unsafe.Slice((*unsafe.Pointer)(unsafe.Pointer(unsafe.SliceData(buf))), slots)
	for i := range ptrs {
		p := h.Alloc(8)
		if p == nil {
			log.Error().Int("slot", i).Msg("out of memory")
			return nil
		}
		ptrs[i] = p
	}
	for _, p := range ptrs {
		h.Free(p)
	}
	h.Free(unsafe.Pointer(unsafe.SliceData(buf)))
	elapsed := time.Since(start)

	log.Info().
		Str("elapsed", elapsed.String()).
		Str("requested", humanize.IBytes(uint64(slots)*16)).
		Str("rate", rate(slots*2+1, elapsed)).
		Msg("table done")
	return nil
}

func rate(ops int, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	return humanize.SIWithDigits(float64(ops)/d.Seconds(), 1, "ops/s")
}
