package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/plan-systems/klog"
)

var (
	trackDepth = flag.Bool("depth", false, "track capture depth and extract the minimax play trace")
	maxRounds  = flag.Int("rounds", 0, "bounded-rounds variant: LOSS if capture needs more rounds (0 = unbounded)")
	noStay     = flag.Bool("no-stay", false, "forbid the robber from passing its turn")
	onTheFly   = flag.Bool("otf", false, "generate team transitions on the fly instead of materializing the CSR table")
	numWorkers = flag.Int("workers", 0, "worker threads (0 = hardware parallelism)")
	dumpPrefix = flag.String("dump", "", "write <prefix>_path.txt and <prefix>_dp.txt dumps (implies -depth)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <graph_file.txt> <num_cops>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s <script.py>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s            (REPL)\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Usage = usage
	flag.Parse()

	switch flag.NArg() {
	case 0:
		go_gpython("")
	case 1:
		if !strings.HasSuffix(flag.Arg(0), ".py") {
			usage()
			os.Exit(1)
		}
		go_gpython(flag.Arg(0))
	case 2:
		if err := runSolve(flag.Arg(0), flag.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}

	klog.Flush()
}
