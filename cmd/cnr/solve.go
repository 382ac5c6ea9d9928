package main

import (
	"fmt"
	"strconv"

	"github.com/plan-systems/klog"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
	"github.com/lindensheehy/CopsAndRobbers/libcnr"
)

func runSolve(graphPath, copsArg string) error {
	k, err := strconv.Atoi(copsArg)
	if err != nil {
		return fmt.Errorf("num_cops must be a decimal integer: %v", err)
	}

	g, err := libcnr.ReadGraphFile(graphPath)
	if err != nil {
		return err
	}
	klog.Infof("graph loaded: %d nodes, %d edges", g.VertexCount(), g.EdgeCount())

	opts := cnr.DefaultSolveOpts
	opts.Cops = k
	opts.TrackDepth = *trackDepth || *dumpPrefix != ""
	opts.MaxRounds = *maxRounds
	opts.RobberMayStay = !*noStay
	opts.NumWorkers = *numWorkers
	if *onTheFly {
		opts.Transitions = cnr.TransOnTheFly
	}

	sol, err := libcnr.Solve(g, opts)
	if err != nil {
		return err
	}

	v := &sol.Verdict
	fmt.Printf("\n--- FINAL VERDICT ---\n")
	if v.Decision == cnr.WIN {
		fmt.Printf("RESULT: WIN. %d Cop(s) CAN win this graph.\n", k)
		fmt.Printf("Optimal Cop Start Positions: %s\n", cnr.FormatConfig(v.Witness))
		if v.Rounds >= 0 {
			fmt.Printf("Capture Time: %d rounds.\n", v.Rounds)
		}
	} else {
		fmt.Printf("RESULT: LOSS. %d Cop(s) CANNOT guarantee a win.\n", k)
		fmt.Printf("(The Robber has a strategy to survive indefinitely against any start).\n")
	}

	if *dumpPrefix != "" && v.Decision == cnr.WIN {
		tracePath := *dumpPrefix + "_path.txt"
		dpPath := *dumpPrefix + "_dp.txt"
		if err := sol.DumpFiles(tracePath, dpPath); err != nil {
			return err
		}
		klog.Infof("wrote %s and %s", tracePath, dpPath)
	}

	return nil
}
