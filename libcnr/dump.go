package libcnr

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// WriteTrace dumps the minimax play trace, one line per half-move:
// "c1,...,ck|r|label". Empty when depth tracking was off or the cops lost.
func (s *Solution) WriteTrace(w io.Writer) error {
	_, err := s.Verdict.Trace.WriteTo(w)
	return err
}

// WriteDPTable dumps the full solved table, one line per (configuration,
// robber vertex): "c1,...,ck|r|depth", where depth is the worst-case capture
// rounds and -1 marks states that are not cop wins (or that depth tracking
// never saw).
func (s *Solution) WriteDPTable(w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	N := uint64(s.N)

	for cId := uint64(0); cId < s.configs.Count; cId++ {
		cfg := s.configs.At(cId)
		base := cId * N

		for r := uint64(0); r < N; r++ {
			for i, c := range cfg {
				if i > 0 {
					bw.WriteByte(',')
				}
				fmt.Fprintf(bw, "%d", c)
			}
			depth := int32(-1)
			if d := s.states.Depth(base + r); d >= 0 {
				depth = (d + 1) / 2
			}
			fmt.Fprintf(bw, "|%d|%d\n", r, depth)
		}
	}

	return bw.Flush()
}

// DumpFiles writes the trace and DP table dumps next to each other, the
// shape downstream tooling ingests.
func (s *Solution) DumpFiles(tracePath, dpPath string) error {
	if !s.states.TracksDepth() {
		return errors.New("depth tracking was not enabled for this solve")
	}

	traceFile, err := os.Create(tracePath)
	if err != nil {
		return errors.Wrap(err, "creating trace dump")
	}
	defer traceFile.Close()
	if err := s.WriteTrace(traceFile); err != nil {
		return errors.Wrap(err, "writing trace dump")
	}

	dpFile, err := os.Create(dpPath)
	if err != nil {
		return errors.Wrap(err, "creating dp dump")
	}
	defer dpFile.Close()
	if err := s.WriteDPTable(dpFile); err != nil {
		return errors.Wrap(err, "writing dp dump")
	}

	return nil
}

