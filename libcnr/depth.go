package libcnr

import (
	"github.com/lindensheehy/CopsAndRobbers/cnr"
)

// DepthAt returns the worst-case capture rounds from a cop-turn position, or
// -1 when the position is not a cop win (or depth was not tracked).
func (s *Solution) DepthAt(cfg []byte, r int) int {
	cId, ok := s.configs.Lookup(cfg)
	if !ok {
		return -1
	}
	d := s.states.Depth(cId*uint64(s.N) + uint64(r))
	if d < 0 {
		return -1
	}
	return int(d+1) / 2
}

// forEachSuccessor visits every successor configuration id of cId, through
// the CSR table when materialized and the move enumerator otherwise.
func (s *Solution) forEachSuccessor(cId uint64, tm *teamMoves, visit func(nextCId uint64)) {
	if s.trans != nil {
		N := uint64(s.N)
		for _, tgt := range s.trans.Successors(cId) {
			visit(tgt / N)
		}
		return
	}
	// Unsorted and with repeats, but every visit below is idempotent.
	tm.reset(s.configs.At(cId), s.adj)
	for move := tm.next(); move != nil; move = tm.next() {
		visit(s.configs.MustLookup(move))
	}
}

// extractTrace reconstructs a minimax-optimal play from the witness start:
// the robber opens on its most survivable vertex, cops pick the team move
// minimizing the worst-case robber response, the robber answers with the
// response maximizing remaining depth. Depth strictly decreases each full
// round, so the walk terminates on a capture.
func (s *Solution) extractTrace(startCId uint64) cnr.PlayTrace {
	N := uint64(s.N)
	tm := newTeamMoves(s.configs.K, s.adj.MaxDegree())
	var trace cnr.PlayTrace

	// Worst robber start against this witness
	bestRStart, maxDepth := 0, int32(-1)
	for r := 0; r < s.N; r++ {
		if d := s.states.Depth(startCId*N + uint64(r)); d > maxDepth {
			maxDepth = d
			bestRStart = r
		}
	}

	curCId := startCId
	curRobber := bestRStart

	snapshot := func(label string) {
		trace = append(trace, cnr.TraceStep{
			Cops:   append([]byte{}, s.configs.At(curCId)...),
			Robber: byte(curRobber),
			Label:  label,
		})
	}
	caught := func() bool {
		return cnr.ConfigContains(s.configs.At(curCId), byte(curRobber))
	}

	for {
		if caught() {
			snapshot(cnr.TurnLabelCaptured)
			return trace
		}
		snapshot(cnr.TurnLabelCop)

		// Cops: the move whose worst-case robber response is cheapest.
		bestNextCId := curCId
		minWorst := int32(1) << 30
		s.forEachSuccessor(curCId, tm, func(nextCId uint64) {
			worst, valid := s.worstRobberResponse(nextCId, curRobber)
			if valid && worst < minWorst {
				minWorst = worst
				bestNextCId = nextCId
			}
		})
		curCId = bestNextCId

		if caught() {
			snapshot(cnr.TurnLabelCaptured)
			return trace
		}
		snapshot(cnr.TurnLabelRobber)

		// Robber: the reply that survives longest.
		base := curCId * N
		bestNextRobber := curRobber
		maxSteps := int32(-1)
		consider := func(v int) {
			sId := base + uint64(v)
			if s.states.CopWin(sId) {
				if d := s.states.Depth(sId); d > maxSteps {
					maxSteps = d
					bestNextRobber = v
				}
			}
		}
		if s.opts.RobberMayStay {
			consider(curRobber)
		}
		for _, v := range s.adj.Neighbors(curRobber) {
			consider(int(v))
		}
		curRobber = bestNextRobber
	}
}

// worstRobberResponse evaluates a candidate cop move: the deepest cop-turn
// depth the robber can still reach, or invalid when the robber has an escape
// (some response that is not a cop win).
func (s *Solution) worstRobberResponse(nextCId uint64, robber int) (int32, bool) {
	cfg := s.configs.At(nextCId)
	if cnr.ConfigContains(cfg, byte(robber)) {
		return 0, true // instant catch
	}

	base := nextCId * uint64(s.N)
	worst := int32(-1)

	check := func(v int) bool {
		sId := base + uint64(v)
		if !s.states.CopWin(sId) {
			return false
		}
		if d := s.states.Depth(sId); d > worst {
			worst = d
		}
		return true
	}

	if s.opts.RobberMayStay && !check(robber) {
		return 0, false
	}
	for _, v := range s.adj.Neighbors(robber) {
		if !check(int(v)) {
			return 0, false
		}
	}
	return worst, true
}
