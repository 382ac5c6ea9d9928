package libcnr

import (
	"github.com/plan-systems/klog"
)

// runScan is the baseline fixed-point engine: full passes over every state,
// recomputing both win conditions from scratch until a pass flips nothing.
// Quadratic in passes on adversarial graphs and orders of magnitude slower
// than the frontier engine; it exists as the correctness oracle the frontier
// results are tested against, and must stay algorithmically independent.
func (s *Solution) runScan() {
	N := uint64(s.N)
	numStates := s.states.NumStates()

	// Flips are buffered and applied after the scan so a pass sees a
	// consistent snapshot of the previous pass.
	robberWinsToApply := make([]uint64, 0, 1024)
	copWinsToApply := make([]uint64, 0, 1024)

	// Robber-turn loss depths, needed to derive cop-turn depths without
	// reference to the frontier engine's wave counter.
	var robDepth []int32
	if s.states.TracksDepth() {
		robDepth = make([]int32, numStates)
		for i := range robDepth {
			robDepth[i] = -1
		}
		for sId := uint64(0); sId < numStates; sId++ {
			if s.states.RobberWin(sId) {
				robDepth[sId] = 0
			}
		}
	}

	tm := newTeamMoves(s.configs.K, s.adj.MaxDegree())
	passes := 0

	for {
		passes++
		robberWinsToApply = robberWinsToApply[:0]
		copWinsToApply = copWinsToApply[:0]

		for cId := uint64(0); cId < s.configs.Count; cId++ {
			base := cId * N

			for r := 0; r < s.N; r++ {
				stateId := base + uint64(r)

				copWin := s.states.CopWin(stateId)
				robberWin := s.states.RobberWin(stateId)
				if copWin && robberWin {
					continue
				}

				// Robber's turn: lost when every move (incl. "stay") lands on
				// a cop-turn win.
				if !robberWin {
					canEscape := false
					if s.opts.RobberMayStay && !copWin {
						canEscape = true
					}
					if !canEscape {
						for _, v := range s.adj.Neighbors(r) {
							if !s.states.CopWin(base + uint64(v)) {
								canEscape = true
								break
							}
						}
					}
					if !canEscape {
						robberWinsToApply = append(robberWinsToApply, stateId)
					}
				}

				// Cops' turn: won when some team move reaches a robber-turn loss.
				if !copWin {
					canWin := false
					if s.trans != nil {
						for _, tgt := range s.trans.Successors(cId) {
							if s.states.RobberWin(tgt + uint64(r)) {
								canWin = true
								break
							}
						}
					} else {
						tm.reset(s.configs.At(cId), s.adj)
						for move := tm.next(); move != nil; move = tm.next() {
							if s.states.RobberWin(s.configs.MustLookup(move)*N + uint64(r)) {
								canWin = true
								break
							}
						}
					}
					if canWin {
						copWinsToApply = append(copWinsToApply, stateId)
					}
				}
			}
		}

		if len(robberWinsToApply) == 0 && len(copWinsToApply) == 0 {
			break
		}

		for _, sId := range robberWinsToApply {
			// Drain the counter; this is single-threaded so the claim rules
			// of the frontier engine do not apply.
			for !s.states.RobberWin(sId) {
				s.states.ClaimSafeDecrement(sId)
			}
			if robDepth != nil {
				robDepth[sId] = s.robberLossDepth(sId)
			}
		}
		for _, sId := range copWinsToApply {
			s.states.ClaimCopWin(sId)
			if robDepth != nil {
				s.states.SetDepth(sId, s.copWinDepth(sId, robDepth))
			}
		}
	}

	klog.V(2).Infof("reference scan converged after %d passes", passes)
}

// robberLossDepth is max over the robber's moves of the cop-turn depth:
// the robber drags the game out as long as it can.
func (s *Solution) robberLossDepth(stateId uint64) int32 {
	N := uint64(s.N)
	base := (stateId / N) * N
	r := int(stateId % N)

	worst := int32(0)
	if s.opts.RobberMayStay {
		worst = s.states.Depth(stateId)
	}
	for _, v := range s.adj.Neighbors(r) {
		if d := s.states.Depth(base + uint64(v)); d > worst {
			worst = d
		}
	}
	return worst + 1
}

// copWinDepth is 1 + min over team moves reaching a robber-turn loss:
// the cops take the fastest forcing line.
func (s *Solution) copWinDepth(stateId uint64, robDepth []int32) int32 {
	N := uint64(s.N)
	cId := stateId / N
	r := stateId % N

	best := int32(1) << 30
	visit := func(succBase uint64) {
		if d := robDepth[succBase+r]; d >= 0 && d < best {
			best = d
		}
	}

	if s.trans != nil {
		for _, tgt := range s.trans.Successors(cId) {
			visit(tgt)
		}
	} else {
		tm := newTeamMoves(s.configs.K, s.adj.MaxDegree())
		tm.reset(s.configs.At(cId), s.adj)
		for move := tm.next(); move != nil; move = tm.next() {
			visit(s.configs.MustLookup(move) * N)
		}
	}
	return best + 1
}
