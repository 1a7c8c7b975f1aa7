package tactical

import "sort"

// CoverCandidate is one scored cover position. Transient: computed on demand
// and not persisted across ticks except as an agent's claimed arena index.
type CoverCandidate struct {
	Index      int // index into the candidate slice handed to FindCover
	Pos        Vec2
	Protection float64 // fraction of threats this position is shielded from
	Dist       float64 // travel distance from the querying agent
}

// CoverEvaluator scores candidate positions against threats by raycasting
// through the static obstacle set.
type CoverEvaluator struct {
	Obstacles []Rect
}

// NewCoverEvaluator wraps a static obstacle set.
func NewCoverEvaluator(obstacles []Rect) *CoverEvaluator {
	return &CoverEvaluator{Obstacles: obstacles}
}

// ProtectedFrom reports whether pos is shielded from a threat: the ray from
// pos to the threat hits a blocking obstacle before reaching it.
func (ce *CoverEvaluator) ProtectedFrom(pos, threat Vec2) bool {
	return BlockingObstacle(pos, threat, ce.Obstacles) != -1
}

// FindCover scores every candidate against every threat and returns them
// ordered best-first: higher protection wins, ties broken by shorter travel
// distance from agent. The sort is stable so equal candidates keep their
// input order. Never returns empty for a non-empty candidate list — when
// nothing is protected the least-bad candidate still leads.
func (ce *CoverEvaluator) FindCover(agent Vec2, threats, candidates []Vec2) []CoverCandidate {
	out := make([]CoverCandidate, 0, len(candidates))
	for i, pos := range candidates {
		protected := 0
		for _, th := range threats {
			if ce.ProtectedFrom(pos, th) {
				protected++
			}
		}
		score := 0.0
		if len(threats) > 0 {
			score = float64(protected) / float64(len(threats))
		}
		out = append(out, CoverCandidate{
			Index:      i,
			Pos:        pos,
			Protection: score,
			Dist:       agent.Dist(pos),
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Protection != out[b].Protection {
			return out[a].Protection > out[b].Protection
		}
		return out[a].Dist < out[b].Dist
	})
	return out
}

// FindPursuitCover scores candidates for an advance on target. Two extra
// rules discourage peek-and-hide loops at the agent's current spot:
//
//   - a candidate shielded by the same obstacle the agent currently crouches
//     behind has its protection divided by the reuse penalty (×4 by default);
//   - a candidate must make minimum forward progress toward the target — at
//     least minProgress of the agent's straight-line distance — or it is
//     rejected outright.
//
// currentObstacle is the obstacle index shielding the agent now, -1 if none.
func (ce *CoverEvaluator) FindPursuitCover(agent, target Vec2, threats, candidates []Vec2, currentObstacle int, minProgress, reusePenalty float64) []CoverCandidate {
	baseDist := agent.Dist(target)
	out := make([]CoverCandidate, 0, len(candidates))
	for i, pos := range candidates {
		progress := baseDist - pos.Dist(target)
		if progress < minProgress*baseDist {
			continue
		}
		protected := 0
		reused := false
		for _, th := range threats {
			obs := BlockingObstacle(pos, th, ce.Obstacles)
			if obs == -1 {
				continue
			}
			protected++
			if obs == currentObstacle {
				reused = true
			}
		}
		score := 0.0
		if len(threats) > 0 {
			score = float64(protected) / float64(len(threats))
		}
		if reused && reusePenalty > 0 {
			score /= reusePenalty
		}
		out = append(out, CoverCandidate{
			Index:      i,
			Pos:        pos,
			Protection: score,
			Dist:       agent.Dist(pos),
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Protection != out[b].Protection {
			return out[a].Protection > out[b].Protection
		}
		return out[a].Dist < out[b].Dist
	})
	return out
}

// InCover reports whether an agent standing at pos has effectively reached
// its claimed cover point.
func InCover(pos, claimed Vec2, tolerance float64) bool {
	return pos.Dist(claimed) < tolerance
}

// CoverArena owns the shared cover points of a map region. Each point is an
// index with a single claim token; only the claiming agent may release it.
// This replaces back-references between agents and cover objects, so a
// removed agent can never leave a dangling claim pointer.
type CoverArena struct {
	points []Vec2
	claims []int // agent ID holding the point, or noClaim
}

const noClaim = -1

// NewCoverArena builds an arena over fixed cover points.
func NewCoverArena(points []Vec2) *CoverArena {
	claims := make([]int, len(points))
	for i := range claims {
		claims[i] = noClaim
	}
	return &CoverArena{points: points, claims: claims}
}

// Points returns the arena's cover positions.
func (ca *CoverArena) Points() []Vec2 { return ca.points }

// Point returns the position at index i.
func (ca *CoverArena) Point(i int) Vec2 { return ca.points[i] }

// ClaimedBy returns the agent holding index i, or -1 when free.
func (ca *CoverArena) ClaimedBy(i int) int {
	if i < 0 || i >= len(ca.claims) {
		return noClaim
	}
	return ca.claims[i]
}

// Claim takes index i for agentID. Succeeds when the point is free or
// already held by the same agent.
func (ca *CoverArena) Claim(i, agentID int) bool {
	if i < 0 || i >= len(ca.claims) {
		return false
	}
	if ca.claims[i] != noClaim && ca.claims[i] != agentID {
		return false
	}
	ca.claims[i] = agentID
	return true
}

// Release frees index i if and only if agentID holds it.
func (ca *CoverArena) Release(i, agentID int) {
	if i < 0 || i >= len(ca.claims) {
		return
	}
	if ca.claims[i] == agentID {
		ca.claims[i] = noClaim
	}
}

// ReleaseAll frees every point held by agentID, e.g. on agent death.
func (ca *CoverArena) ReleaseAll(agentID int) {
	for i, c := range ca.claims {
		if c == agentID {
			ca.claims[i] = noClaim
		}
	}
}
