package track

import (
	"sort"

	"github.com/okian/rematch/internal/domain/model"
)

// pair links an entity in frame A to its counterpart in frame B. The track
// identity carried forward is always the A-side id.
type pair struct {
	a model.Entity
	b model.Entity
}

// associate matches entities between two adjacent detection frames.
// Identity ids are matched first; detectors with unstable ids leave
// leftovers on both sides, which are then associated greedily by minimum
// squared distance within the same team. The ball never enters the
// positional pass: its id is fixed.
func associate(a, b []model.Entity) (pairs []pair, onlyA, onlyB []model.Entity) {
	byID := make(map[string]model.Entity, len(b))
	for _, e := range b {
		byID[e.ID] = e
	}

	usedB := make(map[string]bool, len(b))
	var leftA []model.Entity
	for _, ea := range a {
		if eb, ok := byID[ea.ID]; ok && !usedB[ea.ID] {
			pairs = append(pairs, pair{a: ea, b: eb})
			usedB[ea.ID] = true
			continue
		}
		leftA = append(leftA, ea)
	}

	var leftB []model.Entity
	for _, eb := range b {
		if !usedB[eb.ID] {
			leftB = append(leftB, eb)
		}
	}

	morePairs, onlyA, onlyB := associateByDistance(leftA, leftB)
	pairs = append(pairs, morePairs...)
	return pairs, onlyA, onlyB
}

// candidate is one possible positional association.
type candidate struct {
	ai, bi int
	dist2  float64
}

// associateByDistance greedily pairs leftover entities by squared distance.
// Pairs are only formed within the same team; the ball is excluded since
// its fixed id always matches in the id pass.
func associateByDistance(a, b []model.Entity) (pairs []pair, onlyA, onlyB []model.Entity) {
	var cands []candidate
	for i, ea := range a {
		if ea.Kind == model.KindBall {
			continue
		}
		for j, eb := range b {
			if eb.Kind == model.KindBall || ea.Team != eb.Team {
				continue
			}
			dx, dy := ea.X-eb.X, ea.Y-eb.Y
			cands = append(cands, candidate{ai: i, bi: j, dist2: dx*dx + dy*dy})
		}
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].dist2 < cands[j].dist2 })

	takenA := make(map[int]bool, len(a))
	takenB := make(map[int]bool, len(b))
	for _, c := range cands {
		if takenA[c.ai] || takenB[c.bi] {
			continue
		}
		takenA[c.ai] = true
		takenB[c.bi] = true
		pairs = append(pairs, pair{a: a[c.ai], b: b[c.bi]})
	}

	for i, e := range a {
		if !takenA[i] {
			onlyA = append(onlyA, e)
		}
	}
	for j, e := range b {
		if !takenB[j] {
			onlyB = append(onlyB, e)
		}
	}
	return pairs, onlyA, onlyB
}
