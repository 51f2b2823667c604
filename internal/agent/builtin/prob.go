package builtin

import (
	"math"

	"github.com/louisbranch/liarsdice/internal/core/dice"
	"github.com/louisbranch/liarsdice/internal/game"
)

// faceProb is the chance a single unseen die shows a given face.
const faceProb = 1.0 / dice.Faces

// table summarises what a player can see at decision time.
type table struct {
	counts  [dice.Faces + 1]int
	mine    int
	total   int
	unknown int
}

func readTable(v game.View) table {
	t := table{mine: len(v.You.Dice), total: v.TotalDice()}
	for _, d := range v.You.Dice {
		if d >= 1 && d <= dice.Faces {
			t.counts[d]++
		}
	}
	t.unknown = max(0, t.total-t.mine)
	return t
}

// bestFace returns the face the player holds most of, lowest face on ties.
func (t table) bestFace() (face, count int) {
	face, count = 1, -1
	for f := 1; f <= dice.Faces; f++ {
		if t.counts[f] > count {
			face, count = f, t.counts[f]
		}
	}
	return face, count
}

// need returns how many unseen dice must show face for bid to hold.
func (t table) need(b game.Bid) int {
	return max(0, b.Quantity-t.counts[b.Face])
}

// binomialTail returns P(X >= k) for X ~ Binomial(n, p).
func binomialTail(n, k int, p float64) float64 {
	if k <= 0 {
		return 1
	}
	if k > n || p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	// Start from the pmf at k and walk up the tail.
	term := math.Exp(lchoose(n, k) + float64(k)*math.Log(p) + float64(n-k)*math.Log1p(-p))
	sum := term
	for x := k + 1; x <= n; x++ {
		term *= float64(n-x+1) / float64(x) * p / (1 - p)
		sum += term
		if term < 1e-15 {
			break
		}
	}
	return clamp01(sum)
}

// normalTail is the coarse Gaussian estimate of P(X >= need) around mean.
func normalTail(need int, mean float64) float64 {
	if float64(need) <= mean {
		return 1
	}
	stddev := math.Sqrt(mean * (1 - faceProb))
	if stddev == 0 {
		stddev = 1
	}
	z := (float64(need) - mean) / stddev
	return clamp01(math.Exp(-0.5 * z * z))
}

func lchoose(n, k int) float64 {
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// cheapestRaise walks the legal raises above prev in bid order and returns
// the first whose probability reaches threshold: same quantity on a higher
// face, then one more on the same face, then one more on any face.
func cheapestRaise(prev game.Bid, threshold float64, prob func(game.Bid) float64) (game.Bid, bool) {
	for f := prev.Face + 1; f <= dice.Faces; f++ {
		b := game.Bid{Quantity: prev.Quantity, Face: f}
		if prob(b) >= threshold {
			return b, true
		}
	}
	for f := 1; f <= dice.Faces; f++ {
		b := game.Bid{Quantity: prev.Quantity + 1, Face: f}
		if prob(b) >= threshold {
			return b, true
		}
	}
	return game.Bid{}, false
}
