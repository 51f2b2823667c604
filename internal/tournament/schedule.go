package tournament

import "github.com/louisbranch/liarsdice/internal/core/dice"

// Job is one match of the schedule. Seats index the roster.
type Job struct {
	Round int
	Group int
	Seed  int64
	Seats []int
}

// RoundSeed returns the seed that shuffles round r.
func RoundSeed(seed int64, round int) int64 {
	return seed + int64(round)
}

// Schedule lists every match of the tournament in (round, group) order.
// Rounds are numbered from 1. A group left with a single agent sits the
// round out.
func Schedule(seed int64, rounds, agents, maxPlayers int) []Job {
	if agents < 2 || maxPlayers < 2 {
		return nil
	}
	var jobs []Job
	for r := 1; r <= rounds; r++ {
		roundSeed := RoundSeed(seed, r)
		order := make([]int, agents)
		for i := range order {
			order[i] = i
		}
		dice.NewSource(roundSeed).Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for g, size := range Partition(agents, maxPlayers) {
			seats := order[:size]
			order = order[size:]
			if size < 2 {
				continue
			}
			jobs = append(jobs, Job{
				Round: r,
				Group: g + 1,
				Seed:  dice.DeriveSeed(roundSeed, int64(g+1)),
				Seats: append([]int(nil), seats...),
			})
		}
	}
	return jobs
}

// Partition splits n agents into the fewest groups of at most limit, with
// sizes differing by at most one. Larger groups come first.
func Partition(n, limit int) []int {
	if n <= 0 || limit <= 0 {
		return nil
	}
	groups := (n + limit - 1) / limit
	sizes := make([]int, groups)
	for i := range sizes {
		sizes[i] = n / groups
		if i < n%groups {
			sizes[i]++
		}
	}
	return sizes
}
