package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/groundwater-assist/water-game/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64

	result  sim.Result
	grade   string
	endedBy string

	firstCollectTick int
	firstMissTick    int
	firstHazardTick  int
	lowestWater      int
	statusChanges    int
}

type playerConfig struct {
	clicksPerSecond float64
	accuracy        float64
}

func main() {
	var runs int
	var seedBase int64
	var seedStep int64
	var cps float64
	var accuracy float64
	var verbose bool
	var configPath string
	var writeConfig string

	flag.IntVar(&runs, "runs", 5, "number of headless sessions")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Float64Var(&cps, "cps", 3, "scripted player clicks per second")
	flag.Float64Var(&accuracy, "accuracy", 0.8, "fraction of clicks aimed on target (0..1)")
	flag.BoolVar(&verbose, "verbose", false, "print the full event log of each run")
	flag.StringVar(&configPath, "config", "", "TOML config file (default: .env / WATERGAME_CONFIG, then built-in tuning)")
	flag.StringVar(&writeConfig, "write-config", "", "write the effective config as TOML to this path and exit")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if writeConfig != "" {
		if err := sim.SaveConfig(writeConfig, cfg); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s\n", writeConfig)
		return
	}

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if cps < 0 {
		fmt.Println("error: -cps must be >= 0")
		return
	}
	if accuracy < 0 || accuracy > 1 {
		fmt.Println("error: -accuracy must be within [0,1]")
		return
	}
	player := playerConfig{clicksPerSecond: cps, accuracy: accuracy}

	fmt.Printf("=== Headless Water Game Report ===\n")
	fmt.Printf("runs=%d seed_base=%d seed_step=%d cps=%.1f accuracy=%.2f time=%ds\n\n",
		runs, seedBase, seedStep, cps, accuracy, cfg.InitialTime)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, events, err := runSession(i+1, seed, cfg, player, verbose)
		if err != nil {
			log.Fatal(err)
		}
		all = append(all, rs)
		printRun(rs)
		if verbose {
			fmt.Print(events.Format())
			fmt.Println()
		}
	}
	printAggregate(all)
}

func loadConfig(path string) (sim.Config, error) {
	if path != "" {
		return sim.LoadConfig(path)
	}
	return sim.LoadEnvConfig(".env")
}

// runSession plays one seeded session to the end of its countdown.
func runSession(runIndex int, seed int64, cfg sim.Config, pc playerConfig, verbose bool) (runStats, *sim.EventLog, error) {
	h, err := sim.NewHarness(
		sim.WithConfig(func(c *sim.Config) { *c = cfg }),
		sim.WithSeed(seed),
		sim.WithVerbose(verbose),
	)
	if err != nil {
		return runStats{}, nil, fmt.Errorf("run %d: %w", runIndex, err)
	}
	player := sim.NewAutoPlayer(seed^0x5eed, pc.clicksPerSecond, pc.accuracy)

	lowest := h.Session.Result().Resource
	step := func(h *sim.Harness) {
		player.Step(h)
		if r := h.Session.Result().Resource; r < lowest {
			lowest = r
		}
	}
	endedBy := "incomplete"
	if h.RunSeconds(cfg.InitialTime, step) {
		endedBy = "countdown"
	}

	entries := h.Log.Entries()
	res := h.Session.Result()
	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		result:           res,
		grade:            sim.Assess(res).Grade,
		endedBy:          endedBy,
		firstCollectTick: firstTick(entries, sim.CatInteract, "collected"),
		firstMissTick:    firstTick(entries, sim.CatBoundary, "missed"),
		firstHazardTick:  firstTick(entries, sim.CatInteract, "hazard"),
		lowestWater:      lowest,
		statusChanges:    h.Log.Count(sim.CatStatus, "change"),
	}, h.Log, nil
}

func firstTick(entries []sim.Event, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	r := rs.result
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("result: score=%d final_water=%d lowest_water=%d grade=%s ended_by=%s ticks=%d\n",
		r.Score, r.Resource, rs.lowestWater, rs.grade, rs.endedBy, r.Ticks)
	fmt.Printf("spawned: collectibles=%d hazards=%d\n", r.Stats.CollectiblesSpawned, r.Stats.HazardsSpawned)
	fmt.Printf("player: clicks=%d collected=%d missed=%d hazards_hit=%d\n",
		r.Stats.Clicks, r.Stats.Collected, r.Stats.Missed, r.Stats.HazardsHit)
	fmt.Printf("phase_markers: first_collect=%d first_miss=%d first_hazard=%d status_changes=%d\n",
		rs.firstCollectTick, rs.firstMissTick, rs.firstHazardTick, rs.statusChanges)
	fmt.Println()
}

// aggregate holds cross-run totals.
type aggregate struct {
	runs        int
	score       int
	water       int
	collected   int
	missed      int
	hazardsHit  int
	dryRuns     int
	collectTick []int
	missTick    []int
	grades      map[string]int
}

func summarize(all []runStats) aggregate {
	ag := aggregate{runs: len(all), grades: map[string]int{}}
	for _, rs := range all {
		ag.score += rs.result.Score
		ag.water += rs.result.Resource
		ag.collected += rs.result.Stats.Collected
		ag.missed += rs.result.Stats.Missed
		ag.hazardsHit += rs.result.Stats.HazardsHit
		if rs.lowestWater == 0 {
			ag.dryRuns++
		}
		if rs.firstCollectTick >= 0 {
			ag.collectTick = append(ag.collectTick, rs.firstCollectTick)
		}
		if rs.firstMissTick >= 0 {
			ag.missTick = append(ag.missTick, rs.firstMissTick)
		}
		ag.grades[rs.grade]++
	}
	return ag
}

func printAggregate(all []runStats) {
	ag := summarize(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", ag.runs)
	fmt.Printf("avg_per_run: score=%.1f final_water=%.1f collected=%.1f missed=%.1f hazards_hit=%.1f\n",
		avg(ag.score, ag.runs), avg(ag.water, ag.runs), avg(ag.collected, ag.runs), avg(ag.missed, ag.runs), avg(ag.hazardsHit, ag.runs))
	fmt.Printf("phase_marker_avg_ticks: first_collect=%s first_miss=%s\n",
		avgTickString(ag.collectTick), avgTickString(ag.missTick))
	fmt.Printf("runs_that_ran_dry=%d\n", ag.dryRuns)
	fmt.Printf("grades: %s\n", gradeSummary(ag.grades))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// gradeSummary renders grade counts best grade first, e.g. "A=2 B+=1 F=1".
func gradeSummary(counts map[string]int) string {
	if len(counts) == 0 {
		return "n/a"
	}
	order := []string{"A+", "A", "B+", "B", "C+", "C", "D", "F"}
	rank := map[string]int{}
	for i, g := range order {
		rank[g] = i
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return rank[keys[i]] < rank[keys[j]] })
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
