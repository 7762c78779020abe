package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/slidedeck/motion"
	"github.com/plus3/slidedeck/stage"
)

const (
	width  = 1920.0
	height = 1080.0
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	movers := flag.Int("movers", 10000, "The number of entities with a smooth mover.")
	emitters := flag.Int("emitters", 100, "The number of particle emitters.")
	interval := flag.Float64("interval", 0.05, "Seconds between particles of one emitter.")
	seed := flag.Uint64("seed", 1, "Seed for positions and jitter.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting stage stress test...")

	st := stage.New(stage.Options{Seed: *seed})

	log.Printf("Populating stage with %d movers and %d emitters...\n", *movers, *emitters)
	if err := populate(st, *movers, *emitters, *interval); err != nil {
		log.Fatalf("Failed to populate stage: %v", err)
	}
	log.Println("Population complete.")

	report := &Report{
		Duration:       *duration,
		Movers:         *movers,
		Emitters:       *emitters,
		Interval:       *interval,
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()
	run(ctx, st, report)
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// populate spawns movers that wander to a new random target every two
// seconds and emitters whose particles live for one second.
func populate(st *stage.Stage, movers, emitters int, interval float64) error {
	randomPoint := func() motion.Vec2 {
		return motion.V(width/2+st.Jitter(width/2), height/2+st.Jitter(height/2))
	}

	for i := 0; i < movers; i++ {
		e := st.Spawn(stage.Position{})
		e.SetPosition(randomPoint())
		if _, err := e.AttachMover(1+st.Jitter(0.5), 1+st.Jitter(0.5)); err != nil {
			return err
		}
		if _, err := e.Every(2+st.Jitter(0.5), func() { e.MoveTo(randomPoint()) }); err != nil {
			return err
		}
	}

	for i := 0; i < emitters; i++ {
		e := st.Spawn(stage.Position{})
		e.SetPosition(randomPoint())
		_, err := e.Every(interval, func() {
			at := e.Position().Add(st.JitterVec(4))
			m, err := motion.New(at, 2, 0.5)
			if err != nil {
				return
			}
			m.MoveTo(at.Add(motion.V(st.Jitter(40), -80)))
			st.SpawnLater(
				stage.Position{X: at.X, Y: at.Y},
				stage.Mover{SmoothMover: m},
				stage.Shape{Kind: stage.ShapeCircle, W: 4, Alpha: 1},
				stage.Lifetime{Total: 1, Remaining: 1, Fade: true},
			)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// run ticks st with wall-clock deltas until ctx is done.
func run(ctx context.Context, st *stage.Stage, report *Report) {
	startTime := time.Now()
	lastFrameTime := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			st.Tick(deltaTime.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
			report.PeakEntities = max(report.PeakEntities, st.Len())
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.FinalEntities = st.Len()
	report.Storage = st.Storage.CollectStats()
	report.Scheduler = st.Scheduler.GetStats()
}
