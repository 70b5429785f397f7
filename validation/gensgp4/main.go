// Command gensgp4 propagates a satellite over a time range and writes its
// TEME state vectors to a CSV file, for use as a reference data set when
// cross-checking this package against another SGP4 implementation.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anupshinde/goeph/satellite"
)

const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   24001.00000000  .00016717  00000-0  10270-3 0  9004"
	issLine2 = "2 25544  51.6400 208.9163 0006703 247.1970 112.8444 15.49560830999993"

	outputFile = "/tmp/gensgp4_iss.csv"
	stepMin    = 1 * time.Minute
	spanDays   = 7
)

func main() {
	fmt.Println("Parsing TLE:", issName)
	sat, err := satellite.NewSat(issName, []byte(issLine1), []byte(issLine2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing TLE: %v\n", err)
		os.Exit(1)
	}

	start := sat.Elements.EpochTime
	end := start.Add(spanDays * 24 * time.Hour)
	times := generateTimeSeries(start, end, stepMin)
	fmt.Printf("Time range: %s to %s\n", start.Format(time.RFC3339), end.Format(time.RFC3339))
	fmt.Printf("Total timestamps: %d\n", len(times))

	if err := processAndWrite(sat, times, outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputFile, err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}

func generateTimeSeries(start, end time.Time, step time.Duration) []time.Time {
	var times []time.Time
	for t := start; !t.After(end); t = t.Add(step) {
		times = append(times, t)
	}
	return times
}

func processAndWrite(sat *satellite.Sat, times []time.Time, outputFile string) error {
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	os.Remove(outputFile)

	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "timestamp,x_km,y_km,z_km,vx_km_s,vy_km_s,vz_km_s")

	batchSize := 10000
	total := len(times)
	processed := 0

	for processed < total {
		end := processed + batchSize
		if end > total {
			end = total
		}

		for i := processed; i < end; i++ {
			p, err := sat.At(times[i])
			if err != nil {
				return fmt.Errorf("propagating %s: %w", times[i].Format(time.RFC3339), err)
			}
			fmt.Fprintf(f, "%s,%.9f,%.9f,%.9f,%.9f,%.9f,%.9f\n",
				times[i].Format(time.RFC3339),
				p.Position[0], p.Position[1], p.Position[2],
				p.Velocity[0], p.Velocity[1], p.Velocity[2])
		}

		processed = end
		pct := float64(processed) / float64(total) * 100
		fmt.Printf("  %s: %d/%d (%.1f%%)\n", outputFile, processed, total, pct)
	}
	return nil
}
