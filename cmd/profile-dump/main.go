// profile-dump prints a planned trajectory as CSV for plotting and
// offline inspection.
//
// Usage:
//
//	profile-dump -dist 1 -vmax 1 -amax 2 -jmax 10 [-rate 1000]
//	profile-dump -config axes.cfg -axis x -start 0 -end 1
//
// Output is one header line followed by t,pos,vel,accel,jerk rows.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"smoothmotion/pkg/axis"
	"smoothmotion/pkg/config"
	"smoothmotion/pkg/profile"
	"smoothmotion/pkg/sampler"
)

func main() {
	dist := flag.Float64("dist", 1, "Move distance")
	vMax := flag.Float64("vmax", 1, "Velocity limit")
	aMax := flag.Float64("amax", 2, "Acceleration limit")
	jMax := flag.Float64("jmax", 10, "Jerk limit")
	rate := flag.Float64("rate", 1000, "Sample rate in Hz")
	configFile := flag.String("config", "", "Axis configuration file (use with -axis)")
	axisName := flag.String("axis", "", "Axis name to take limits from")
	start := flag.Float64("start", 0, "Move start position (with -config)")
	end := flag.Float64("end", 0, "Move end position (with -config)")

	flag.Parse()

	if *rate <= 0 {
		fmt.Fprintf(os.Stderr, "Error: -rate must be positive\n")
		os.Exit(1)
	}

	lim := profile.Limits{Velocity: *vMax, Accel: *aMax, Jerk: *jMax}
	s0, sEnd := 0.0, *dist
	if *configFile != "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		axes, err := axis.LoadRegistry(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		a, err := axes.Lookup(*axisName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := a.CheckMove(*start, *end); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		lim = a.Limits
		s0, sEnd = *start, *end
	}

	p := profile.Plan(math.Abs(sEnd-s0), lim)
	fmt.Fprintf(os.Stderr, "shape=%s duration=%g alpha=%g accel_time=%g cruise_time=%g\n",
		p.Shape, p.Duration(), p.Alpha, p.AccelTime, p.CruiseTime)

	fmt.Println("t,pos,vel,accel,jerk")
	for _, t := range sampler.Times(p, *rate) {
		s := profile.Evaluate(t, 0, s0, sEnd, lim)
		fmt.Printf("%g,%g,%g,%g,%g\n", t, s.Pos, s.Vel, s.Accel, s.Jerk)
	}
}
