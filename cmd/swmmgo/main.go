// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command swmmgo runs a drainage-network simulation end to end: load a
// JSON project file, stride the runtime.Controller through a fixed
// duration, and write a plain-text report and a JSON results summary.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpmech/swmmgo/inp"
	"github.com/cpmech/swmmgo/massbal"
	"github.com/cpmech/swmmgo/proj"
	"github.com/cpmech/swmmgo/runtime"
)

var (
	duration float64
	tstep    float64
	verbose  bool
)

func init() {
	root.Flags().Float64Var(&duration, "duration", 86400, "total simulation duration, seconds")
	root.Flags().Float64Var(&tstep, "tstep", 0, "routing step override, seconds (0 => project's RouteStep)")
	root.Flags().BoolVar(&verbose, "verbose", false, "log every stride instead of only start/end")
}

var root = &cobra.Command{
	Use:   "swmmgo <input> <report> <output>",
	Short: "Run a drainage-network simulation.",
	Long: `swmmgo loads a JSON project file, runs the simulation for --duration
seconds, and writes a section-ordered text report plus a JSON results
summary. Exit code is 0 on success, non-zero on any fatal error.`,
	Args:              cobra.ExactArgs(3),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], args[1], args[2])
	},
}

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "swmmgo: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a runtime.Error's numeric code onto a process exit status
// in [1,255], per spec.md §6's "exit code 0 on success, non-zero error
// code on any fatal error" (any fatal error at all, not just runtime.Error,
// still exits non-zero; codes outside the POSIX byte range are folded
// down rather than silently truncated away).
func exitCode(err error) int {
	var rerr *runtime.Error
	if !errors.As(err, &rerr) || rerr.Code == 0 {
		return 1
	}
	code := int(rerr.Code) % 255
	if code == 0 {
		code = 1
	}
	return code
}

func run(inputPath, reportPath, outputPath string) error {
	log := logrus.StandardLogger()

	p, err := inp.LoadFile(inputPath)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	c := runtime.NewController(p)
	c.SetLogger(log.WithField("project", inputPath))

	if err := c.Open(); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if err := c.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	step := tstep
	if step <= 0 {
		step = p.Options.RouteStep
	}
	if step <= 0 {
		return fmt.Errorf("route step must be > 0 (got %v; set --tstep or the project's route_step_sec)", step)
	}
	strideLen := step * 60 // strides of ~60 routing steps, logged at debug level only
	if verbose {
		strideLen = step
		log.SetLevel(logrus.DebugLevel)
	}

	for elapsed := 0.0; elapsed < duration; {
		remaining := duration - elapsed
		this := strideLen
		if this > remaining {
			this = remaining
		}
		if err := c.Stride(this); err != nil {
			return fmt.Errorf("stride at t=%.0fs: %w", elapsed, err)
		}
		elapsed += this
		log.WithField("elapsed_s", elapsed).Debug("stride complete")
	}

	if err := c.End(); err != nil {
		return fmt.Errorf("end: %w", err)
	}

	tracker, err := c.Report()
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := writeReport(reportPath, p, tracker, duration); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := writeOutput(outputPath, p, tracker); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return c.Close()
}

// writeReport renders spec.md's "plain text, section-ordered summary:
// input echo, per-element continuity and statistics tables" report.
func writeReport(path string, p *proj.Project, t *massbal.Tracker, duration float64) error {
	var b strings.Builder

	fmt.Fprintf(&b, "swmmgo simulation report\n")
	fmt.Fprintf(&b, "========================\n\n")
	fmt.Fprintf(&b, "Title............. %s\n", p.Options.Title)
	fmt.Fprintf(&b, "Routing model...... %v\n", p.Options.RoutingModel)
	fmt.Fprintf(&b, "Duration........... %.0f sec\n", duration)
	fmt.Fprintf(&b, "Route step......... %.1f sec\n", p.Options.RouteStep)
	fmt.Fprintf(&b, "Subcatchments...... %d\n", len(p.Subcatchs))
	fmt.Fprintf(&b, "Nodes.............. %d\n", len(p.Nodes))
	fmt.Fprintf(&b, "Links.............. %d\n\n", len(p.Links))

	fmt.Fprintf(&b, "Subcatchment Runoff Summary\n")
	fmt.Fprintf(&b, "---------------------------\n")
	fmt.Fprintf(&b, "%-16s %12s %12s %12s\n", "Subcatchment", "Total Precip", "Total Runoff", "Peak Runoff")
	for i, s := range p.Subcatchs {
		st := t.Subcatch[i]
		fmt.Fprintf(&b, "%-16s %12.4f %12.4f %12.4f\n", s.ID, st.Precip, st.Runoff, st.MaxFlow)
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Node Depth Summary\n")
	fmt.Fprintf(&b, "------------------\n")
	fmt.Fprintf(&b, "%-16s %12s %12s %12s\n", "Node", "Avg Depth", "Max Depth", "Max Overflow")
	for i, n := range p.Nodes {
		st := t.Node[i]
		avg := 0.0
		if duration > 0 {
			avg = st.AvgDepth / duration
		}
		fmt.Fprintf(&b, "%-16s %12.4f %12.4f %12.4f\n", n.ID, avg, st.MaxDepth, st.MaxOverflow)
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Link Flow Summary\n")
	fmt.Fprintf(&b, "-----------------\n")
	fmt.Fprintf(&b, "%-16s %12s %12s %10s\n", "Link", "Max Flow", "Max Veloc", "Turns")
	for i, l := range p.Links {
		st := t.Link[i]
		fmt.Fprintf(&b, "%-16s %12.4f %12.4f %10d\n", l.ID, st.MaxFlow, st.MaxVeloc, st.FlowTurns)
	}
	fmt.Fprintln(&b)

	if len(t.Outfall) > 0 {
		fmt.Fprintf(&b, "Outfall Loading Summary\n")
		fmt.Fprintf(&b, "-----------------------\n")
		fmt.Fprintf(&b, "%-16s %12s %12s\n", "Outfall", "Avg Flow", "Max Flow")
		for ref, st := range t.Outfall {
			fmt.Fprintf(&b, "%-16s %12.4f %12.4f\n", p.Nodes[ref].ID, st.AvgFlow, st.MaxFlow)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "Runoff quantity continuity error.. %.2f%%\n\n", t.Runoff.Error()*100)

	for _, rs := range t.MaxMassBalErrs.Ranked() {
		if rs.Value == 0 {
			continue
		}
		fmt.Fprintf(&b, "WARNING: mass balance error %.2f%% for pollutant %d\n", rs.Value, rs.Ref)
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// resultsDoc is the JSON results summary written to the CLI's <output>
// argument. Not the spec's packed binary record layout (an external
// downstream-tool concern out of scope here); a JSON rendering of the
// same per-object peak/average statistics the binary format carries.
type resultsDoc struct {
	Subcatchments []subcResult `json:"subcatchments"`
	Nodes         []nodeResult `json:"nodes"`
	Links         []linkResult `json:"links"`
}

type subcResult struct {
	ID          string  `json:"id"`
	TotalPrecip float64 `json:"total_precip_ft"`
	TotalRunoff float64 `json:"total_runoff_ft"`
	PeakRunoff  float64 `json:"peak_runoff_cfs"`
}

type nodeResult struct {
	ID          string  `json:"id"`
	MaxDepth    float64 `json:"max_depth_ft"`
	MaxOverflow float64 `json:"max_overflow_cfs"`
}

type linkResult struct {
	ID        string  `json:"id"`
	MaxFlow   float64 `json:"max_flow_cfs"`
	MaxVeloc  float64 `json:"max_velocity_fps"`
	FlowTurns int     `json:"flow_turns"`
}

func writeOutput(path string, p *proj.Project, t *massbal.Tracker) error {
	doc := resultsDoc{
		Subcatchments: make([]subcResult, len(p.Subcatchs)),
		Nodes:         make([]nodeResult, len(p.Nodes)),
		Links:         make([]linkResult, len(p.Links)),
	}
	for i, s := range p.Subcatchs {
		st := t.Subcatch[i]
		doc.Subcatchments[i] = subcResult{ID: s.ID, TotalPrecip: st.Precip, TotalRunoff: st.Runoff, PeakRunoff: st.MaxFlow}
	}
	for i, n := range p.Nodes {
		st := t.Node[i]
		doc.Nodes[i] = nodeResult{ID: n.ID, MaxDepth: st.MaxDepth, MaxOverflow: st.MaxOverflow}
	}
	for i, l := range p.Links {
		st := t.Link[i]
		doc.Links[i] = linkResult{ID: l.ID, MaxFlow: st.MaxFlow, MaxVeloc: st.MaxVeloc, FlowTurns: st.FlowTurns}
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
