package main

import (
	"os"

	"github.com/ChristopherRabotin/einstein"
	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Runs every scenario of $EINSTEIN_CONFIG/conf.toml and logs their summaries.

func main() {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "ts", kitlog.DefaultTimestampUTC)

	dir, err := einstein.ScenarioDirFromEnv()
	if err != nil {
		klog.Log("level", "critical", "subsys", "config", "err", err)
		os.Exit(1)
	}
	consts, scenarios, err := einstein.LoadScenarioDir(dir)
	if err != nil {
		klog.Log("level", "critical", "subsys", "config", "err", err)
		os.Exit(1)
	}
	klog.Log("level", "info", "subsys", "config", "constants", consts, "scenarios", len(scenarios))

	reg := prometheus.NewRegistry()
	metrics, err := einstein.NewCollector(reg)
	if err != nil {
		klog.Log("level", "critical", "subsys", "metrics", "err", err)
		os.Exit(1)
	}
	results, runErr := einstein.RunScenarios(scenarios, klog, metrics)
	for _, res := range results {
		if res.Scenario == "" {
			continue // failed, already logged
		}
		s := res.Summary
		klog.Log("level", "notice", "subsys", "einstein", "scenario", res.Scenario,
			"min", s.MinRatio, "max", s.MaxRatio, "p2p(ppt)", s.PeakToPeakPPT,
			"drift(ns)", s.FinalDrift*1e9, "ideal(ns)", s.FinalIdealDrift*1e9, "excess(ns)", s.DriftExcess()*1e9)
	}
	if err := einstein.LogMetrics(klog, reg); err != nil {
		klog.Log("level", "warning", "subsys", "metrics", "err", err)
	}
	if runErr != nil {
		os.Exit(2)
	}
}
