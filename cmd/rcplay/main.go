/*
Copyright 2022 The l7mp/stunner team.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sanity-io/litter"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/l7mp/rcollections/internal/buildinfo"
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/operator"
	"github.com/l7mp/rcollections/pkg/pipeline"
	"github.com/l7mp/rcollections/pkg/visualize"
)

var (
	version    = "dev"
	commitHash = "n/a"
	buildDate  = "<unknown>"
)

func main() {
	var file, output string
	var printMetrics bool

	flag.StringVar(&file, "f", "", "The scenario file to replay.")
	flag.StringVar(&output, "o", "log", "Output format: log replays the scenario and logs every "+
		"emitted event, dot and mermaid render the stage graph.")
	flag.BoolVar(&printMetrics, "print-metrics", false, "Dump the operator metrics after the replay.")

	opts := zap.Options{
		Development:     true,
		DestWriter:      os.Stderr,
		StacktraceLevel: zapcore.Level(3),
		TimeEncoder:     zapcore.RFC3339NanoTimeEncoder,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	logger := zap.New(zap.UseFlagOptions(&opts))
	operator.SetLogger(logger.WithName("operator"))
	setupLog := logger.WithName("setup")

	buildInfo := buildinfo.New(version, commitHash, buildDate)
	setupLog.V(1).Info("starting rcplay", buildInfo.KeysAndValues()...)

	if file == "" {
		setupLog.Error(nil, "no scenario file given, use -f")
		os.Exit(1)
	}

	s, err := pipeline.LoadFile(file)
	if err != nil {
		setupLog.Error(err, "unable to load scenario")
		os.Exit(1)
	}

	switch output {
	case "dot":
		fmt.Print((&visualize.DotGenerator{}).Generate(visualize.BuildGraph(s)))
		return
	case "mermaid":
		fmt.Print((&visualize.MermaidGenerator{}).Generate(visualize.BuildGraph(s)))
		return
	case "log":
	default:
		setupLog.Error(nil, "unknown output format", "format", output)
		os.Exit(1)
	}

	if err := replay(s, logger); err != nil {
		setupLog.Error(err, "replay failed")
		os.Exit(1)
	}

	if printMetrics {
		if err := dumpMetrics(); err != nil {
			setupLog.Error(err, "unable to gather metrics")
			os.Exit(1)
		}
	}
}

func replay(s *pipeline.Scenario, logger logr.Logger) error {
	r, err := pipeline.NewRunner(s, logger.WithName("pipeline"))
	if err != nil {
		return err
	}
	defer r.Stop()

	log := logger.WithName("output")
	step := -1
	if l, ok := r.View().List(); ok {
		l.SubscribeList(func(events []change.ListEvent[int64]) {
			log.Info("list events", "step", step, "events", fmt.Sprint(events))
		})
	} else {
		r.View().Collection().Subscribe(func(events []change.Event[int64]) {
			log.Info("collection events", "step", step, "events", fmt.Sprint(events))
		})
	}

	if err := r.Run(ctrl.SetupSignalHandler(), func(i int, st *pipeline.Step) {
		step = i
		log.V(1).Info("step", "index", i, "mutation", litter.Sdump(*st))
	}); err != nil {
		return err
	}

	fmt.Println(litter.Sdump(r.View().Items()))

	return r.Verify()
}

func dumpMetrics() error {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	lines := []string{}
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), "rcollections_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := []string{}
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			value := m.GetCounter().GetValue()
			if m.GetGauge() != nil {
				value = m.GetGauge().GetValue()
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), value))
		}
	}
	sort.Strings(lines)
	fmt.Println(strings.Join(lines, "\n"))

	return nil
}
