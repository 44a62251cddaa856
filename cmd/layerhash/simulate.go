package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash"
	"github.com/BrandonKowalski/layerhash/pkg/layerhash/browser"
	"github.com/BrandonKowalski/layerhash/pkg/layerhash/router"
)

const defaultHref = "http://localhost/"

// Script is a scripted navigation session.
type Script struct {
	Href      string      `yaml:"href"`
	PushState *bool       `yaml:"pushstate"`
	Routes    []RouteSpec `yaml:"routes"`
	Steps     []Step      `yaml:"steps"`
}

// RouteSpec registers one pattern with the reference router.
type RouteSpec struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

// Step is one action. Which fields apply depends on Op.
type Step struct {
	Op    string   `yaml:"op"`
	Path  string   `yaml:"path"`
	Paths []string `yaml:"paths"`
	Index int      `yaml:"index"`
	Href  string   `yaml:"href"`
	Push  bool     `yaml:"push"`
}

func loadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return parseScript(data)
}

func parseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	if len(s.Routes) == 0 {
		return Script{}, fmt.Errorf("script declares no routes")
	}
	for i, step := range s.Steps {
		if !knownOps[step.Op] {
			return Script{}, fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
	}
	return s, nil
}

var knownOps = map[string]bool{
	"navigate-all":   true,
	"navigate-last":  true,
	"navigate-layer": true,
	"add-layer":      true,
	"remove-layer":   true,
	"back":           true,
	"forward":        true,
	"edit-hash":      true,
	"ensure-url":     true,
}

type simulation struct {
	out         io.Writer
	cfg         layerhash.Config
	logger      *slog.Logger
	noPushState bool
	metrics     bool
}

func (sim simulation) execute(s Script) error {
	href := s.Href
	if href == "" {
		href = defaultHref
	}

	var memOpts []browser.MemoryOption
	if sim.noPushState || (s.PushState != nil && !*s.PushState) {
		memOpts = append(memOpts, browser.WithoutPushState())
	}
	env := browser.NewMemory(href, memOpts...)

	r := router.New()
	for _, rs := range s.Routes {
		var opts []router.RouteOption
		if rs.Name != "" {
			opts = append(opts, router.Named(rs.Name))
		}
		r.Register(rs.Path, opts...)
	}

	reg := prometheus.NewRegistry()
	metrics, err := layerhash.NewMetrics(reg)
	if err != nil {
		return err
	}

	h, err := layerhash.New(env, r,
		layerhash.WithConfig(sim.cfg),
		layerhash.WithLogger(sim.logger),
		layerhash.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	defer h.Close()

	if h.Redirected() {
		fmt.Fprintf(sim.out, "redirected href=%s\n", env.Href())
		return nil
	}

	var startErr error
	h.Start(nil, func(err error) { startErr = err })
	env.Flush()
	sim.report(0, "start", env, h, startErr)

	for i, step := range s.Steps {
		var stepErr error
		onAbort := func(err error) { stepErr = err }

		switch step.Op {
		case "navigate-all":
			h.NavigateAllLayers(layerhash.Paths(step.Paths...), nil, onAbort)
		case "navigate-last":
			h.NavigateLastLayer(layerhash.Path(step.Path), nil, onAbort)
		case "navigate-layer":
			h.NavigateLayer(step.Index, layerhash.Path(step.Path), nil, onAbort)
		case "add-layer":
			h.NavigateAddLayer(layerhash.Path(step.Path), nil, onAbort)
		case "remove-layer":
			h.NavigateRemoveLayer(nil, onAbort)
		case "back":
			h.Back()
		case "forward":
			h.Forward()
		case "edit-hash":
			env.Edit(step.Href)
		case "ensure-url":
			h.EnsureURL(step.Push)
		}
		env.Flush()
		sim.report(i+1, step.Op, env, h, stepErr)
	}

	if sim.metrics {
		return sim.printMetrics(reg)
	}
	return nil
}

func (sim simulation) report(n int, op string, env *browser.Memory, h *layerhash.HashHistory, err error) {
	line := fmt.Sprintf("%d %s href=%s stack=[%s]", n, op, env.Href(), strings.Join(h.Current().Paths(), " "))
	if err != nil {
		line += fmt.Sprintf(" aborted=%q", err.Error())
	}
	fmt.Fprintln(sim.out, line)
}

func (sim simulation) printMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(sim.out, l)
	}
	return nil
}
