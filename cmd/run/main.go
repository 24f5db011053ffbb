package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/fumin/spinglass"
	"github.com/fumin/spinglass/anneal"
)

var (
	problem     = flag.String("problem", string(spinglass.Clique), "problem, one of clique coloring covering fes hamiltonian partition")
	graphPath   = flag.String("graph", "", "edge list file, one \"u v\" pair per line")
	complete    = flag.Int("complete", 5, "number of nodes of the complete graph, used when -graph and -set are empty")
	extra       = flag.String("extra", "4-5", "extra edges \"u-v\" added to the graph, comma separated")
	set         = flag.String("set", "", "comma separated numbers, for set problems")
	numSteps    = flag.Int("steps", 100, "number of annealing steps")
	backend     = flag.String("backend", "memory", "memory or disk")
	runDir      = flag.String("d", filepath.Join("runs", "spinglass"), "run directory, holding the databases of the disk backend")
	progress    = flag.Duration("progress", 0, "interval between progress logs")
	metricsAddr = flag.String("metrics", "", "address to serve prometheus metrics, e.g. :9090")
)

func parseEdge(s string) ([2]int64, error) {
	s = strings.TrimSpace(s)
	uv := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ' ' || r == '\t' })
	if len(uv) != 2 {
		return [2]int64{}, errors.Errorf("%q", s)
	}
	var e [2]int64
	for i, x := range uv {
		var err error
		e[i], err = strconv.ParseInt(x, 10, 64)
		if err != nil {
			return [2]int64{}, errors.Wrap(err, fmt.Sprintf("%q", s))
		}
	}
	return e, nil
}

func setEdge(g *simple.UndirectedGraph, e [2]int64) {
	for _, id := range e {
		if g.Node(id) == nil {
			g.AddNode(simple.Node(id))
		}
	}
	if e[0] == e[1] {
		return
	}
	g.SetEdge(simple.Edge{F: simple.Node(e[0]), T: simple.Node(e[1])})
}

func loadGraph(fpath string) (*simple.UndirectedGraph, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer f.Close()

	g := simple.NewUndirectedGraph()
	scanner := bufio.NewScanner(f)
	for lineI := 1; scanner.Scan(); lineI++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseEdge(line)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("line %d", lineI))
		}
		setEdge(g, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return g, nil
}

func newGraph() (*simple.UndirectedGraph, error) {
	var g *simple.UndirectedGraph
	if *graphPath != "" {
		var err error
		g, err = loadGraph(*graphPath)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
	} else {
		g = simple.NewUndirectedGraph()
		for u := range int64(*complete) {
			g.AddNode(simple.Node(u))
			for v := range u {
				g.SetEdge(simple.Edge{F: simple.Node(v), T: simple.Node(u)})
			}
		}
	}

	for _, s := range strings.Split(*extra, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		e, err := parseEdge(s)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		setEdge(g, e)
	}
	return g, nil
}

func newSpinGlass() (*spinglass.SpinGlass, error) {
	if *set == "" {
		g, err := newGraph()
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		return spinglass.FromGraph(g, spinglass.Problem(*problem))
	}

	seq := make([]float64, 0)
	for _, s := range strings.Split(*set, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%q", s))
		}
		seq = append(seq, v)
	}
	return spinglass.FromSet(seq, spinglass.Problem(*problem))
}

func newOptions(reg prometheus.Registerer) (anneal.Options, error) {
	opt := anneal.NewOptions().Steps(*numSteps).Metrics(anneal.NewMetrics(reg))
	if *progress > 0 {
		opt = opt.Progress(*progress)
	}
	switch *backend {
	case "memory":
		opt = opt.Backend(anneal.MemoryBackend{})
	case "disk":
		if err := os.MkdirAll(*runDir, os.ModePerm); err != nil {
			return anneal.Options{}, errors.Wrap(err, "")
		}
		opt = opt.Backend(anneal.DiskBackend{Dir: *runDir})
	default:
		return anneal.Options{}, errors.Errorf("unknown backend %q", *backend)
	}
	return opt, nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Printf("%+v", errors.Wrap(err, ""))
			}
		}()
	}

	sg, err := newSpinGlass()
	if err != nil {
		return errors.Wrap(err, "")
	}
	opt, err := newOptions(reg)
	if err != nil {
		return errors.Wrap(err, "")
	}
	session := anneal.NewSession()
	if err := session.Initialize(sg, opt); err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("%s on %d qubits, %d steps", *problem, session.NumQubits(), session.NumSteps())

	if err := session.Execute(ctx); err != nil {
		return errors.Wrap(err, "")
	}
	res, err := session.Results()
	if err != nil {
		return errors.Wrap(err, "")
	}

	fmt.Printf("step,gap\n")
	for t, g := range res.SpectralGaps {
		fmt.Printf("%d,%f\n", t, g)
	}
	fmt.Printf("basis,amplitude\n")
	for i, v := range res.FinalState() {
		fmt.Printf("%0*b,%s\n", session.NumQubits(), i, strconv.FormatComplex(v, 'f', 6, 128))
	}
	return nil
}
