// Command archopt samples the design space of a benchmark architecture
// optimization problem, or optimizes it with NSGA-II, and writes the design
// vectors as CSV to stdout.
package main

import (
	"context"
	"encoding/csv"
	goflag "flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/archopt/archopt/apis/config/v1alpha1"
	"github.com/archopt/archopt/pkg/archopt/algorithms"
	"github.com/archopt/archopt/pkg/archopt/benchmarks"
	"github.com/archopt/archopt/pkg/archopt/framework"
	"github.com/archopt/archopt/pkg/archopt/sampling"
	"github.com/archopt/archopt/pkg/archopt/util"
)

const (
	modeRandom     = "random"
	modeLHS        = "lhs"
	modeExhaustive = "exhaustive"
)

var problems = map[string]func() framework.Problem{
	"zdt1":                func() framework.Problem { return benchmarks.NewZDT1(30) },
	"mixed-zdt1":          func() framework.Problem { return benchmarks.NewMixedZDT1(false) },
	"mixed-zdt1-discrete": func() framework.Problem { return benchmarks.NewMixedZDT1(true) },
	"jenatton":            func() framework.Problem { return benchmarks.NewJenatton() },
}

func problemNames() []string {
	names := make([]string, 0, len(problems))
	for name := range problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type options struct {
	problem     string
	n           int
	mode        string
	config      string
	seed        uint64
	nsga2       bool
	generations int
	plot        string
}

func parseOptions(args []string) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("archopt", pflag.ContinueOnError)
	fs.StringVar(&o.problem, "problem", "mixed-zdt1", fmt.Sprintf("Benchmark problem, one of %v", problemNames()))
	fs.IntVar(&o.n, "n", 50, "Number of samples, or the population size with --nsga2")
	fs.StringVar(&o.mode, "mode", modeRandom, "Sampling mode: random, lhs or exhaustive")
	fs.StringVar(&o.config, "config", "", "Path to a YAML file with sampling args")
	fs.Uint64Var(&o.seed, "seed", 1, "Random seed")
	fs.BoolVar(&o.nsga2, "nsga2", false, "Optimize with NSGA-II instead of only sampling")
	fs.IntVar(&o.generations, "generations", 25, "Number of NSGA-II generations")
	fs.StringVar(&o.plot, "plot", "", "Directory to write an HTML plot to")

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if _, ok := problems[o.problem]; !ok {
		return nil, fmt.Errorf("unknown problem %q, expected one of %v", o.problem, problemNames())
	}
	switch o.mode {
	case modeRandom, modeLHS, modeExhaustive:
	default:
		return nil, fmt.Errorf("unknown mode %q", o.mode)
	}
	if o.nsga2 && o.mode == modeExhaustive {
		return nil, fmt.Errorf("--nsga2 cannot be combined with --mode=%s", modeExhaustive)
	}
	return o, nil
}

func loadArgs(o *options) (*v1alpha1.SamplingArgs, error) {
	data := []byte("{}")
	if o.config != "" {
		var err error
		if data, err = os.ReadFile(o.config); err != nil {
			return nil, err
		}
	}
	args, err := v1alpha1.LoadSamplingArgs(data)
	if err != nil {
		return nil, err
	}
	if o.mode == modeLHS {
		args.LHS = ptr.To(true)
		args.Sobol = ptr.To(false)
	}
	return args, nil
}

func run(ctx context.Context, o *options, stdout, stderr io.Writer) error {
	logger := klog.FromContext(ctx)
	args, err := loadArgs(o)
	if err != nil {
		return fmt.Errorf("loading sampling args: %w", err)
	}

	p := problems[o.problem]()
	rng := rand.New(rand.NewPCG(o.seed, o.seed))
	repair := framework.ArchOptRepair{}
	onWarning := framework.WarningHandler(func(w framework.Warning) {
		fmt.Fprintln(stderr, w.String())
	})
	enumerator := sampling.NewExhaustiveFromArgs(args, repair)
	enumerator.OnWarning = onWarning

	var (
		pop         framework.Population
		individuals []framework.Individual
	)
	switch {
	case o.nsga2:
		nsga := algorithms.NewNSGAII(o.n, o.generations, p)
		nsga.Initialization = sampling.NewInitializationFromArgs(args, repair, enumerator, onWarning)
		nsga.Eliminate = sampling.NewEliminationFromArgs(args)
		nsga.Mating.MaxRetries = ptr.Deref(args.MaxRetries, v1alpha1.DefaultMaxRetries)
		nsga.Enumerator = sampling.NewCachedEnumerator(enumerator, 0)
		if individuals, err = nsga.Run(ctx, rng); err != nil {
			return err
		}
	case o.mode == modeExhaustive:
		if pop, err = enumerator.Do(ctx, p); err != nil {
			return err
		}
	default:
		in := sampling.NewInitializationFromArgs(args, repair, enumerator, onWarning)
		if pop, err = in.Do(ctx, rng, p, o.n); err != nil {
			return err
		}
	}

	if individuals != nil {
		pop = framework.Population{X: make(framework.Matrix, len(individuals))}
		for i, ind := range individuals {
			pop.X[i] = ind.X
		}
	}
	if err := writeCSV(stdout, p, pop, individuals); err != nil {
		return err
	}
	logger.Info("Wrote design vectors", "problem", p.Name(), "rows", humanize.Comma(int64(pop.Len())))

	if o.plot == "" {
		return nil
	}
	var path string
	if individuals != nil {
		results := make([]framework.ObjectiveSpacePoint, 0, len(individuals))
		for _, ind := range individuals {
			if ind.Rank == 0 {
				results = append(results, ind.Objectives)
			}
		}
		path, err = util.PlotResults(o.plot, results, p, algorithms.Name)
	} else {
		path, err = util.PlotSamples(o.plot, p, pop, o.mode, 0, p.DesignSpace().NVar()-1)
	}
	if err != nil {
		return fmt.Errorf("plotting: %w", err)
	}
	logger.Info("Wrote plot", "path", path)
	return nil
}

func writeCSV(w io.Writer, p framework.Problem, pop framework.Population, individuals []framework.Individual) error {
	nVar := p.DesignSpace().NVar()
	nObj := 0
	if individuals != nil {
		nObj = len(p.ObjectiveFuncs())
	}

	header := make([]string, 0, nVar+nObj)
	for j := 0; j < nVar; j++ {
		header = append(header, "x"+strconv.Itoa(j))
	}
	for j := 0; j < nObj; j++ {
		header = append(header, "f"+strconv.Itoa(j))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i, row := range pop.X {
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		for j := 0; j < nObj; j++ {
			record[nVar+j] = strconv.FormatFloat(individuals[i].Objectives[j], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func main() {
	o, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer klog.Flush()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logr.NewContext(ctx, klog.Background().WithName("archopt"))

	if err := run(ctx, o, os.Stdout, os.Stderr); err != nil {
		klog.ErrorS(err, "Failed", "problem", o.problem)
		klog.Flush()
		os.Exit(1)
	}
}
