/*

Cubar tests whether codon usage bias, used as a proxy for
translational speed, correlates with structural features of the
encoded proteins: closeness to domain boundaries, beta-sheet
membership, chain length and residue packing density.

The basic usage of cubar looks like this:

	cubar boundaries genes.txt

, this will classify residues of every gene as near/far from a domain
boundary and report the codon weight statistics of both classes.

You can choose a different analysis and species:

	cubar -species "S. cerevisiae" beta genes.txt
	cubar -plot length.png length genes.txt

To see all the options run:

	cubar -h

*/
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/turnlab/cubar/correlate"
	"bitbucket.org/turnlab/cubar/retrieve"
	"bitbucket.org/turnlab/cubar/weight"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("cubar")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("cubar", "codon usage bias vs. protein structure correlations").Version(version)

	// analysis
	analysis = app.Arg("analysis", "analysis to run (boundaries, beta, length or sparseness)").
			Required().Enum("boundaries", "beta", "length", "sparseness")
	namesFileName = app.Arg("genes", "line-by-line list of gene identifiers").Required().ExistingFile()

	// analysis parameters
	radius = app.Flag("radius", "residues within this distance of a domain boundary count as near").Default("5").Int()
	strict = app.Flag("strict", "skip genes with a sequence/structure length mismatch").Bool()

	// codon weights
	speciesName   = app.Flag("species", "species with a bundled frequency table (E. coli or S. cerevisiae)").Default("E. coli").String()
	freqDirName   = app.Flag("freqdir", "directory with .codons frequency tables").Default("frequencies").String()
	cFreqFileName = app.Flag("cfreqfn", "codon frequencies file (overrides -species)").String()

	// data retrieval
	scopClaFileName = app.Flag("scop", "SCOP classification (dir.cla) file for domain lookup").String()
	cacheFileName   = app.Flag("cachedb", "bolt database for persistent caching of fetched data").String()
	cacheSize       = app.Flag("cachesize", "in-memory cache capacity (entries per data kind), 0 for unlimited").Default("100").Int()
	cacheTTLDays    = app.Flag("cachettl", "days before a persisted record expires, 0 to keep forever").Default("0").Int()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	plotF    = app.Flag("plot", "write a scatter plot (length and sparseness analyses only)").String()
	jsonF    = app.Flag("json", "write json output to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
)

// newSource builds the data source stack: web retrieval behind an
// explicit bounded cache, optionally persisted in a bolt database.
func newSource() (retrieve.Source, func(), error) {
	web, err := retrieve.NewWebSource(*scopClaFileName)
	if err != nil {
		return nil, nil, err
	}

	var store *retrieve.BoltStore
	closer := func() {}
	if *cacheFileName != "" {
		db, err := bolt.Open(*cacheFileName, 0666, nil)
		if err != nil {
			return nil, nil, err
		}
		closer = func() { db.Close() }
		store = retrieve.NewBoltStore(db, time.Duration(*cacheTTLDays)*24*time.Hour)
	}

	return retrieve.NewCache(web, *cacheSize, store), closer, nil
}

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{Analysis: *analysis}

	var weights *weight.Table
	var err error
	if *cFreqFileName != "" {
		weights, err = weight.ReadFile(*cFreqFileName)
	} else {
		weights, err = weight.ForSpecies(*freqDirName, weight.Species(*speciesName))
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Read weights for %d codons", weights.NWeights())

	source, closeSource, err := newSource()
	if err != nil {
		log.Fatal(err)
	}
	defer closeSource()

	corr := correlate.New(weights, source)
	corr.StrictFrame = *strict
	if err := corr.ReadNamesFile(*namesFileName); err != nil {
		log.Fatal(err)
	}
	summary.GenesRequested = corr.NNames()
	log.Infof("Read %d gene identifiers", corr.NNames())

	switch *analysis {
	case "boundaries":
		log.Infof("Evaluating domain boundaries, radius=%d", *radius)
		eval, err := corr.EvaluateNearDomainBoundaries(*radius)
		if err != nil {
			log.Fatal(err)
		}
		reportEvaluation(summary, eval)
		summary.Radius = *radius
	case "beta":
		log.Info("Evaluating beta sheets")
		eval, err := corr.EvaluateWithinBetaSheets()
		if err != nil {
			log.Fatal(err)
		}
		reportEvaluation(summary, eval)
	case "length":
		log.Info("Correlating with sequence length")
		values, totals, err := corr.CorrelateLength()
		if err != nil {
			log.Fatal(err)
		}
		reportCorrelation(summary, "length", values, totals)
	case "sparseness":
		log.Info("Correlating with sparseness")
		values, totals, err := corr.CorrelateSparseness()
		if err != nil {
			log.Fatal(err)
		}
		reportCorrelation(summary, "sparseness", values, totals)
	}

	endTime := time.Now()

	deltaT := endTime.Sub(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return
}

// reportEvaluation prints and stores the two-class summary.
func reportEvaluation(summary *RunSummary, eval *correlate.Evaluation) {
	summary.GenesProcessed = eval.Len()
	log.Noticef("Processed %d of %d genes", eval.Len(), summary.GenesRequested)
	if eval.Len() == 0 {
		log.Notice("No genes could be processed")
		return
	}
	summary.Positive = classSummary(eval.Positive())
	summary.Negative = classSummary(eval.Negative())
	fmt.Println(eval)
}

// classSummary zeroes statistics that are undefined because a class
// is empty in every gene, so the summary always marshals to JSON.
func classSummary(cs correlate.ClassSummary) *correlate.ClassSummary {
	if math.IsNaN(cs.MeanOfMeans) {
		cs.MeanOfMeans = 0
	}
	if math.IsNaN(cs.MeanOfSDs) {
		cs.MeanOfSDs = 0
	}
	return &cs
}

// reportCorrelation prints and stores the Pearson coefficient, and
// writes a scatter plot if requested.
func reportCorrelation(summary *RunSummary, label string, values, totals []float64) {
	summary.GenesProcessed = len(values)
	log.Noticef("Processed %d of %d genes", len(values), summary.GenesRequested)

	r := correlate.Pearson(values, totals)
	if math.IsNaN(r) {
		log.Notice("Too few genes for a correlation coefficient")
	} else {
		summary.Pearson = &r
		fmt.Printf("r = %.4f\n", r)
	}

	if *plotF != "" && len(values) > 0 {
		if err := scatterPlot(*plotF, label, values, totals); err != nil {
			log.Error("Error writing plot:", err)
		}
	}
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "cubar")
	logging.SetLevel(level, "correlate")
	logging.SetLevel(level, "retrieve")
	logging.SetLevel(level, "weight")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	summary := run()
	summary.Version = version
	summary.CommandLine = os.Args

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
