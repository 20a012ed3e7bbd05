package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/saucy-go/SaucyGo/lib"
)

const version = "1.0.0"

var (
	gapMode     bool
	cnfMode     bool
	digraphMode bool
	statsMode   bool
	quietMode   bool
	verbose     bool
	timeout     int
	repeat      int

	sbpFile      string
	shatterStats bool
	shatterQuiet bool
)

func logActive(b bool) {
	log.SetFlags(0)
	if b {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
}

var rootCmd = &cobra.Command{
	Use:   "saucygo [flags] FILE",
	Short: "Search for the automorphism group of a colored graph",
	Long: `saucygo enumerates a set of generators for the automorphism group of a
vertex-colored graph and reports the group's order. Inputs may be plain
colored graphs, GAP-style graphs or DIMACS CNF formulas, raw or
gzip/zstd compressed.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runSearch,
}

var shatterCmd = &cobra.Command{
	Use:   "shatter [flags] FILE",
	Short: "Emit symmetry-breaking predicates for a CNF formula",
	Args:  cobra.ExactArgs(1),
	RunE:  runShatter,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("saucygo %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.Flags().BoolVar(&gapMode, "gap", false, "read a GAP-style graph")
	rootCmd.Flags().BoolVar(&cnfMode, "cnf", false, "read a DIMACS CNF formula")
	rootCmd.Flags().BoolVar(&digraphMode, "digraph", false, "read a digraph; arc order matters")
	rootCmd.Flags().BoolVarP(&statsMode, "stats", "s", false, "print statistics after execution")
	rootCmd.Flags().BoolVarP(&quietMode, "quiet", "q", false, "don't output automorphisms")
	rootCmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "seconds before giving up the search")
	rootCmd.Flags().IntVar(&repeat, "repeat", 1, "run the search N times, for benchmarking")

	shatterCmd.Flags().StringVarP(&sbpFile, "sbpfile", "o", "", "put symmetry-breaking predicates in FILE")
	shatterCmd.Flags().BoolVarP(&shatterStats, "stats", "s", false, "print statistics after execution")
	shatterCmd.Flags().BoolVarP(&shatterQuiet, "quiet", "q", false, "don't output the final CNF formula")

	rootCmd.AddCommand(shatterCmd, versionCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logActive(verbose)

	modes := 0
	for _, m := range []bool{gapMode, cnfMode, digraphMode} {
		if m {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("--gap, --cnf and --digraph are mutually exclusive")
	}

	dat, err := lib.ReadInput(args[0])
	if err != nil {
		return err
	}

	var g *lib.Graph
	var colors []int
	var info *lib.DimacsInfo
	switch {
	case gapMode:
		g, colors, err = lib.ReadGapGraph(dat)
	case cnfMode:
		g, colors, info, err = lib.ReadDimacs(dat)
	default:
		g, colors, err = lib.ReadGraph(dat, digraphMode)
	}
	if err != nil {
		return err
	}
	log.Printf("parsed %s: %d vertices, %d edges", args[0], g.N, g.E)

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	marks := make([]bool, g.N)
	first := false
	var gens [][]int
	consumer := func(n int, gamma []int, support []int) bool {
		if statsMode {
			gens = append(gens, append([]int(nil), gamma[:n]...))
		}
		if !quietMode {
			switch {
			case gapMode:
				if !first {
					fmt.Print("[\n")
				} else {
					fmt.Print(",\n")
				}
				printGapPerm(gamma, support, marks)
			case cnfMode:
				printDimacsPerm(gamma, support, info.Vars, marks)
			default:
				printPerm(gamma, support, marks)
			}
		}
		first = true
		return ctx.Err() == nil
	}

	s := lib.NewSaucy(g.N)
	var stats lib.Stats
	start := time.Now()
	for i := 0; i < repeat; i++ {
		s.Search(g, digraphMode, colors, consumer, &stats)
	}
	elapsed := time.Since(start)

	if gapMode && !quietMode {
		if first {
			fmt.Println("\n]")
		} else {
			fmt.Println("[]")
		}
	}
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "saucygo: search timed out")
	}

	if statsMode {
		fmt.Printf("input file = %s\n", args[0])
		if info != nil {
			fmt.Printf("variables = %d\n", info.Vars)
			fmt.Printf("clauses = %d\n", info.OrigClauses)
			fmt.Printf("non-binary clauses = %d\n", info.Clauses)
			fmt.Printf("literals = %d\n", info.Literals)
		}
		fmt.Printf("vertices = %d\n", g.N)
		fmt.Printf("edges = %d\n", g.E)
		fmt.Printf("group size = %fe%d\n", stats.GrpsizeBase, stats.GrpsizeExp)
		fmt.Printf("levels = %d\n", stats.Levels)
		fmt.Printf("nodes = %d\n", stats.Nodes)
		fmt.Printf("generators = %d\n", stats.Gens)
		fmt.Printf("total support = %d\n", stats.Support)
		fmt.Printf("average support = %s\n", divide(stats.Support, stats.Gens))
		fmt.Printf("nodes per generator = %s\n", divide(stats.Nodes, stats.Gens))
		fmt.Printf("bad nodes = %d\n", stats.Bads)
		fmt.Printf("orbits = %d\n", len(lib.Orbits(g.N, gens)))
		fmt.Printf("search time = %.5f ms\n", float64(elapsed)/float64(time.Millisecond))
	}
	return nil
}

func runShatter(cmd *cobra.Command, args []string) error {
	logActive(verbose)

	dat, err := lib.ReadInput(args[0])
	if err != nil {
		return err
	}
	g, colors, info, err := lib.ReadDimacs(dat)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	sh := lib.NewShatter(info, &buf)

	s := lib.NewSaucy(g.N)
	var stats lib.Stats
	start := time.Now()
	s.Search(g, false, colors, sh.Consume, &stats)
	elapsed := time.Since(start)
	if err := sh.Flush(); err != nil {
		return err
	}

	if sbpFile != "" {
		if err := os.WriteFile(sbpFile, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}

	if !shatterQuiet {
		fmt.Printf("p cnf %d %d\n", sh.Vars(), sh.Clauses())
		os.Stdout.Write(formulaBody(dat))
		os.Stdout.Write(buf.Bytes())
	}

	if shatterStats {
		w := io.Writer(os.Stderr)
		if shatterQuiet {
			w = os.Stdout
		}
		fmt.Fprintln(w, "----------- formula info ----------")
		fmt.Fprintf(w, "input file = %s\n", args[0])
		fmt.Fprintf(w, "variables = %d\n", info.Vars)
		fmt.Fprintf(w, "clauses = %d\n", info.OrigClauses)
		fmt.Fprintf(w, "non-binary clauses = %d\n", info.Clauses)
		fmt.Fprintf(w, "literals = %d\n", info.Literals)
		fmt.Fprintln(w, "-------- symmetry discovery -------")
		fmt.Fprintf(w, "group size = %fe%d\n", stats.GrpsizeBase, stats.GrpsizeExp)
		fmt.Fprintf(w, "generators = %d\n", stats.Gens)
		fmt.Fprintf(w, "consistency violations = %d\n", sh.Violations())
		fmt.Fprintln(w, "------- predicate generation ------")
		fmt.Fprintf(w, "extra variables = %d\n", sh.Vars()-info.Vars)
		fmt.Fprintf(w, "extra clauses = %d\n", sh.Clauses()-info.OrigClauses)
		fmt.Fprintf(w, "extra literals = %d\n", sh.Literals())
		fmt.Fprintf(w, "search time = %.5f ms\n", float64(elapsed)/float64(time.Millisecond))
	}
	return nil
}

// formulaBody returns the clause section of a CNF file: everything after
// the leading comments and the problem line.
func formulaBody(dat []byte) []byte {
	i := 0
	for i < len(dat) && (dat[i] == 'c' || dat[i] == 'p') {
		for i < len(dat) && dat[i] != '\n' {
			i++
		}
		if i < len(dat) {
			i++
		}
	}
	return dat[i:]
}

func printPerm(gamma, support []int, marks []bool) {
	for _, k := range support {
		if marks[k] {
			continue
		}
		marks[k] = true
		fmt.Printf("(%d", k)
		for j := gamma[k]; j != k; j = gamma[j] {
			marks[j] = true
			fmt.Printf(" %d", j)
		}
		fmt.Print(")")
	}
	fmt.Println()
	for _, k := range support {
		marks[k] = false
	}
}

func printGapPerm(gamma, support []int, marks []bool) {
	for _, k := range support {
		if marks[k] {
			continue
		}
		marks[k] = true
		fmt.Printf("(%d", k+1)
		for j := gamma[k]; j != k; j = gamma[j] {
			marks[j] = true
			fmt.Printf(",%d", j+1)
		}
		fmt.Print(")")
	}
	for _, k := range support {
		marks[k] = false
	}
}

func printDimacsPerm(gamma, support []int, vars int, marks []bool) {
	printed := false
	for _, k := range support {
		if k >= 2*vars {
			break
		}
		if marks[k] {
			continue
		}
		printed = true
		marks[k] = true
		fmt.Printf("(%d", lib.V2L(k, vars))
		for j := gamma[k]; j != k; j = gamma[j] {
			marks[j] = true
			fmt.Printf(" %d", lib.V2L(j, vars))
		}
		fmt.Print(")")
	}
	if printed {
		fmt.Println()
	}
	for _, k := range support {
		marks[k] = false
	}
}

func divide(num, den int) string {
	if den == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(num)/float64(den))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
