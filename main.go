package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lookbusy1344/picobit-asm/config"
	"github.com/lookbusy1344/picobit-asm/encoder"
	"github.com/lookbusy1344/picobit-asm/hex"
	"github.com/lookbusy1344/picobit-asm/parser"
	"github.com/lookbusy1344/picobit-asm/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	// Command-line flags
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		outFile     = flag.String("o", "", "Output HEX file (default from config, out.hex)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		configFile  = flag.String("config", "", "Config file (default: platform config path)")
		listing     = flag.Bool("listing", false, "Print a hex listing of the assembled image")
		dumpPool    = flag.Bool("dump-pool", false, "Dump the constant pool and global slots")

		enableStats = flag.Bool("stats", false, "Enable instruction statistics")
		statsFile   = flag.String("stats-file", "", "Statistics output file (default: stdout)")
		statsFormat = flag.String("stats-format", "", "Statistics format (json, csv)")
	)

	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("PicoBit assembler %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	// Show help
	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	// Load configuration, flags override
	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if *outFile == "" {
		*outFile = cfg.Output.HexFile
	}
	if *statsFormat == "" {
		*statsFormat = cfg.Statistics.Format
	}
	if !*enableStats && cfg.Statistics.Enabled {
		*enableStats = true
		if *statsFile == "" {
			*statsFile = cfg.Statistics.OutputFile
		}
	}
	if !*listing {
		*listing = cfg.Output.Listing
	}

	asmFile := flag.Arg(0)
	if _, err := os.Stat(asmFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", asmFile)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Parsing: %s\n", asmFile)
	}

	program, err := parser.ParseFile(asmFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error:\n%v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Parsed %d stream elements, %d labels\n",
			len(program.Instructions), len(program.LabelNames))
	}

	asm := encoder.New()
	path, err := asm.Assemble(program, *outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly error: %v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Constants: %d, globals: %d\n", asm.Pool().Len(), asm.Globals().Len())
		fmt.Printf("Wrote: %s\n", path)
	}

	if *dumpPool {
		asm.DumpTables(os.Stdout)
	}

	if *listing {
		if err := printListing(path); err != nil {
			fmt.Fprintf(os.Stderr, "Listing error: %v\n", err)
			os.Exit(1)
		}
	}

	if *enableStats {
		if err := writeStats(asm.Stats(), *statsFile, *statsFormat); err != nil {
			fmt.Fprintf(os.Stderr, "Statistics error: %v\n", err)
			os.Exit(1)
		}
	}
}

// printListing hex-dumps the written image with load addresses.
func printListing(path string) error {
	origin, data, err := hex.ReadFile(path)
	if err != nil {
		return err
	}
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Printf("%04X ", origin+uint32(off)) // #nosec G115 -- off bounded by len(data)
		for _, b := range data[off:end] {
			fmt.Printf(" %02X", b)
		}
		fmt.Println()
	}
	return nil
}

// writeStats exports instruction statistics to a file, or stdout when
// no file is given.
func writeStats(stats *encoder.Statistics, path, format string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path) // #nosec G304 -- user-specified stats output path
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close stats file: %v\n", closeErr)
			}
		}()
		out = f
	}
	return stats.Export(out, format)
}

func printHelp() {
	fmt.Printf(`PicoBit assembler %s

Assembles symbolic PicoBit bytecode into an Intel HEX image loaded at
0x%04X.

Usage:
  picobit-asm [options] <source file>

Options:
  -o <file>          Output HEX file (default out.hex)
  -config <file>     Config file (default: platform config path)
  -listing           Print a hex listing of the assembled image
  -dump-pool         Dump the constant pool and global slots
  -stats             Enable instruction statistics
  -stats-file <f>    Statistics output file (default: stdout)
  -stats-format <f>  Statistics format: json or csv
  -verbose           Verbose output
  -version           Show version information
  -help              Show this help
`, Version, vm.CodeStart)
}
