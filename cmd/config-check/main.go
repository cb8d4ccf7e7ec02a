// config-check validates an orchestration configuration document and prints
// every problem found, so operators fix a broken file in one pass instead of
// one error per run.
//
// Usage:
//
//	config-check [-quiet] [-dump] <config.toml>
//
// Exit codes: 0 valid, 1 invalid, 2 usage error.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/routewise/pmconfig/internal/domain"
	"github.com/routewise/pmconfig/internal/loader"
)

func main() {
	quiet := flag.Bool("quiet", false, "suppress output, rely on exit code")
	dump := flag.Bool("dump", false, "print the normalized document on success")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: config-check [-quiet] [-dump] <config.toml>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := loader.LoadFile(path)
	if err != nil {
		if !*quiet {
			printLoadError(path, err)
		}
		os.Exit(1)
	}

	if *dump {
		out, err := loader.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	if !*quiet {
		fmt.Printf("%s: ok (%d connectors, %d filter tables)\n", path, len(cfg.Connectors), len(cfg.PMFilters))
	}
}

func printLoadError(path string, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		fmt.Fprintf(os.Stderr, "%s: %d configuration error(s)\n", path, len(verrs))
		for _, fe := range verrs {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Msg)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
}
