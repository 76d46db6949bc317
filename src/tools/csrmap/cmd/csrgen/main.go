package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"path/filepath"

	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/tools/csrmap"
)

var outfile = flag.String("o", "", "output filename (default stdout)")
var pkg = flag.String("p", "main", "package to emit generated code into")
var outtags = flag.String("b", "tinygo", "output build tags (copied verbatim to output)")
var prefix = flag.String("x", dotp.DefaultPrefix, "CSR prefix of the dot product accelerator")

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: csrgen -p <pkg> -b <tags> -o <outputfile> <csr.csv>")
	}
	fp, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()
	m, err := csrmap.Parse(fp)
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}

	//the firmware overlays the default layout, so anything else is a
	//gateware change the driver has not caught up with
	base, layout, err := m.DotProductLayout(*prefix)
	if err != nil {
		log.Printf("warning: %v", err)
	} else if layout != dotp.DefaultLayout() {
		log.Printf("warning: %s registers at 0x%x do not use the default layout", *prefix, base)
	}

	var buf bytes.Buffer
	opts := csrmap.Options{Package: *pkg, Tags: *outtags, Source: filepath.Base(flag.Arg(0))}
	if err := csrmap.Generate(&buf, m, opts); err != nil {
		log.Fatal(err)
	}
	if *outfile == "" {
		os.Stdout.Write(buf.Bytes())
		return
	}
	if err := os.WriteFile(*outfile, buf.Bytes(), 0644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d registers and %d constants to %s", len(m.Registers), len(m.Constants), *outfile)
}
