// Command spectable precomputes RGB-to-spectrum coefficient tables.
//
// The table for a gamut is written either as a compact binary blob for
// runtime loading or as a generated Go source file for embedding.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/optics"
	"github.com/gogpu/optics/spectrum"
)

func main() {
	var (
		gamutName = flag.String("gamut", "srgb", "color gamut (srgb, pro_photo_rgb, aces2065_1, rec2020, ergb, xyz, dci_p3, or all)")
		res       = flag.Int("res", spectrum.TableRes, "table resolution per axis")
		output    = flag.String("output", ".", "output file, or directory when -gamut=all")
		format    = flag.String("format", "bin", "output format: bin or go")
		pkg       = flag.String("pkg", "spectra", "package name for -format=go")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		optics.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var gamuts []spectrum.Gamut
	if *gamutName == "all" {
		gamuts = []spectrum.Gamut{
			spectrum.GamutSRGB, spectrum.GamutProPhotoRGB, spectrum.GamutACES2065_1,
			spectrum.GamutRec2020, spectrum.GamutERGB, spectrum.GamutXYZ, spectrum.GamutDCIP3,
		}
	} else {
		g, err := spectrum.ParseGamut(*gamutName)
		if err != nil {
			log.Fatalf("Bad gamut: %v", err)
		}
		gamuts = []spectrum.Gamut{g}
	}

	for _, g := range gamuts {
		start := time.Now()
		table, err := spectrum.GenerateTable(g, *res)
		if err != nil {
			log.Fatalf("Generate %s: %v", g, err)
		}
		log.Printf("Generated %s table (res %d) in %s", g, *res, time.Since(start).Round(time.Millisecond))

		path := *output
		if *gamutName == "all" {
			path = filepath.Join(*output, g.String()+"."+*format)
		}
		if err := writeTable(path, table, g, *format, *pkg); err != nil {
			log.Fatalf("Write %s: %v", path, err)
		}
		log.Printf("Wrote %s", path)
	}
}

func writeTable(path string, table *spectrum.Table, g spectrum.Gamut, format, pkg string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "bin":
		if err := table.Encode(f); err != nil {
			return err
		}
	case "go":
		if err := writeGoSource(f, table, g, pkg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return f.Close()
}

// writeGoSource emits the table as a compilable Go source file exposing
// the scale axis and flattened coefficients for one gamut.
func writeGoSource(w io.Writer, table *spectrum.Table, g spectrum.Gamut, pkg string) error {
	bw := bufio.NewWriter(w)

	name := exportName(g.String())
	fmt.Fprintf(bw, "// Code generated by spectable; DO NOT EDIT.\n\n")
	fmt.Fprintf(bw, "package %s\n\n", pkg)
	fmt.Fprintf(bw, "const %sTableRes = %d\n\n", name, table.Res)

	fmt.Fprintf(bw, "var %sTableScale = [%d]float32{", name, table.Res)
	for i, v := range table.ZNodes {
		if i%8 == 0 {
			fmt.Fprintf(bw, "\n\t")
		}
		fmt.Fprintf(bw, "%v, ", v)
	}
	fmt.Fprintf(bw, "\n}\n\n")

	fmt.Fprintf(bw, "var %sTableData = [%d]float32{", name, len(table.Coefficients))
	for i, v := range table.Coefficients {
		if i%8 == 0 {
			fmt.Fprintf(bw, "\n\t")
		}
		fmt.Fprintf(bw, "%v, ", v)
	}
	fmt.Fprintf(bw, "\n}\n")

	return bw.Flush()
}

// exportName turns a gamut identifier like pro_photo_rgb into ProPhotoRGB
// style camel case suitable for an exported Go name.
func exportName(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		switch p {
		case "rgb", "srgb", "xyz", "ergb", "dci", "p3":
			b.WriteString(strings.ToUpper(p))
		default:
			b.WriteString(strings.ToUpper(p[:1]) + p[1:])
		}
	}
	return b.String()
}
